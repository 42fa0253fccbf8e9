package tms_test

import (
	"testing"

	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/hardware/spec"
	"github.com/jetsetilly/test9918/hardware/tms"
	"github.com/jetsetilly/test9918/test"
)

type ctx struct{}

func (ctx) Spec() spec.Spec     { return spec.VGA }
func (ctx) Family() spec.Family { return spec.RP2040 }

// the sprite attribute table used by the tests
const sat = 0x1b00

func create(regs map[uint8]uint8) (*chip.Chip, *tms.TMS) {
	c := chip.Create(ctx{})
	c.SetRegister(5, sat>>7)
	c.VRAM[sat] = 0xd0
	for r, v := range regs {
		c.SetRegister(r, v)
	}
	return c, tms.Create(c)
}

func scanline(g *tms.TMS, y int) []uint8 {
	pixels := make([]uint8, spec.TMSWidth)
	g.Scanline(y, pixels)
	return pixels
}

func TestBlank(t *testing.T) {
	_, g := create(map[uint8]uint8{7: 0x04})
	for _, p := range scanline(g, 0) {
		test.DemandEquality(t, p, uint8(0x04))
	}
}

func TestGraphics1(t *testing.T) {
	c, g := create(map[uint8]uint8{1: 0x40, 2: 0x00, 3: 0x80, 4: 0x01, 7: 0x07})
	test.ExpectEquality(t, g.Mode(), tms.Graphics1)

	c.VRAM[0x0000] = 1
	c.VRAM[0x0808] = 0xf0
	c.VRAM[0x2000] = 0x61

	p := scanline(g, 0)
	test.ExpectEquality(t, p[0], uint8(6))
	test.ExpectEquality(t, p[3], uint8(6))
	test.ExpectEquality(t, p[4], uint8(1))
	test.ExpectEquality(t, p[8], uint8(1))

	// transparent background shows the backdrop
	c.VRAM[0x2000] = 0x60
	p = scanline(g, 0)
	test.ExpectEquality(t, p[4], uint8(7))
}

func TestGraphics2(t *testing.T) {
	c, g := create(map[uint8]uint8{0: 0x02, 1: 0x40, 2: 0x0e, 3: 0xff, 4: 0x03})
	test.ExpectEquality(t, g.Mode(), tms.Graphics2)

	// first name of the middle third uses pattern 256
	c.VRAM[0x3800+8*32] = 0
	c.VRAM[0x0800] = 0x80
	c.VRAM[0x2800] = 0x5f

	p := scanline(g, 64)
	test.ExpectEquality(t, p[0], uint8(5))
	test.ExpectEquality(t, p[1], uint8(15))

	// same name in the top third uses pattern 0
	p = scanline(g, 0)
	test.ExpectEquality(t, p[0], uint8(0))
}

func TestMulticolor(t *testing.T) {
	c, g := create(map[uint8]uint8{1: 0x48, 2: 0x0e, 4: 0x00, 7: 0x01})
	test.ExpectEquality(t, g.Mode(), tms.Multicolor)

	c.VRAM[0x3800] = 2
	c.VRAM[0x0010] = 0x9c
	c.VRAM[0x0011] = 0x30

	p := scanline(g, 0)
	test.ExpectEquality(t, p[0], uint8(9))
	test.ExpectEquality(t, p[4], uint8(12))

	p = scanline(g, 4)
	test.ExpectEquality(t, p[3], uint8(3))
	test.ExpectEquality(t, p[7], uint8(1))
}

func TestText(t *testing.T) {
	c, g := create(map[uint8]uint8{1: 0x50, 2: 0x00, 4: 0x01, 7: 0xf4})
	test.ExpectEquality(t, g.Mode(), tms.Text)

	c.VRAM[0x0000] = 1
	c.VRAM[0x0808] = 0xfc

	p := scanline(g, 0)
	test.ExpectEquality(t, p[0], uint8(4))
	test.ExpectEquality(t, p[7], uint8(4))
	test.ExpectEquality(t, p[8], uint8(15))
	test.ExpectEquality(t, p[13], uint8(15))
	test.ExpectEquality(t, p[14], uint8(4))
	test.ExpectEquality(t, p[255], uint8(4))
}

func sprite(c *chip.Chip, n int, y, x, name, colour uint8) {
	a := sat + n*4
	c.VRAM[a] = y
	c.VRAM[a+1] = x
	c.VRAM[a+2] = name
	c.VRAM[a+3] = colour
	c.VRAM[a+4] = 0xd0
}

func TestSpriteCollision(t *testing.T) {
	c, g := create(map[uint8]uint8{1: 0x40, 2: 0x0e, 3: 0x80, 4: 0x00, 6: 0x01, 7: 0x01, 30: 4})
	c.VRAM[0x0800] = 0xff
	sprite(c, 0, 9, 20, 0, 0x0a)
	sprite(c, 1, 9, 24, 0, 0x03)

	p := scanline(g, 10)
	test.ExpectEquality(t, p[19], uint8(1))
	test.ExpectEquality(t, p[20], uint8(10))
	test.ExpectEquality(t, p[24], uint8(10))
	test.ExpectEquality(t, p[28], uint8(3))
	test.ExpectEquality(t, p[32], uint8(1))
	test.ExpectEquality(t, c.Status[0]&chip.Status0Collision, uint8(chip.Status0Collision))
	test.ExpectEquality(t, c.Status[0]&chip.Status0Fifth, uint8(0))
	test.ExpectEquality(t, c.Status[0]&chip.Status0Sprite, uint8(2))

	// magnified sprites are twice the size
	c.SetRegister(1, 0x41)
	c.SetStatus(0, 0)
	p = scanline(g, 11)
	test.ExpectEquality(t, p[35], uint8(10))
	test.ExpectEquality(t, p[36], uint8(3))
	test.ExpectEquality(t, p[52], uint8(1))
}

func TestFifthSprite(t *testing.T) {
	c, g := create(map[uint8]uint8{1: 0x40, 2: 0x0e, 3: 0x80, 4: 0x00, 6: 0x01, 7: 0x01, 30: 4})
	c.VRAM[0x0800] = 0xff
	for i := range 5 {
		sprite(c, i, 9, uint8(i*40), 0, 0x02)
	}

	p := scanline(g, 10)
	test.ExpectEquality(t, p[120], uint8(2))
	test.ExpectEquality(t, p[160], uint8(1))
	test.ExpectEquality(t, c.Status[0]&chip.Status0Fifth, uint8(chip.Status0Fifth))
	test.ExpectEquality(t, c.Status[0]&chip.Status0Sprite, uint8(4))
	test.ExpectEquality(t, c.Status[0]&chip.Status0Collision, uint8(0))

	// a higher limit shows all five
	c.SetRegister(30, 8)
	c.SetStatus(0, 0)
	p = scanline(g, 10)
	test.ExpectEquality(t, p[160], uint8(2))
	test.ExpectEquality(t, c.Status[0]&chip.Status0Fifth, uint8(0))
}

func TestDeterminism(t *testing.T) {
	c, g := create(map[uint8]uint8{1: 0x40, 2: 0x0e, 3: 0x80, 4: 0x00, 6: 0x01, 7: 0x01})
	for i := range 0x800 {
		c.VRAM[i] = uint8(i * 13)
	}
	a := scanline(g, 100)
	b := scanline(g, 100)
	test.ExpectEquality(t, string(a), string(b))
}
