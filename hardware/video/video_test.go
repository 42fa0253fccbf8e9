package video_test

import (
	"testing"

	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/hardware/spec"
	"github.com/jetsetilly/test9918/hardware/tms"
	"github.com/jetsetilly/test9918/hardware/video"
	"github.com/jetsetilly/test9918/logger"
	"github.com/jetsetilly/test9918/test"
)

type ctx struct{}

func (ctx) Spec() spec.Spec     { return spec.VGA }
func (ctx) Family() spec.Family { return spec.RP2040 }

// fill generates lines of a single palette index
type fill uint8

func (f fill) Scanline(y int, pixels []uint8) {
	for i := range pixels {
		pixels[i] = uint8(f)
	}
}

func create(gen video.Generator) (*chip.Chip, *video.Pipeline) {
	c := chip.Create(ctx{})
	return c, video.Create(logger.Allow, c, gen, spec.VGA)
}

func TestBorder(t *testing.T) {
	c, p := create(fill(2))
	c.Registers[chip.RegBackdrop] = 0x04

	var frames []video.Frame
	s := p.Scanout(func(f video.Frame) {
		frames = append(frames, f)
	})

	var ended []int
	p.OnFrame(func(frame int) {
		ended = append(ended, frame)
	})

	for p.Frame == 0 {
		p.Tick()
		s.Drain()
	}
	test.ExpectEquality(t, p.Missed, 0)
	test.ExpectEquality(t, s.Lines, spec.VirtualHeight)
	test.DemandEquality(t, len(frames), 1)
	test.DemandEquality(t, len(ended), 1)
	test.ExpectEquality(t, ended[0], 1)
	test.ExpectEquality(t, frames[0].Number, 0)

	img := frames[0].Image
	test.ExpectEquality(t, img.Bounds().Dy(), spec.VirtualHeight*2)

	backdrop := spec.RGB12(spec.DefaultPalette[4])
	colour := spec.RGB12(spec.DefaultPalette[2])
	test.ExpectEquality(t, img.RGBAAt(0, 0), backdrop)
	test.ExpectEquality(t, img.RGBAAt(spec.BorderX-1, spec.BorderY*2), backdrop)
	test.ExpectEquality(t, img.RGBAAt(spec.BorderX, spec.BorderY*2), colour)
	test.ExpectEquality(t, img.RGBAAt(spec.BorderX, spec.BorderY*2+1), colour)
	test.ExpectEquality(t, img.RGBAAt(spec.VirtualWidth-spec.BorderX, spec.BorderY*2), backdrop)
}

func TestCRT(t *testing.T) {
	c, p := create(fill(2))
	c.Registers[chip.RegControl] |= chip.ControlCRTScanlines

	var frame video.Frame
	s := p.Scanout(func(f video.Frame) {
		frame = f
	})
	for p.Frame == 0 {
		p.Tick()
		s.Drain()
	}

	px := spec.DefaultPalette[2]
	y := spec.BorderY * 2
	test.ExpectEquality(t, frame.Image.RGBAAt(spec.BorderX, y), spec.RGB12(px))
	test.ExpectEquality(t, frame.Image.RGBAAt(spec.BorderX, y+1), spec.RGB12((px>>1)&0x0777))
}

func TestPaletteChange(t *testing.T) {
	c, p := create(fill(5))

	var frame video.Frame
	s := p.Scanout(func(f video.Frame) {
		frame = f
	})

	c.Borrow(func() {
		c.SetPaletteEntry(5, 0x0123)
	})
	for p.Frame == 0 {
		p.Tick()
		s.Drain()
	}
	test.ExpectEquality(t, frame.Image.RGBAAt(spec.BorderX, spec.BorderY*2), spec.RGB12(0x0123))
}

func TestStatus(t *testing.T) {
	c, p := create(fill(0))
	s := p.Scanout(nil)
	c.Registers[chip.RegLineInt] = 10

	p.Scanline(0)
	s.Drain()
	test.ExpectEquality(t, c.Status[1]&chip.Status1Blanking, uint8(chip.Status1Blanking))

	p.Scanline(spec.BorderY + 5)
	s.Drain()
	test.ExpectEquality(t, c.Status[1]&chip.Status1Blanking, uint8(0))
	test.ExpectEquality(t, c.Status[3], uint8(5))
	test.ExpectEquality(t, c.Status[1]&chip.Status1LineInt, uint8(0))

	p.Scanline(spec.BorderY + 10)
	s.Drain()
	test.ExpectEquality(t, c.Status[1]&chip.Status1LineInt, uint8(chip.Status1LineInt))
	test.ExpectEquality(t, c.Status[0]&chip.Status0INT, uint8(0))

	// frame interrupt at the end of the display area
	c.Registers[chip.RegMode1] |= chip.Mode1IE
	p.Scanline(spec.BorderY + spec.TMSHeight - 1)
	s.Drain()
	test.ExpectEquality(t, c.Status[0]&chip.Status0INT, uint8(chip.Status0INT))
	test.ExpectEquality(t, c.InterruptLine(), true)
}

func TestMissedDeadline(t *testing.T) {
	_, p := create(fill(1))
	s := p.Scanout(nil)

	// both buffers are taken by the scanout and not returned
	p.Scanline(30)
	p.Scanline(31)
	test.ExpectEquality(t, p.Missed, 0)
	p.Scanline(32)
	test.ExpectEquality(t, p.Missed, 1)

	s.Drain()
	test.ExpectEquality(t, s.Lines, 2)
	p.Scanline(33)
	test.ExpectEquality(t, p.Missed, 1)
}

func TestDeterminism(t *testing.T) {
	c := chip.Create(ctx{})
	c.Registers[1] = 0x40
	c.Registers[2] = 0x0e
	c.Registers[3] = 0x80
	for i := range 0x4000 {
		c.VRAM[i] = uint8(i*7 + i>>8)
	}
	p := video.Create(logger.Allow, c, tms.Create(c), spec.VGA)

	var frames []video.Frame
	s := p.Scanout(func(f video.Frame) {
		frames = append(frames, f)
	})
	for p.Frame < 2 {
		p.Tick()
		s.Drain()
	}
	test.DemandEquality(t, len(frames), 2)
	test.ExpectEquality(t, string(frames[0].Image.Pix), string(frames[1].Image.Pix))
}
