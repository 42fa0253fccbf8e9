package config_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/test9918/hardware/config"
	"github.com/jetsetilly/test9918/hardware/spec"
	"github.com/jetsetilly/test9918/test"
)

// nor flash that only allows bits to be cleared by programming
type nor struct {
	data     []byte
	erases   int
	programs int
	failing  bool
}

func newNor() *nor {
	n := &nor{data: make([]byte, 0x200000)}
	for i := range n.data {
		n.data[i] = 0xff
	}
	return n
}

func (n *nor) Read(offset int, p []byte) error {
	copy(p, n.data[offset:])
	return nil
}

func (n *nor) Erase(offset int, size int) error {
	n.erases++
	for i := range size {
		n.data[offset+i] = 0xff
	}
	return nil
}

func (n *nor) Program(offset int, data []byte) error {
	n.programs++
	if n.failing {
		return nil
	}
	for i, v := range data {
		n.data[offset+i] &= v
	}
	return nil
}

var plat = config.Platform{Family: spec.RP2040, Spec: spec.VGA}

func TestDefaultsOnBlankFlash(t *testing.T) {
	n := newNor()
	p, err := config.Read(n, plat)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, p.Valid(plat))
	test.ExpectEquality(t, p[config.Model], uint8(1))
	test.ExpectEquality(t, p.PaletteEntry(0), uint16(0x0000))
	test.ExpectEquality(t, p.PaletteEntry(15), uint16(0xffff))
	test.ExpectEquality(t, p.PaletteEntry(2), uint16(0xf2c4))
	test.ExpectEquality(t, p.SpriteLimit(), uint8(4))

	// defaults are written with the current firmware version so there is
	// no need to save
	test.ExpectEquality(t, p[config.SaveToFlash], uint8(0))
}

func TestRoundTrip(t *testing.T) {
	n := newNor()
	p := config.Defaults(plat)
	p[config.CRTScanlines] = 1
	p[config.ScanlineSprites] = 3
	p.SetPaletteEntry(4, 0x0123)

	test.ExpectSuccess(t, config.Write(n, plat, &p))
	test.ExpectEquality(t, n.erases, 1)
	test.ExpectEquality(t, n.programs, 1)

	// the alpha nibble is forced on write
	test.ExpectEquality(t, p.PaletteEntry(4), uint16(0xf123))

	q, err := config.Read(n, plat)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, q[config.CRTScanlines], uint8(1))
	test.ExpectEquality(t, q.SpriteLimit(), uint8(32))
	test.ExpectEquality(t, q.PaletteEntry(4), uint16(0xf123))
}

func TestValidation(t *testing.T) {
	bad := []func(p *config.Page){
		func(p *config.Page) { p[config.Model] = 2 },
		func(p *config.Page) { p[config.DisplayDriver] = 1 },
		func(p *config.Page) { p[config.ClockPreset] = 3 },
		func(p *config.Page) { p[config.CRTScanlines] = 2 },
		func(p *config.Page) { p[config.ScanlineSprites] = 4 },
		func(p *config.Page) { p[config.Palette] = 1 },
		func(p *config.Page) { p[config.Palette+2] = 0x00 },
	}
	for i, f := range bad {
		p := config.Defaults(plat)
		f(&p)
		err := p.Valid(plat)
		test.ExpectFailure(t, err, i)
		test.ExpectSuccess(t, errors.Is(err, config.ConfigError), i)
	}

	// a page from another family resets to the defaults of this family
	n := newNor()
	other := config.Platform{Family: spec.RP2350, Spec: spec.VGA}
	p := config.Defaults(other)
	p[config.CRTScanlines] = 1
	test.ExpectSuccess(t, config.Write(n, other, &p))
	q, err := config.Read(n, plat)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, q[config.Model], uint8(1))
	test.ExpectEquality(t, q[config.CRTScanlines], uint8(0))
}

func TestUpgrade(t *testing.T) {
	n := newNor()
	p := config.Defaults(plat)
	p[config.PatchVersion] = 0
	test.ExpectSuccess(t, config.Write(n, plat, &p))

	q, err := config.Read(n, plat)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, q[config.PatchVersion], uint8(config.FirmwarePatch))
	test.ExpectEquality(t, q[config.SaveToFlash], uint8(1))
}

func TestWriteVerifyFailure(t *testing.T) {
	n := newNor()
	n.failing = true
	p := config.Defaults(plat)
	err := config.Write(n, plat, &p)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, n.programs, 5)
}

type target struct {
	regs    [64]uint8
	palette [16]uint16
}

func (t *target) Register(idx uint8) uint8 { return t.regs[idx] }
func (t *target) SetRegister(idx uint8, v uint8) { t.regs[idx] = v }
func (t *target) SetPaletteEntry(i int, rgb uint16) { t.palette[i] = rgb }

func TestApply(t *testing.T) {
	p := config.Defaults(plat)
	p[config.CRTScanlines] = 1
	p[config.ScanlineSprites] = 1
	p[config.DiagPalette] = 1

	var tg target
	tg.regs[50] = 0x40
	p.Apply(&tg)
	test.ExpectEquality(t, tg.regs[50], uint8(0x44))
	test.ExpectEquality(t, tg.regs[30], uint8(8))
	test.ExpectEquality(t, tg.palette[15], uint16(0x0fff))
	test.ExpectEquality(t, tg.palette[0], uint16(0x0000))
	test.ExpectEquality(t, p[config.Diag], uint8(1))

	p[config.CRTScanlines] = 0
	p[config.DiagPalette] = 0
	p.Apply(&tg)
	test.ExpectEquality(t, tg.regs[50], uint8(0x40))
	test.ExpectEquality(t, p[config.Diag], uint8(0))
}
