// Package tms generates scanlines for the TMS9918A display modes from the
// registers and VRAM of the chip.
package tms

import (
	"fmt"

	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/hardware/spec"
)

// Mode is the display mode selected by the M1, M2 and M3 register bits
type Mode int

// List of valid Mode values
const (
	Graphics1 Mode = iota
	Graphics2
	Multicolor
	Text
)

func (m Mode) String() string {
	switch m {
	case Graphics1:
		return "graphics I"
	case Graphics2:
		return "graphics II"
	case Multicolor:
		return "multicolor"
	case Text:
		return "text"
	}
	return "unknown"
}

// register bits
const (
	r0M3     = 0x02
	r1Blank  = 0x40
	r1M1     = 0x10
	r1M2     = 0x08
	r1Size   = 0x02
	r1Magnif = 0x01
)

// size of the text mode border on each side
const textBorder = 8

// TMS is the scanline generator. Scanline() must be called from inside the
// chip's critical section
type TMS struct {
	chip *chip.Chip

	// sprite pixels of the current line. zero is no sprite
	sprites [spec.TMSWidth]uint8
	drawn   [spec.TMSWidth]bool

	// counters for the monitor
	Lines int
}

// Create a new generator for the chip
func Create(c *chip.Chip) *TMS {
	return &TMS{chip: c}
}

func (t *TMS) Label() string {
	return "TMS"
}

func (t *TMS) String() string {
	return fmt.Sprintf("%s: %s blank=%v lines=%d", t.Label(), t.Mode(), t.blanked(), t.Lines)
}

// Mode returns the current display mode. Undocumented mode combinations are
// treated as the mode of the highest priority bit
func (t *TMS) Mode() Mode {
	r := &t.chip.Registers
	switch {
	case r[chip.RegMode1]&r1M1 == r1M1:
		return Text
	case r[chip.RegMode1]&r1M2 == r1M2:
		return Multicolor
	case r[chip.RegMode0]&r0M3 == r0M3:
		return Graphics2
	}
	return Graphics1
}

func (t *TMS) blanked() bool {
	return t.chip.Registers[chip.RegMode1]&r1Blank == 0
}

func (t *TMS) backdrop() uint8 {
	return t.chip.Registers[chip.RegBackdrop] & 0x0f
}

// Scanline writes the palette indices of the line into pixels. The y value is
// in the range 0 to 191 and pixels must be spec.TMSWidth long. A transparent
// pixel is written as the backdrop colour
func (t *TMS) Scanline(y int, pixels []uint8) {
	t.Lines++

	bd := t.backdrop()
	if t.blanked() {
		for i := range pixels {
			pixels[i] = bd
		}
		return
	}

	mode := t.Mode()
	switch mode {
	case Graphics1:
		t.graphics1(y, pixels)
	case Graphics2:
		t.graphics2(y, pixels)
	case Multicolor:
		t.multicolor(y, pixels)
	case Text:
		t.text(y, pixels)
	}

	if mode != Text {
		t.evaluateSprites(y)
		for x, c := range t.sprites {
			if c != 0 {
				pixels[x] = c
			}
		}
	}

	for i, c := range pixels {
		if c == 0 {
			pixels[i] = bd
		}
	}
}

func (t *TMS) vram(addr int) uint8 {
	return t.chip.VRAM[addr&chip.HostAddressMask]
}

func (t *TMS) nameTable() int {
	return int(t.chip.Registers[2]&0x0f) << 10
}

// pattern writes the eight pixels of the pattern byte
func pattern(pixels []uint8, b uint8, fg uint8, bg uint8, width int) {
	for i := range width {
		if b&(0x80>>i) != 0 {
			pixels[i] = fg
		} else {
			pixels[i] = bg
		}
	}
}

func (t *TMS) graphics1(y int, pixels []uint8) {
	r := &t.chip.Registers
	name := t.nameTable() + (y>>3)*32
	pat := int(r[4]&0x07) << 11
	col := int(r[3]) << 6

	for x := range 32 {
		n := int(t.vram(name + x))
		b := t.vram(pat + n*8 + (y & 7))
		c := t.vram(col + (n >> 3))
		pattern(pixels[x*8:], b, c>>4, c&0x0f, 8)
	}
}

func (t *TMS) graphics2(y int, pixels []uint8) {
	r := &t.chip.Registers
	name := t.nameTable() + (y>>3)*32
	pat := int(r[4]&0x04) << 11
	patMask := int(r[4]&0x03)<<8 | 0xff
	col := int(r[3]&0x80) << 6
	colMask := int(r[3]&0x7f)<<3 | 0x07
	third := (y >> 6) << 8

	for x := range 32 {
		n := int(t.vram(name+x)) + third
		b := t.vram(pat + (n&patMask)*8 + (y & 7))
		c := t.vram(col + (n&colMask)*8 + (y & 7))
		pattern(pixels[x*8:], b, c>>4, c&0x0f, 8)
	}
}

func (t *TMS) multicolor(y int, pixels []uint8) {
	r := &t.chip.Registers
	name := t.nameTable() + (y>>3)*32
	pat := int(r[4]&0x07) << 11
	row := ((y >> 3) & 0x03) * 2
	row += (y >> 2) & 0x01

	for x := range 32 {
		n := int(t.vram(name + x))
		c := t.vram(pat + n*8 + row)
		for i := range 4 {
			pixels[x*8+i] = c >> 4
			pixels[x*8+4+i] = c & 0x0f
		}
	}
}

func (t *TMS) text(y int, pixels []uint8) {
	r := &t.chip.Registers
	name := t.nameTable() + (y>>3)*40
	pat := int(r[4]&0x07) << 11
	fg := r[chip.RegBackdrop] >> 4
	bg := r[chip.RegBackdrop] & 0x0f

	for i := range textBorder {
		pixels[i] = bg
		pixels[spec.TMSWidth-1-i] = bg
	}
	for x := range 40 {
		n := int(t.vram(name + x))
		b := t.vram(pat + n*8 + (y & 7))
		pattern(pixels[textBorder+x*6:], b, fg, bg, 6)
	}
}
