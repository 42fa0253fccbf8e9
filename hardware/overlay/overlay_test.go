package overlay_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/hardware/config"
	"github.com/jetsetilly/test9918/hardware/overlay"
	"github.com/jetsetilly/test9918/hardware/spec"
	"github.com/jetsetilly/test9918/test"
)

type ctx struct{}

func (ctx) Spec() spec.Spec     { return spec.VGA }
func (ctx) Family() spec.Family { return spec.RP2040 }

func TestChoose(t *testing.T) {
	var page config.Page
	ov := overlay.NewOverlay()
	ov.Choose(&page)
	test.ExpectEquality(t, ov.Active(), false)

	page[config.DiagRegisters] = 1
	page[config.DiagPalette] = 1
	page.UpdateDiag()
	ov.Choose(&page)
	test.DemandEquality(t, len(ov.Rows()), 3)

	page[config.DiagRegisters] = 0
	page[config.DiagTemperature] = 1
	ov.Choose(&page)
	test.DemandEquality(t, len(ov.Rows()), 2)
	_, ok := ov.Rows()[0].(overlay.Temperature)
	test.ExpectSuccess(t, ok)
}

func TestApply(t *testing.T) {
	c := chip.Create(ctx{})
	c.Registers[7] = 0xf4

	var page config.Page
	page[config.DiagRegisters] = 1
	page.UpdateDiag()

	ov := overlay.NewOverlay()
	ov.Choose(&page)
	ov.Update(c, overlay.Stats{})
	test.ExpectSuccess(t, strings.Contains(ov.String(), "R00 00 00 00 00 00 00 00 F4"))

	// lines above the overlay are untouched
	line := make([]uint16, spec.VirtualWidth)
	for i := range line {
		line[i] = 0x0888
	}
	ov.Apply(0, line)
	test.ExpectEquality(t, line[0], uint16(0x0888))

	// overlay lines are darkened or drawn in the ink colour
	top := spec.VirtualHeight - 2*overlay.RowHeight
	var ink, dark int
	for y := top; y < top+overlay.RowHeight; y++ {
		for i := range line {
			line[i] = 0x0888
		}
		ov.Apply(y, line)
		for _, p := range line {
			switch p {
			case 0x0fff:
				ink++
			case 0x0444:
				dark++
			default:
				t.Fatalf("unexpected pixel value %#04x", p)
			}
		}
	}
	test.ExpectInequality(t, ink, 0)
	test.ExpectInequality(t, dark, 0)
}

func TestPaletteRow(t *testing.T) {
	c := chip.Create(ctx{})
	c.SetPaletteEntry(3, 0x0abc)

	var page config.Page
	page[config.DiagPalette] = 1
	page.UpdateDiag()

	ov := overlay.NewOverlay()
	ov.Choose(&page)
	ov.Update(c, overlay.Stats{})

	// the last line of the row has no text
	line := make([]uint16, spec.VirtualWidth)
	ov.Apply(spec.VirtualHeight-1, line)
	test.ExpectEquality(t, line[40+3*16+1], uint16(0x0abc))
	test.ExpectEquality(t, line[40+3*16], uint16(0))
}
