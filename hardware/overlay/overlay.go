// Package overlay draws rows of diagnostic information over the bottom of the
// display. The rows that are shown are chosen from the config page whenever
// the config page changes.
package overlay

import (
	"image"
	"strings"

	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/hardware/config"
	"github.com/jetsetilly/test9918/hardware/spec"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// geometry of the rows
const (
	RowHeight = 13
	margin    = 4
)

// colours of the overlay in 12bit RGB
const (
	ink = 0x0fff
)

// Overlay is the list of rows currently shown
type Overlay struct {
	rows []Row

	// the first virtual line of the overlay
	top int

	// the rendered text of all rows
	mask *image.Alpha
	text []string
}

// NewOverlay is the preferred method of initialisation for the Overlay type
func NewOverlay() *Overlay {
	return &Overlay{}
}

// Choose the rows to show from the config page
func (ov *Overlay) Choose(page *config.Page) {
	ov.rows = ov.rows[:0]
	if page[config.Diag] != 0 {
		if page[config.DiagRegisters] != 0 {
			ov.rows = append(ov.rows, Registers{From: 0}, Registers{From: 8})
		}
		if page[config.DiagPerformance] != 0 {
			ov.rows = append(ov.rows, Performance{})
		}
		if page[config.DiagTemperature] != 0 {
			ov.rows = append(ov.rows, Temperature{})
		}
		if page[config.DiagPalette] != 0 {
			ov.rows = append(ov.rows, &Palette{})
		}
	}

	ov.top = spec.VirtualHeight - len(ov.rows)*RowHeight
	ov.text = make([]string, len(ov.rows))
	ov.mask = image.NewAlpha(image.Rect(0, 0, spec.VirtualWidth, len(ov.rows)*RowHeight))
}

// Rows returns the rows currently shown
func (ov *Overlay) Rows() []Row {
	return ov.rows
}

// Active is true if there are any rows to show
func (ov *Overlay) Active() bool {
	return len(ov.rows) > 0
}

// Update the text of the rows. It should be called once per frame from inside
// the chip's critical section
func (ov *Overlay) Update(c *chip.Chip, st Stats) {
	for i, r := range ov.rows {
		if u, ok := r.(updater); ok {
			u.update(c)
		}
		s := r.Text(c, st)
		if s == ov.text[i] {
			continue
		}
		ov.text[i] = s
		ov.render(i)
	}
}

func (ov *Overlay) render(i int) {
	top := i * RowHeight
	for y := top; y < top+RowHeight; y++ {
		o := ov.mask.PixOffset(0, y)
		clear(ov.mask.Pix[o : o+spec.VirtualWidth])
	}

	d := font.Drawer{
		Dst:  ov.mask,
		Src:  image.Opaque,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(margin, top+basicfont.Face7x13.Ascent),
	}
	d.DrawString(ov.text[i])
}

// Apply the overlay to the virtual line. The line is 12bit RGB
func (ov *Overlay) Apply(y int, line []uint16) {
	if y < ov.top || y >= ov.top+len(ov.rows)*RowHeight {
		return
	}
	row := (y - ov.top) / RowHeight
	o := ov.mask.PixOffset(0, y-ov.top)
	mask := ov.mask.Pix[o : o+spec.VirtualWidth]
	p, _ := ov.rows[row].(painter)

	for x := range line {
		if mask[x] != 0 {
			line[x] = ink
			continue
		}
		if p != nil {
			if c, ok := p.paint(x); ok {
				line[x] = c
				continue
			}
		}
		line[x] = (line[x] >> 1) & 0x0777
	}
}

func (ov *Overlay) String() string {
	return strings.Join(ov.text, "\n")
}
