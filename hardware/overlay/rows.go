package overlay

import (
	"fmt"
	"strings"
	"time"

	"github.com/jetsetilly/test9918/hardware/chip"
)

// Stats are the values of the performance and temperature rows
type Stats struct {
	FrameRate   float64
	Missed      int
	RenderTime  time.Duration
	Temperature float32
}

// Row is a single line of text in the overlay
type Row interface {
	Text(c *chip.Chip, st Stats) string
}

// rows that change state before the text is drawn
type updater interface {
	update(c *chip.Chip)
}

// rows that colour pixels not covered by text
type painter interface {
	paint(x int) (uint16, bool)
}

// Registers shows eight registers from the first register
type Registers struct {
	From int
}

func (r Registers) Text(c *chip.Chip, _ Stats) string {
	var s strings.Builder
	fmt.Fprintf(&s, "R%02d", r.From)
	for i := r.From; i < r.From+8 && i < chip.NumRegisters; i++ {
		fmt.Fprintf(&s, " %02X", c.Registers[i])
	}
	return s.String()
}

// Performance shows the frame rate and the number of missed scanlines
type Performance struct{}

func (Performance) Text(_ *chip.Chip, st Stats) string {
	return fmt.Sprintf("%5.1f fps %5.2fms missed %d", st.FrameRate, float64(st.RenderTime.Microseconds())/1000, st.Missed)
}

// Temperature shows the temperature of the device
type Temperature struct{}

func (Temperature) Text(_ *chip.Chip, st Stats) string {
	return fmt.Sprintf("temp %.1fC", st.Temperature)
}

// geometry of the palette swatches
const (
	swatchStart = 40
	swatchWidth = 16
)

// Palette shows the first sixteen palette entries
type Palette struct {
	entries [16]uint16
}

func (p *Palette) Text(_ *chip.Chip, _ Stats) string {
	return "PAL"
}

func (p *Palette) update(c *chip.Chip) {
	for i := range p.entries {
		p.entries[i] = c.PaletteEntry(i)
	}
}

func (p *Palette) paint(x int) (uint16, bool) {
	i := (x - swatchStart) / swatchWidth
	if x < swatchStart || i >= len(p.entries) {
		return 0, false
	}
	// gap between swatches
	if (x-swatchStart)%swatchWidth == 0 {
		return 0, true
	}
	return p.entries[i], true
}
