package spec

import (
	"fmt"
	"strings"
)

// the dimensions of the virtual display. every physical display mode is
// scaled to this resolution
const (
	VirtualWidth  = 320
	VirtualHeight = 240
)

// the dimensions of the TMS9918 image and the borders that centre it in the
// virtual display
const (
	TMSWidth  = 256
	TMSHeight = 192
	BorderX   = (VirtualWidth - TMSWidth) / 2
	BorderY   = (VirtualHeight - TMSHeight) / 2
)

// Timing describes one axis of a display mode in pixels (horizontal) or lines
// (vertical)
type Timing struct {
	Display    int
	FrontPorch int
	Sync       int
	BackPorch  int
}

// Total is the number of pixels or lines on the axis, including blanking
func (t Timing) Total() int {
	return t.Display + t.FrontPorch + t.Sync + t.BackPorch
}

// Phase is the classification of a physical line
type Phase int

// List of valid Phase values. The order is the order in which they occur
// during a frame
const (
	PhaseSync Phase = iota
	PhaseBackPorch
	PhaseActive
	PhaseFrontPorch
)

func (p Phase) String() string {
	switch p {
	case PhaseSync:
		return "sync"
	case PhaseBackPorch:
		return "back porch"
	case PhaseActive:
		return "active"
	case PhaseFrontPorch:
		return "front porch"
	}
	return "unknown"
}

type Spec struct {
	ID            string
	PixelClockKHz float64
	H             Timing
	V             Timing

	// number of physical lines for every virtual line
	ScaleY int
}

var VGA Spec
var NTSC Spec
var PAL Spec

func init() {
	// http://tinyvga.com/vga-timing/640x480@60Hz
	VGA = Spec{
		ID:            "VGA",
		PixelClockKHz: 25175,
		H:             Timing{Display: 640, FrontPorch: 16, Sync: 96, BackPorch: 48},
		V:             Timing{Display: 480, FrontPorch: 10, Sync: 2, BackPorch: 33},
		ScaleY:        2,
	}

	// the SCART modes are progressive 240 line modes
	NTSC = Spec{
		ID:            "NTSC",
		PixelClockKHz: 13500,
		H:             Timing{Display: 720, FrontPorch: 16, Sync: 62, BackPorch: 60},
		V:             Timing{Display: 240, FrontPorch: 4, Sync: 3, BackPorch: 15},
		ScaleY:        1,
	}

	PAL = Spec{
		ID:            "PAL",
		PixelClockKHz: 13500,
		H:             Timing{Display: 720, FrontPorch: 12, Sync: 64, BackPorch: 68},
		V:             Timing{Display: 240, FrontPorch: 22, Sync: 3, BackPorch: 47},
		ScaleY:        1,
	}
}

// Lookup returns the Spec with the ID. The ID is not case sensitive
func Lookup(id string) (Spec, error) {
	switch strings.ToUpper(id) {
	case "VGA":
		return VGA, nil
	case "NTSC":
		return NTSC, nil
	case "PAL":
		return PAL, nil
	}
	return Spec{}, fmt.Errorf("spec: unknown display specification (%s)", id)
}

// TotalLines is the number of physical lines in a frame
func (s Spec) TotalLines() int {
	return s.V.Total()
}

// LineRate is the number of physical lines per second
func (s Spec) LineRate() float64 {
	return s.PixelClockKHz * 1000 / float64(s.H.Total())
}

// FrameRate is the number of frames per second
func (s Spec) FrameRate() float64 {
	return s.LineRate() / float64(s.V.Total())
}

// Classify returns the phase of the physical line
func (s Spec) Classify(line int) Phase {
	switch {
	case line < s.V.Sync:
		return PhaseSync
	case line < s.V.Sync+s.V.BackPorch:
		return PhaseBackPorch
	case line < s.V.Total()-s.V.FrontPorch:
		return PhaseActive
	}
	return PhaseFrontPorch
}

// ActiveLine converts a physical line to the virtual display line. The
// second return value is true on the repeated physical lines of a scaled
// line. The return value is -1 for lines that are not active
func (s Spec) ActiveLine(line int) (int, bool) {
	if s.Classify(line) != PhaseActive {
		return -1, false
	}
	a := line - s.V.Sync - s.V.BackPorch
	return a / s.ScaleY, a%s.ScaleY != 0
}

func (s Spec) String() string {
	return fmt.Sprintf("%s %dx%d@%.2fHz", s.ID, s.H.Display, s.V.Display, s.FrameRate())
}
