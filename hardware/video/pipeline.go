// Package video turns the chip state into display lines. The Pipeline runs in
// the background context and renders one virtual line at a time. Lines are
// handed to the Scanout which assembles them into frames for the GUI.
//
// There are exactly two line buffers. A buffer is owned by the pipeline while
// it is being rendered and by the scanout while it is being written to the
// frame. If the scanout has not returned a buffer by the time the next line
// is due the line is dropped and counted as a missed deadline.
package video

import (
	"fmt"
	"time"

	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/hardware/overlay"
	"github.com/jetsetilly/test9918/hardware/spec"
	"github.com/jetsetilly/test9918/logger"
)

// Generator produces the palette indices of a line in the TMS display area
type Generator interface {
	Scanline(y int, pixels []uint8)
}

// Line is a rendered virtual line in 12bit RGB
type Line struct {
	Y      int
	Frame  int
	Pixels [spec.VirtualWidth]uint16

	// the repeated physical lines of the virtual line should be darkened
	CRT bool
}

const numBuffers = 2

// Pipeline is the scanline state machine of the display
type Pipeline struct {
	ctx  logger.Permission
	chip *chip.Chip
	gen  Generator
	spec spec.Spec

	Overlay *overlay.Overlay

	lut     [spec.PaletteEntries]uint16
	buffers [numBuffers]Line
	free    chan *Line
	out     chan *Line
	tms     [spec.TMSWidth]uint8

	// current physical line and frame number
	Line  int
	Frame int

	// the number of lines that could not be handed to the scanout
	Missed      int
	frameMissed int

	// time spent rendering the previous frame
	RenderTime time.Duration
	rendering  time.Duration
	frameStart time.Time

	// values shown by the overlay. the temperature is set by the console
	Stats overlay.Stats

	onFrame []func(frame int)
}

// Create a new pipeline
func Create(ctx logger.Permission, c *chip.Chip, gen Generator, spc spec.Spec) *Pipeline {
	p := &Pipeline{
		ctx:     ctx,
		chip:    c,
		gen:     gen,
		spec:    spc,
		Overlay: overlay.NewOverlay(),
		free:    make(chan *Line, numBuffers),
		out:     make(chan *Line, numBuffers),
	}
	for i := range p.buffers {
		p.free <- &p.buffers[i]
	}
	p.Reset()
	return p
}

// Reset the pipeline to the first line of the first frame
func (p *Pipeline) Reset() {
	p.Line = 0
	p.Frame = 0
	p.Missed = 0
	p.frameMissed = 0
	p.RenderTime = 0
	p.rendering = 0
	p.frameStart = time.Now()
	p.chip.Borrow(func() {
		p.chip.PaletteDirty = true
		p.Overlay.Choose(&p.chip.Config)
	})
}

func (p *Pipeline) Label() string {
	return "VIDEO"
}

func (p *Pipeline) String() string {
	return fmt.Sprintf("%s: %s frame=%d line=%d (%s) missed=%d", p.Label(), p.spec.ID,
		p.Frame, p.Line, p.spec.Classify(p.Line), p.Missed)
}

func (p *Pipeline) Spec() spec.Spec {
	return p.spec
}

// OnFrame adds a function to be called at the end of every frame. Functions
// are called outside of the chip's critical section
func (p *Pipeline) OnFrame(f func(frame int)) {
	p.onFrame = append(p.onFrame, f)
}

// Scanout creates the scanout engine for the pipeline. The returned scanout
// must be run or drained for the pipeline to make progress
func (p *Pipeline) Scanout(push func(frame Frame)) *Scanout {
	return newScanout(p, push)
}

// Tick advances the pipeline by one physical line
func (p *Pipeline) Tick() {
	vy, repeat := p.spec.ActiveLine(p.Line)
	if vy >= 0 && !repeat {
		p.Scanline(vy)
	}

	p.Line++
	if p.Line >= p.spec.TotalLines() {
		p.Line = 0
		p.endFrame()
	}
}

func (p *Pipeline) endFrame() {
	now := time.Now()
	if d := now.Sub(p.frameStart); d > 0 {
		p.Stats.FrameRate = float64(time.Second) / float64(d)
	}
	p.frameStart = now
	p.RenderTime = p.rendering
	p.rendering = 0

	p.Stats.Missed = p.Missed
	p.Stats.RenderTime = p.RenderTime
	if p.frameMissed > 0 {
		logger.Logf(p.ctx, "video", "%d lines missed in frame %d", p.frameMissed, p.Frame)
		p.frameMissed = 0
	}

	p.Frame++
	for _, f := range p.onFrame {
		f(p.Frame)
	}
}

// Scanline renders the virtual line and hands it to the scanout. The status
// registers are updated for the line
func (p *Pipeline) Scanline(vy int) {
	start := time.Now()
	defer func() {
		p.rendering += time.Since(start)
	}()

	var l *Line
	select {
	case l = <-p.free:
	default:
	}

	p.chip.Borrow(func() {
		if vy == 0 {
			p.Overlay.Update(p.chip, p.Stats)
		}
		if l != nil {
			p.render(vy, l)
		}
		p.status(vy)
	})

	if l == nil {
		p.Missed++
		p.frameMissed++
		return
	}

	select {
	case p.out <- l:
	default:
		p.Missed++
		p.frameMissed++
		p.free <- l
	}
}

// render must be called from inside the chip's critical section
func (p *Pipeline) render(vy int, l *Line) {
	c := p.chip
	if c.PaletteDirty {
		for i := range p.lut {
			p.lut[i] = c.PaletteEntry(i)
		}
		c.PaletteDirty = false
	}

	l.Y = vy
	l.Frame = p.Frame
	l.CRT = c.Registers[chip.RegControl]&chip.ControlCRTScanlines == chip.ControlCRTScanlines

	backdrop := p.lut[c.Registers[chip.RegBackdrop]&0x0f]

	ty := vy - spec.BorderY
	if ty < 0 || ty >= spec.TMSHeight {
		for x := range l.Pixels {
			l.Pixels[x] = backdrop
		}
	} else {
		for x := range spec.BorderX {
			l.Pixels[x] = backdrop
			l.Pixels[spec.VirtualWidth-1-x] = backdrop
		}
		p.gen.Scanline(ty, p.tms[:])
		for x, idx := range p.tms {
			l.Pixels[spec.BorderX+x] = p.lut[idx&(spec.PaletteEntries-1)]
		}
	}

	p.Overlay.Apply(vy, l.Pixels[:])
}

// status must be called from inside the chip's critical section
func (p *Pipeline) status(vy int) {
	c := p.chip
	ty := vy - spec.BorderY

	if ty >= 0 && ty < spec.TMSHeight {
		c.Status[3] = uint8(ty)
		c.Status[1] &^= chip.Status1Blanking
	} else {
		c.Status[1] |= chip.Status1Blanking
	}

	if l := c.Registers[chip.RegLineInt]; l != 0 && ty == int(l) {
		c.Status[1] |= chip.Status1LineInt
	}

	// the frame interrupt is raised at the end of the last line of the
	// display area
	if ty == spec.TMSHeight-1 {
		c.SetStatusBits(0, chip.Status0INT)
	} else {
		c.Rearm()
	}
}
