package video

import (
	"fmt"
	"image"

	"github.com/jetsetilly/test9918/hardware/spec"
)

// Frame is a completed frame
type Frame struct {
	Number int
	Image  *image.RGBA
}

// Scanout writes lines received from the pipeline into a frame. A frame is
// pushed when its last line has been written
type Scanout struct {
	p    *Pipeline
	push func(Frame)

	scaleY int
	frame  *image.RGBA

	// counters
	Lines  int
	Frames int
}

func newScanout(p *Pipeline, push func(Frame)) *Scanout {
	s := &Scanout{
		p:      p,
		push:   push,
		scaleY: max(p.spec.ScaleY, 1),
	}
	s.newFrame()
	return s
}

func (s *Scanout) newFrame() {
	s.frame = image.NewRGBA(image.Rect(0, 0, spec.VirtualWidth, spec.VirtualHeight*s.scaleY))
}

func (s *Scanout) String() string {
	return fmt.Sprintf("SCANOUT: lines=%d frames=%d", s.Lines, s.Frames)
}

// Run the scanout until the done channel is closed
func (s *Scanout) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case l := <-s.p.out:
			s.scan(l)
		}
	}
}

// Drain writes any lines waiting to be scanned out. It does not block
func (s *Scanout) Drain() {
	for {
		select {
		case l := <-s.p.out:
			s.scan(l)
		default:
			return
		}
	}
}

func (s *Scanout) scan(l *Line) {
	for r := range s.scaleY {
		y := l.Y*s.scaleY + r
		o := s.frame.PixOffset(0, y)
		pix := s.frame.Pix[o : o+spec.VirtualWidth*4]
		for x, px := range l.Pixels {
			if r > 0 && l.CRT {
				px = (px >> 1) & 0x0777
			}
			c := spec.RGB12(px)
			pix[x*4] = c.R
			pix[x*4+1] = c.G
			pix[x*4+2] = c.B
			pix[x*4+3] = c.A
		}
	}

	last := l.Y == spec.VirtualHeight-1
	number := l.Frame

	// the buffer must not be used after it is returned
	s.p.free <- l
	s.Lines++

	if last {
		s.Frames++
		if s.push != nil {
			s.push(Frame{Number: number, Image: s.frame})
		}

		// the pushed frame now belongs to the receiver
		s.newFrame()
	}
}
