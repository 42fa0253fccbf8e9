package hardware

import (
	"time"

	"github.com/jetsetilly/test9918/hardware/spec"
)

type limiter struct {
	tick  *time.Ticker
	nudge chan bool

	// the payload function for the Wait() method
	wait func()
}

func newLimiter(spc spec.Spec) *limiter {
	l := &limiter{
		nudge: make(chan bool, 1),
	}

	// the ideal frame duration of the display mode
	d := time.Duration(float64(time.Second) / spc.FrameRate())

	// the wait() function deliberately starts slow and then changes state
	// after a few nudges to normal operation. the console nudges the limiter
	// every time the GUI accepts a frame so the slow start lasts until the
	// window is open. nudges have no effect after that
	var ct int
	l.wait = func() {
		select {
		case <-time.After(time.Duration(float64(d) * 1.025)):
		case <-l.nudge:
			ct++
			if ct > 2 {
				l.tick = time.NewTicker(d)
				l.wait = func() {
					<-l.tick.C
				}
			}
		}
	}

	return l
}

func (l *limiter) Wait() {
	l.wait()
}

func (l *limiter) Nudge() {
	select {
	case l.nudge <- true:
	default:
	}
}

func (l *limiter) Stop() {
	if l.tick != nil {
		l.tick.Stop()
	}
}
