package hardware

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jetsetilly/test9918/gui"
	"github.com/jetsetilly/test9918/hardware/bus"
	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/hardware/config"
	"github.com/jetsetilly/test9918/hardware/flash"
	"github.com/jetsetilly/test9918/hardware/gpu"
	"github.com/jetsetilly/test9918/hardware/host"
	"github.com/jetsetilly/test9918/hardware/spec"
	"github.com/jetsetilly/test9918/hardware/temperature"
	"github.com/jetsetilly/test9918/hardware/tms"
	"github.com/jetsetilly/test9918/hardware/video"
	"github.com/jetsetilly/test9918/logger"
)

var ContextError = errors.New("console")

// Context is the environment the console runs in
type Context interface {
	chip.Context
	logger.Permission
	Break(error)

	// whether the console should run at the speed of the display
	UseLimiter() bool
}

// Console is the complete device. The background context is whichever
// goroutine calls Step() or Run(). Bus cycles can be made from any goroutine
type Console struct {
	ctx Context
	gui *gui.GUI

	Chip       *chip.Chip
	Bus        *bus.Bus
	TMS        *tms.TMS
	Video      *video.Pipeline
	Scanout    *video.Scanout
	GPU        *gpu.GPU
	Flash      *flash.Flash
	Programmer *flash.Programmer
	Host       *host.Host

	Thermometer temperature.Thermometer

	limit *limiter

	// the scanout runs in its own goroutine while the console is running.
	// otherwise it is drained after every line
	scanning bool

	// progress of the background context. used by the host to wait for lines
	// and frames
	crit     sync.Mutex
	progress *sync.Cond
	running  bool
	lines    int
	frames   int

	// number of flash jobs at the time the flash image was last saved
	savedJobs int
}

// Create a new console. The gui argument can be nil. The flash is erased
// until Insert() is called
func Create(ctx Context, g *gui.GUI) *Console {
	con := &Console{
		ctx:         ctx,
		gui:         g,
		Thermometer: temperature.Default(),
	}
	con.progress = sync.NewCond(&con.crit)

	con.Chip = chip.Create(ctx)
	con.Bus = bus.Create(con.Chip)
	con.TMS = tms.Create(con.Chip)
	con.Video = video.Create(ctx, con.Chip, con.TMS, ctx.Spec())
	con.Scanout = con.Video.Scanout(con.push)
	con.GPU = gpu.Create(con.Chip, nil)
	con.Flash = flash.NewFlash(ctx)
	con.Programmer = flash.Create(ctx, con.Chip, con.Flash, ctx.Family())
	con.Host = host.NewHost(ctx, con.Bus, con)
	con.limit = newLimiter(ctx.Spec())

	con.Video.OnFrame(con.endFrame)
	con.Reset()

	return con
}

// Insert restores the flash image from disk and reads the config page from
// it. The console is reset afterwards
func (con *Console) Insert() {
	con.Flash.Restore()
	con.Reset()
}

// Reset the console to the power on state. The config page is reread from
// the flash
func (con *Console) Reset() {
	page, err := config.Read(con.Flash, con.Chip.Platform())
	if err != nil {
		logger.Log(con.ctx, "config", err)
	}

	con.Chip.Borrow(func() {
		con.Chip.Config = page
		con.Chip.Reset()

		// an out of date page is saved at the end of the first frame
		con.Chip.ConfigDirty = page[config.SaveToFlash] != 0
	})
	con.GPU.Reset()
	con.Programmer.Reset()
	con.Video.Reset()
	con.savedJobs = 0
}

func (con *Console) String() string {
	var s strings.Builder
	s.WriteString(con.Video.String())
	s.WriteString("\n")
	s.WriteString(con.Bus.String())
	s.WriteString("\n")
	s.WriteString(con.GPU.String())
	s.WriteString("\n")
	s.WriteString(con.Programmer.String())
	return s.String()
}

// Step advances the background context by one physical line
func (con *Console) Step() {
	vy, repeat := con.Video.Spec().ActiveLine(con.Video.Line)

	con.Video.Tick()
	if !con.scanning {
		con.Scanout.Drain()
	}

	// the scanline trigger happens once for every virtual line
	if vy >= 0 && !repeat {
		con.Chip.Borrow(func() {
			if con.Chip.Registers[chip.RegControl]&chip.ControlGPUScanline == chip.ControlGPUScanline {
				con.GPU.Trigger()
			}
		})
	}

	con.GPU.Service()
	con.Programmer.Service()

	con.crit.Lock()
	con.lines++
	con.progress.Broadcast()
	con.crit.Unlock()
}

// Run the console until the stop channel receives a value or until the hook
// function returns an error. The hook is called after every line
func (con *Console) Run(stop chan bool, hook func() error) error {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		con.Scanout.Run(done)
	}()
	con.scanning = true

	con.crit.Lock()
	con.running = true
	con.crit.Unlock()

	defer func() {
		con.crit.Lock()
		con.running = false
		con.progress.Broadcast()
		con.crit.Unlock()

		close(done)
		wg.Wait()
		con.scanning = false
		con.Scanout.Drain()
	}()

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		con.Step()

		if hook != nil {
			if err := hook(); err != nil {
				return err
			}
		}
	}
}

// WaitLines blocks until the background context has advanced by the number
// of lines. If the console is not running the lines are stepped by the
// calling goroutine
func (con *Console) WaitLines(n int) {
	con.crit.Lock()
	if !con.running {
		con.crit.Unlock()
		for range n {
			con.Step()
		}
		return
	}
	target := con.lines + n
	for con.running && con.lines < target {
		con.progress.Wait()
	}
	con.crit.Unlock()
}

// WaitFrames blocks until the background context has completed the number
// of frames
func (con *Console) WaitFrames(n int) {
	con.crit.Lock()
	target := con.frames + n
	if !con.running {
		con.crit.Unlock()
		for con.Frames() < target {
			con.Step()
		}
		return
	}
	for con.running && con.frames < target {
		con.progress.Wait()
	}
	con.crit.Unlock()
}

// Frames is the number of frames completed by the background context
func (con *Console) Frames() int {
	con.crit.Lock()
	defer con.crit.Unlock()
	return con.frames
}

// endFrame is called by the video pipeline at the end of every frame
func (con *Console) endFrame(frame int) {
	var apply, save bool

	con.Chip.Borrow(func() {
		c := con.Chip
		if c.Registers[chip.RegControl]&chip.ControlGPUFrame == chip.ControlGPUFrame {
			con.GPU.Trigger()
		}
		if c.ConfigDirty {
			c.ConfigDirty = false
			apply = true
			if c.Config[config.SaveToFlash] != 0 {
				c.Config[config.SaveToFlash] = 0
				save = true
			}
		}
	})

	if apply {
		con.applyConfig(save)
	}

	con.sampleTemperature()

	if con.Programmer.Jobs != con.savedJobs {
		con.savedJobs = con.Programmer.Jobs
		con.Flash.Save()
	}

	con.crit.Lock()
	con.frames++
	con.progress.Broadcast()
	con.crit.Unlock()

	if con.ctx.UseLimiter() {
		con.limit.Wait()
	}
}

func (con *Console) applyConfig(save bool) {
	var page config.Page
	con.Chip.Borrow(func() {
		con.Chip.ApplyConfig()
		con.Video.Overlay.Choose(&con.Chip.Config)
		page = con.Chip.Config
	})

	if !save {
		return
	}

	err := config.Write(con.Flash, con.Chip.Platform(), &page)
	if err != nil {
		logger.Log(con.ctx, "config", err)
		con.ctx.Break(fmt.Errorf("%w: %w", ContextError, err))
		return
	}
	con.Flash.Save()
	logger.Log(con.ctx, "config", "config page saved")
}

func (con *Console) sampleTemperature() {
	if con.Thermometer == nil {
		return
	}
	t, err := con.Thermometer.Celsius()
	if err != nil {
		logger.Log(con.ctx, "temperature", err)
		con.Thermometer = nil
		return
	}
	con.Video.Stats.Temperature = t
	con.Chip.Borrow(func() {
		con.Chip.SetStatus(4, temperature.Encode(t))
	})
}

// push is called by the scanout with every completed frame
func (con *Console) push(f video.Frame) {
	if con.gui == nil {
		return
	}
	select {
	case con.gui.SetImage <- gui.Image{Main: f.Image, ID: fmt.Sprintf("%d", f.Number)}:
		con.limit.Nudge()
	default:
	}
}

// Spec returns the display specification the console is running with
func (con *Console) Spec() spec.Spec {
	return con.Video.Spec()
}
