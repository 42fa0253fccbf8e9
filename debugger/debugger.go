package debugger

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/jetsetilly/test9918/gui"
	"github.com/jetsetilly/test9918/hardware"
	"github.com/jetsetilly/test9918/hardware/config"
	"github.com/jetsetilly/test9918/hardware/gpu/faults"
	"github.com/jetsetilly/test9918/hardware/spec"
	"github.com/jetsetilly/test9918/logger"
	"github.com/jetsetilly/test9918/statsview"
	"github.com/jetsetilly/test9918/version"
	"golang.org/x/term"
)

type input struct {
	s   string
	err error
}

type debugger struct {
	ctx context

	guiQuit chan bool
	sig     chan os.Signal
	input   chan input

	// the GUI channels. can be nil
	gui *gui.GUI

	console *hardware.Console
	watches map[mappedAddress]watch

	// lines to break on. the key is the physical line number
	breakpoints map[int]bool

	// the number of GPU fault log entries already reported
	faultsSeen int

	// rule for stepping. by default (the field is nil) the step will move
	// forward one physical line
	stepRule func() bool
	postStep func()

	// the file to load on console reset. can be a UF2 file, a Lua script or
	// a VRAM image
	loader string

	// commands received from the GUI while the emulation was running
	pending [][]string

	// printing styles
	styles styles

	// whether stdin is a terminal. the prompt is only printed for terminals
	interactive bool
}

func (m *debugger) reset() {
	m.ctx.Reset()
	m.console.Insert()
	m.faultsSeen = 0
	fmt.Println(m.styles.debugger.Render("console reset"))

	if m.loader != "" {
		err := m.bootFromFile(m.loader)
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("%s: %s", filepath.Base(m.loader), err.Error()),
			))
			// forget about loader because we now know it doesn't work
			m.loader = ""
		}
	}

	fmt.Println(m.styles.vdp.Render(
		m.console.Chip.Summary(),
	))
}

// the GUI is told about changes in the emulation state. a state that has
// not been consumed is replaced
func (m *debugger) setState(s gui.State) {
	if m.gui == nil {
		return
	}
	select {
	case <-m.gui.State:
	default:
	}
	select {
	case m.gui.State <- s:
	default:
	}
}

func (m *debugger) contextBreaks() error {
	if len(m.ctx.breaks) == 0 {
		return nil
	}

	// breaks have been processed and so are now cleared
	err := errors.Join(m.ctx.breaks...)
	m.ctx.breaks = m.ctx.breaks[:0]
	return err
}

// gpuFaults returns an error for any new GPU fault that is not a guard window
// fault. guard faults are part of the normal operation of the GPU
func (m *debugger) gpuFaults() error {
	log := m.console.GPU.Faults.Log
	if len(log) < m.faultsSeen {
		m.faultsSeen = 0
	}
	var err error
	for _, e := range log[m.faultsSeen:] {
		if e.Category != faults.GuardWindow {
			err = errors.Join(err, errors.New(strings.TrimSpace(e.String())))
		}
	}
	m.faultsSeen = len(log)
	return err
}

// userInput handles the input from the GUI. returns true if the running
// emulation should end
func (m *debugger) userInput(inp gui.Input) bool {
	switch inp.Action {
	case gui.Pause:
		return true
	case gui.Reset:
		m.reset()
	case gui.ToggleCRT:
		m.toggleConfig(config.CRTScanlines)
	case gui.ToggleOverlay:
		m.toggleConfig(config.DiagRegisters, config.DiagPerformance)
	case gui.Screenshot:
		if s, ok := inp.Data.(string); ok {
			fmt.Println(m.styles.debugger.Render(
				fmt.Sprintf("screenshot saved to %s", s),
			))
		}
	}
	return false
}

// toggleConfig flips the config page bytes. the first index decides the new
// value for all of them
func (m *debugger) toggleConfig(idx ...int) {
	c := m.console.Chip
	c.Borrow(func() {
		v := uint8(0)
		if c.Config[idx[0]] == 0 {
			v = 1
		}
		for _, i := range idx {
			c.Config[i] = v
		}
		c.ConfigDirty = true
	})
}

// step advances the emulation by one physical line or according to the
// current step rule. the step rule will be reset after the step has completed
//
// returns true if quit signal has been received
func (m *debugger) step() bool {
	// the number of lines stepped over
	var ct int

	// loop until the step rule returns true
	var done bool
	for !done {
		select {
		case <-m.sig:
			done = true
			continue // for loop
		case <-m.guiQuit:
			return true
		default:
		}

		m.console.Step()

		if err := m.gpuFaults(); err != nil {
			fmt.Println(m.styles.gpuErr.Render(err.Error()))
			done = true
		}

		if err := m.contextBreaks(); err != nil {
			fmt.Println(m.styles.breakpoint.Render(err.Error()))
			done = true
		}

		// apply step rule
		if m.stepRule == nil {
			done = true
		} else if !done {
			done = m.stepRule()
		}

		ct++
	}

	// report how many lines were stepped if it is more than one
	if ct > 1 {
		fmt.Println(m.styles.debugger.Render(
			fmt.Sprintf("%d lines stepped", ct),
		))
	}

	if m.postStep == nil {
		// by default we print the general status of the emulation
		fmt.Println(m.styles.video.Render(
			m.console.Video.String(),
		))
		fmt.Println(m.styles.vdp.Render(
			m.console.Chip.Summary(),
		))
	} else {
		m.postStep()
	}

	m.stepRule = nil
	m.postStep = nil

	return false
}

// returns true if quit signal has been received
func (m *debugger) run() bool {
	fmt.Println(m.styles.debugger.Render("emulation running"))

	// we measure the number of frames in the time period of the running
	// emulation
	startFrame := m.console.Video.Frame
	startTime := time.Now()

	// sentinel errors returned by the hook
	var (
		gpuErr        = errors.New("gpu")
		breakpointErr = errors.New("breakpoint")
		watchErr      = errors.New("watch")
		contextErr    = errors.New("context")
		endRunErr     = errors.New("end run")
		quitErr       = errors.New("quit")
	)

	var userInput <-chan gui.Input
	var commands <-chan []string
	if m.gui != nil {
		userInput = m.gui.UserInput
		commands = m.gui.Commands
	}

	// hook is called after every line
	hook := func() error {
		select {
		case <-m.sig:
			return endRunErr
		case <-m.guiQuit:
			return quitErr
		case inp := <-userInput:
			if m.userInput(inp) {
				return endRunErr
			}
		case cmd := <-commands:
			m.pending = append(m.pending, cmd)
			return endRunErr
		default:
		}

		if err := m.gpuFaults(); err != nil {
			return fmt.Errorf("%w: %w", gpuErr, err)
		}

		if err := m.contextBreaks(); err != nil {
			return fmt.Errorf("%w: %w", contextErr, err)
		}

		if _, ok := m.breakpoints[m.console.Video.Line]; ok {
			return fmt.Errorf("%w: line %d", breakpointErr, m.console.Video.Line)
		}

		if w := m.checkWatches(); w != nil {
			return fmt.Errorf("%w: %s = %02x -> %02x", watchErr, w.ma, w.prev, w.data)
		}

		return nil
	}

	m.setState(gui.StateRunning)
	err := m.console.Run(nil, hook)
	m.setState(gui.StatePaused)

	if errors.Is(err, quitErr) {
		return true
	}

	switch {
	case errors.Is(err, endRunErr):
		frames := m.console.Video.Frame - startFrame
		secs := time.Since(startTime).Seconds()
		fmt.Println(m.styles.debugger.Render(
			fmt.Sprintf("%d frames in %.02f seconds (%.02f fps)", frames, secs, float64(frames)/secs),
		))
	case errors.Is(err, gpuErr):
		fmt.Println(m.styles.gpuErr.Render(err.Error()))
	case errors.Is(err, breakpointErr):
		fmt.Println(m.styles.breakpoint.Render(err.Error()))
	case errors.Is(err, watchErr):
		fmt.Println(m.styles.watch.Render(err.Error()))
	case err != nil:
		fmt.Println(m.styles.err.Render(err.Error()))
	}

	// it's useful to see the state of the video at the end of the run
	fmt.Println(m.styles.video.Render(m.console.Video.String()))

	return false
}

func (m *debugger) prompt() string {
	return fmt.Sprintf("%d:%03d", m.console.Video.Frame, m.console.Video.Line)
}

func (m *debugger) loop() {
	var userInput <-chan gui.Input
	var commands <-chan []string
	if m.gui != nil {
		userInput = m.gui.UserInput
		commands = m.gui.Commands
	}

	for {
		// commands that arrived from the GUI during the last run are
		// processed before any new input
		if len(m.pending) > 0 {
			cmd := m.pending[0]
			m.pending = m.pending[1:]
			if m.commands(cmd) {
				return
			}
			continue // for loop
		}

		if m.interactive {
			fmt.Printf("%s> ", m.prompt())
		}

		var cmd []string

		select {
		case input := <-m.input:
			if input.err != nil {
				if !errors.Is(input.err, io.EOF) {
					fmt.Println(m.styles.err.Render(input.err.Error()))
				}
				return
			}
			cmd = strings.Fields(input.s)
			if len(cmd) == 0 {
				cmd = []string{"STEP"}
			}
		case inp := <-userInput:
			if m.interactive {
				fmt.Print("\n")
			}
			switch inp.Action {
			case gui.Pause:
				cmd = []string{"RUN"}
			case gui.StepFrame:
				cmd = []string{"STEP", "FRAME"}
			default:
				m.userInput(inp)
				continue // for loop
			}
		case cmd = <-commands:
			if m.interactive {
				fmt.Print("\n")
			}
		case <-m.sig:
			fmt.Print("\r")
			return
		case <-m.guiQuit:
			fmt.Print("\n")
			return
		}

		if m.commands(cmd) {
			return
		}
	}
}

func Launch(guiQuit chan bool, g *gui.GUI, args []string) error {
	var specID string
	var familyID string
	var crt bool
	var script string
	var profile bool
	var stats bool
	var echo bool
	var limit bool

	flgs := flag.NewFlagSet(version.ApplicationName, flag.ExitOnError)
	flgs.StringVar(&specID, "spec", "VGA", "display specification: VGA, NTSC or PAL")
	flgs.StringVar(&familyID, "family", "RP2040", "microcontroller family of the device: RP2040 or RP2350")
	flgs.BoolVar(&crt, "crt", false, "enable CRT scanlines")
	flgs.StringVar(&script, "script", "", "Lua host script to run after reset")
	flgs.BoolVar(&profile, "profile", false, "create CPU profile for emulator")
	flgs.BoolVar(&stats, "statsview", false, "launch runtime statistics server")
	flgs.BoolVar(&echo, "echo", false, "echo log entries to stdout")
	flgs.BoolVar(&limit, "limit", true, "run at the speed of the display")
	err := flgs.Parse(args)
	if err != nil {
		return err
	}
	args = flgs.Args()

	var bootfile string
	if len(args) == 1 {
		bootfile = args[0]
	} else if len(args) > 1 {
		return fmt.Errorf("too many arguments to debugger")
	}

	spc, err := spec.Lookup(specID)
	if err != nil {
		return err
	}
	family, err := spec.LookupFamily(familyID)
	if err != nil {
		return err
	}

	if echo {
		logger.SetEcho(os.Stdout)
	}

	if stats {
		statsview.Launch(os.Stdout)
	}

	m := &debugger{
		ctx: context{
			spec:    spc,
			family:  family,
			limiter: limit,
		},
		guiQuit:     guiQuit,
		gui:         g,
		sig:         make(chan os.Signal, 1),
		input:       make(chan input, 1),
		loader:      bootfile,
		styles:      newStyles(),
		watches:     make(map[mappedAddress]watch),
		breakpoints: make(map[int]bool),
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
	m.console = hardware.Create(&m.ctx, g)

	signal.Notify(m.sig, syscall.SIGINT)

	go func() {
		r := bufio.NewReader(os.Stdin)
		for {
			s, err := r.ReadString('\n')
			s = strings.TrimSpace(s)
			if err == nil || len(s) > 0 {
				m.input <- input{s: s}
			}
			if err != nil {
				m.input <- input{err: err}
				return
			}
		}
	}()

	fmt.Println(m.styles.debugger.Render(version.Banner()))
	fmt.Println(m.styles.video.Render(spc.String()))

	m.reset()

	if crt {
		m.toggleConfig(config.CRTScanlines)
	}

	if profile {
		f, err := os.Create("cpu.profile")
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		defer func() {
			err := f.Close()
			if err != nil {
				logger.Log(logger.Allow, "performance", err)
			}
		}()

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	if script != "" {
		err := m.runScript(script)
		if err != nil {
			fmt.Println(m.styles.err.Render(err.Error()))
		}
	}

	m.loop()

	m.console.Flash.Save()

	return nil
}
