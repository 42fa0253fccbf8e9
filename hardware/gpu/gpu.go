package gpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/hardware/gpu/faults"
)

// RunOutcome is the result of a single run of the GPU program
type RunOutcome int

// List of valid RunOutcome values
const (
	// the program stopped itself. the program counter is kept for the next
	// trigger
	Halted RunOutcome = iota

	// the program accessed the guard window. the run will be retried from
	// the resume address at the next opportunity
	Faulted

	// the GPU did not run
	Refused
)

func (o RunOutcome) String() string {
	switch o {
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	case Refused:
		return "refused"
	}
	return "unknown"
}

// GPU runs the coprocessor program against VRAM. The guard window is armed
// for the duration of each run
type GPU struct {
	chip   *chip.Chip
	interp Interpreter

	// the guard window is armed at the start of a run and disarmed by the
	// first access to it
	armed bool

	// the program counter of the current run
	pc uint16

	// the most recent outcome
	Outcome RunOutcome

	Faults faults.Faults

	// counters for the monitor
	Runs      int
	Transfers int
}

// Create a new GPU for the chip. A nil interpreter is replaced with Idle
func Create(c *chip.Chip, interp Interpreter) *GPU {
	if interp == nil {
		interp = Idle{}
	}
	return &GPU{
		chip:   c,
		interp: interp,
		Faults: faults.NewFaults(),
	}
}

// SetInterpreter changes the interpreter used for future runs
func (g *GPU) SetInterpreter(interp Interpreter) {
	g.chip.Borrow(func() {
		if interp == nil {
			interp = Idle{}
		}
		g.interp = interp
	})
}

// Reset copies the preload program to GPU RAM. The chip must have been reset
// beforehand
func (g *GPU) Reset() {
	g.chip.Borrow(func() {
		copy(g.chip.VRAM[chip.GPURAM:], preload)
		copy(g.chip.VRAM[chip.GPURAM+0x800:], preload)
		g.chip.ProgramCounter = chip.GPURAM
	})
	g.armed = false
	g.Outcome = Halted
	g.Runs = 0
	g.Transfers = 0
	g.Faults.Clear()
}

func (g *GPU) Label() string {
	return "GPU"
}

func (g *GPU) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("%s: pc=%#04x outcome=%s runs=%d transfers=%d", g.Label(),
		g.chip.ProgramCounter, g.Outcome, g.Runs, g.Transfers))
	if g.chip.Resuming {
		s.WriteString(fmt.Sprintf(" resume=%#04x", g.chip.ResumeCounter))
	}
	if len(g.Faults.Log) > 0 {
		s.WriteString("\n")
		g.Faults.WriteLog(&s)
	}
	return strings.TrimSuffix(s.String(), "\n")
}

// Trigger requests a run at the next opportunity. The caller must be inside
// the chip's critical section
func (g *GPU) Trigger() {
	g.chip.CoprocRequested = true
}

// Service runs the GPU if a run has been requested. It is called once per
// scanline so that a program that faults is retried at most once per
// scanline
func (g *GPU) Service() {
	g.chip.Borrow(func() {
		if g.chip.CoprocRequested {
			g.Outcome = g.run()
		}
	})
}

// run the program once. must be called from inside the critical section
func (g *GPU) run() RunOutcome {
	c := g.chip

	g.pc = c.ProgramCounter
	if c.Resuming {
		g.pc = c.ResumeCounter
	}

	// odd addresses are refused. the request is dropped
	if g.pc&0x01 == 0x01 {
		g.Faults.NewEntry("odd program counter", faults.MisalignedStart, g.pc, g.pc)
		g.stop()
		return Refused
	}

	c.Registers[chip.RegGPUControl] = chip.GPURun
	c.SetStatusBits(2, chip.StatusBusy)

	g.Runs++
	g.armed = true
	next, err := g.interp.Run(memory{gpu: g}, g.pc)
	g.armed = false

	if pending(&c.VRAM) {
		t := readTransfer(&c.VRAM)
		t.perform(&c.VRAM)
		g.Transfers++
		c.PaletteDirty = true
	}

	// the program may have changed the byte at the host address
	c.Rearm()

	if errors.Is(err, Fault) {
		c.ResumeCounter = next
		c.Resuming = true
		return Faulted
	}

	if err != nil {
		g.Faults.NewEntry(err.Error(), faults.ProgramError, g.pc, next)
	}

	c.ProgramCounter = next
	g.stop()
	return Halted
}

// stop the GPU and clear the request. the busy bit remains set if there is a
// flash job waiting
func (g *GPU) stop() {
	c := g.chip
	c.Resuming = false
	c.CoprocRequested = false
	c.Registers[chip.RegGPUControl] = 0
	if !c.FlashRequested {
		c.ClearStatusBits(2, chip.StatusBusy)
	}
}

// memory is the sandboxed view of VRAM
type memory struct {
	gpu *GPU
}

func (m memory) guard(addr uint16, event string) error {
	g := m.gpu
	if !g.armed || addr < chip.GuardWindow || addr >= chip.GuardWindow+chip.GuardSize {
		return nil
	}
	g.armed = false
	g.chip.Registers[chip.RegGPUControl] = 0
	g.Faults.NewEntry(event, faults.GuardWindow, g.pc, addr)
	return fmt.Errorf("%w: %s %#04x", Fault, event, addr)
}

func (m memory) Read(addr uint16) (uint8, error) {
	v := m.gpu.chip.VRAM[addr]
	return v, m.guard(addr, "read")
}

func (m memory) Write(addr uint16, v uint8) error {
	m.gpu.chip.VRAM[addr] = v
	if addr >= chip.PaletteRAM && addr < chip.PaletteRAMEnd {
		m.gpu.chip.PaletteDirty = true
	}
	return m.guard(addr, "write")
}
