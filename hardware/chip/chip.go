package chip

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jetsetilly/test9918/hardware/config"
	"github.com/jetsetilly/test9918/hardware/spec"
)

// Context allows the chip to discover the platform it is running on
type Context interface {
	Spec() spec.Spec
	Family() spec.Family
}

// Pin is notified whenever the interrupt line changes
type Pin interface {
	Interrupt(active bool)
}

// sizes of the memory areas
const (
	NumRegisters = 64
	NumStatus    = 16
	VRAMSize     = 0x10000

	// the host can only address the first 16k of VRAM
	HostAddressMask = 0x3fff
)

// memory map
const (
	GPURAM        = 0x4000
	GPURAMSize    = 0x1000
	GuardWindow   = 0x8000
	GuardSize     = 0x20
	PaletteRAM    = 0x8100
	PaletteRAMEnd = PaletteRAM + spec.PaletteEntries*2
)

// Chip is the register, status and memory state of the VDP. It is shared
// between the host bus and the background loop. Fields must only be changed
// from inside Borrow() and only through the methods that maintain the
// interrupt line and the read-ahead values
type Chip struct {
	ctx  Context
	crit sync.Mutex
	pin  Pin

	Registers [NumRegisters]uint8
	Status    [NumStatus]uint8
	VRAM      [VRAMSize]uint8

	// copy of the persisted configuration page
	Config config.Page

	// host address and protocol state
	Address   uint16
	WriteMode bool
	Latched   uint8
	Stage     int

	// palette data port state. the first byte written to the port is held
	// until the second byte completes the entry
	paletteStage int
	paletteHigh  uint8

	// unlock sequence progress. two consecutive writes of 0x1c to register 57
	// unlock the extended registers
	unlockCount int
	Unlocked    bool

	// edge triggered requests. each is cleared by the component that services
	// it
	PaletteDirty    bool
	ConfigDirty     bool
	CoprocRequested bool
	FlashRequested  bool

	// the flash control byte captured when the request was made and whether a
	// second request was made before the first was serviced
	FlashControl uint8
	FlashBusy    bool

	// start address of the GPU program
	ProgramCounter uint16

	// address to resume the GPU program from after a guard fault. a new
	// trigger from the host discards the resume address
	ResumeCounter uint16
	Resuming      bool

	// whether reading status 0 after a 5th sprite condition sets the sprite
	// index to the no sprite value
	FifthSpriteSentinel bool

	// values returned by the next read cycles. recalculated by rearm()
	dataAhead   uint8
	statusAhead uint8
	interrupt   bool
}

// Create a new chip instance. The chip is reset before being returned
func Create(ctx Context) *Chip {
	c := &Chip{
		ctx:                 ctx,
		FifthSpriteSentinel: true,
	}
	c.Config = config.Defaults(c.Platform())
	c.Reset()
	return c
}

// Platform returns the config platform for the chip's context
func (c *Chip) Platform() config.Platform {
	return config.Platform{Family: c.ctx.Family(), Spec: c.ctx.Spec()}
}

// AttachPin sets the interrupt pin. The pin is immediately notified of the
// current state of the interrupt line
func (c *Chip) AttachPin(pin Pin) {
	c.pin = pin
	if c.pin != nil {
		c.pin.Interrupt(c.interrupt)
	}
}

// Borrow runs the function inside the chip's critical section. Any changes to
// the chip must be made from inside the function
func (c *Chip) Borrow(f func()) {
	c.crit.Lock()
	defer c.crit.Unlock()
	f()
}

// Reset zeroes registers, status and VRAM and applies the current config
// page
func (c *Chip) Reset() {
	clear(c.Registers[:])
	clear(c.Status[:])
	clear(c.VRAM[:])

	c.Address = 0
	c.WriteMode = false
	c.Latched = 0
	c.Stage = 0
	c.paletteStage = 0
	c.paletteHigh = 0
	c.unlockCount = 0
	c.Unlocked = false

	c.CoprocRequested = false
	c.FlashRequested = false
	c.FlashBusy = false
	c.FlashControl = 0
	c.ProgramCounter = GPURAM
	c.ResumeCounter = 0
	c.Resuming = false

	c.Status[1] = statusIdentity
	c.Status[14] = config.FirmwareVersion

	for i := range spec.PaletteEntries {
		c.SetPaletteEntry(i, spec.DefaultPalette[i%len(spec.DefaultPalette)])
	}
	c.resetRegisters()

	c.rearm()
}

// resetRegisters sets the registers to their power on values
func (c *Chip) resetRegisters() {
	clear(c.Registers[:])
	c.Registers[30] = 4
	c.Config.Apply(c)
	c.PaletteDirty = true
}

func (c *Chip) Label() string {
	return "VDP"
}

// Summary is a single line description of the host protocol state
func (c *Chip) Summary() string {
	mode := "read"
	if c.WriteMode {
		mode = "write"
	}
	return fmt.Sprintf("%s: addr=%#04x %s stage=%d int=%v", c.Label(), c.Address, mode, c.Stage, c.interrupt)
}

func (c *Chip) String() string {
	var s strings.Builder
	s.WriteString(c.Summary())
	s.WriteString("\nregs:")
	n := 8
	if c.Unlocked {
		n = NumRegisters
	}
	for i := range n {
		if i%16 == 0 {
			s.WriteString(fmt.Sprintf("\n  %02d:", i))
		}
		s.WriteString(fmt.Sprintf(" %02x", c.Registers[i]))
	}
	s.WriteString("\nstatus:")
	for i := range NumStatus {
		s.WriteString(fmt.Sprintf(" %02x", c.Status[i]))
	}
	s.WriteString(fmt.Sprintf("\ngpu pc=%#04x requested=%v flash requested=%v",
		c.ProgramCounter, c.CoprocRequested, c.FlashRequested))
	return s.String()
}

// ApplyConfig applies the config page to the registers and palette
func (c *Chip) ApplyConfig() {
	c.Config.Apply(c)
	c.rearm()
}
