package bus

import (
	"fmt"

	"github.com/jetsetilly/test9918/hardware/chip"
)

// Mode is the state of the MODE pin during a bus cycle
type Mode bool

// List of valid Mode values
const (
	ModeData    Mode = false
	ModeControl Mode = true
)

func (m Mode) String() string {
	if m == ModeControl {
		return "control"
	}
	return "data"
}

// bits in the second byte of a control write
const (
	registerSelect = 0x80
	writeMode      = 0x40
)

// Bus answers host bus cycles. Every cycle holds the chip's critical section
// for the duration of the cycle only
type Bus struct {
	chip *chip.Chip

	// number of cycles of each type. used by the monitor
	Counts struct {
		Address int
		Data    int
		Status  int
		Read    int
	}
}

// Create a new bus for the chip
func Create(c *chip.Chip) *Bus {
	return &Bus{chip: c}
}

func (b *Bus) Label() string {
	return "BUS"
}

func (b *Bus) String() string {
	return fmt.Sprintf("%s: address=%d data=%d status=%d read=%d", b.Label(),
		b.Counts.Address, b.Counts.Data, b.Counts.Status, b.Counts.Read)
}

// Cycle performs a single bus cycle. The value returned for a write cycle is
// the value written
func (b *Bus) Cycle(mode Mode, write bool, data uint8) uint8 {
	if write {
		if mode == ModeControl {
			b.WriteAddress(data)
		} else {
			b.WriteData(data)
		}
		return data
	}
	if mode == ModeControl {
		return b.ReadStatus()
	}
	return b.ReadData()
}

// WriteAddress is a control write. The first byte is latched. The second byte
// completes either a register write or an address write
func (b *Bus) WriteAddress(v uint8) {
	b.chip.Borrow(func() {
		b.Counts.Address++
		c := b.chip

		if c.Stage == 0 {
			c.Latched = v
			c.Stage = 1
			return
		}
		c.Stage = 0

		if v&registerSelect == registerSelect {
			c.WriteRegister(v, c.Latched)
			return
		}

		c.SetAddress(uint16(v&0x3f)<<8|uint16(c.Latched), v&writeMode == writeMode)
	})
}

// WriteData is a data write. The value is written to VRAM at the current
// address and the address is advanced
func (b *Bus) WriteData(v uint8) {
	b.chip.Borrow(func() {
		b.Counts.Data++
		b.chip.StoreData(v)
	})
}

// ReadStatus is a control read. The currently selected status register is
// returned and the read side effects are applied
func (b *Bus) ReadStatus() uint8 {
	var v uint8
	b.chip.Borrow(func() {
		b.Counts.Status++
		v = b.chip.StatusAhead()
		b.chip.Stage = 0
		b.chip.ExposeStatus()
	})
	return v
}

// ReadData is a data read. The read-ahead value is returned and the address
// is advanced
func (b *Bus) ReadData() uint8 {
	var v uint8
	b.chip.Borrow(func() {
		b.Counts.Read++
		v = b.chip.LoadData()
	})
	return v
}

// Interrupt returns the state of the interrupt line
func (b *Bus) Interrupt() bool {
	var i bool
	b.chip.Borrow(func() {
		i = b.chip.InterruptLine()
	})
	return i
}
