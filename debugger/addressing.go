package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/test9918/hardware/chip"
)

// area of the chip that an address refers to
type area int

const (
	areaVRAM area = iota
	areaRegister
	areaStatus
)

func (a area) Label() string {
	switch a {
	case areaRegister:
		return "register"
	case areaStatus:
		return "status"
	}
	return "vram"
}

type mappedAddress struct {
	area    area
	address uint16
}

func (ma mappedAddress) String() string {
	switch ma.area {
	case areaRegister:
		return fmt.Sprintf("R%d", ma.address)
	case areaStatus:
		return fmt.Sprintf("S%d", ma.address)
	}
	return fmt.Sprintf("$%04x", ma.address)
}

// parseAddress accepts a VRAM address, a register in the form R<n> or a
// status register in the form S<n>. VRAM addresses can be prefixed with $
func (m *debugger) parseAddress(address string) (mappedAddress, error) {
	var ma mappedAddress

	s := strings.ToUpper(address)
	limit := uint64(chip.VRAMSize - 1)
	base := 0

	switch {
	case strings.HasPrefix(s, "R"):
		ma.area = areaRegister
		s = s[1:]
		limit = chip.NumRegisters - 1
		base = 10
	case strings.HasPrefix(s, "S"):
		ma.area = areaStatus
		s = s[1:]
		limit = chip.NumStatus - 1
		base = 10
	case strings.HasPrefix(s, "$"):
		s = fmt.Sprintf("0x%s", s[1:])
	}

	addr, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return ma, fmt.Errorf("address is not valid: %s", address)
	}
	if addr > limit {
		return ma, fmt.Errorf("address is out of range: %s", address)
	}
	ma.address = uint16(addr)

	return ma, nil
}

// peek returns the value at the address without any side effects
func (m *debugger) peek(ma mappedAddress) uint8 {
	var v uint8
	c := m.console.Chip
	c.Borrow(func() {
		switch ma.area {
		case areaRegister:
			v = c.Registers[ma.address]
		case areaStatus:
			v = c.Status[ma.address]
		default:
			v = c.VRAM[ma.address]
		}
	})
	return v
}

// poke changes the value at the address. registers are changed with the
// side effects of a host write
func (m *debugger) poke(ma mappedAddress, v uint8) {
	c := m.console.Chip
	c.Borrow(func() {
		switch ma.area {
		case areaRegister:
			c.SetRegister(uint8(ma.address), v)
		case areaStatus:
			c.SetStatus(int(ma.address), v)
		default:
			c.Poke(ma.address, v)
		}
	})
}
