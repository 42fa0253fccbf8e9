package bus_test

import (
	"math/rand/v2"
	"testing"

	"github.com/jetsetilly/test9918/hardware/bus"
	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/hardware/spec"
	"github.com/jetsetilly/test9918/test"
)

type ctx struct{}

func (ctx) Spec() spec.Spec     { return spec.VGA }
func (ctx) Family() spec.Family { return spec.RP2040 }

func create() (*chip.Chip, *bus.Bus) {
	c := chip.Create(ctx{})
	return c, bus.Create(c)
}

// the interrupt line must agree with the status and enable bits after every
// operation
func expectInterrupt(t *testing.T, c *chip.Chip, tags ...any) {
	t.Helper()
	frame := c.Status[0]&0x80 == 0x80 && c.Registers[1]&0x20 == 0x20
	line := c.Status[1]&0x01 == 0x01 && c.Registers[0]&0x10 == 0x10
	test.ExpectEquality(t, c.InterruptLine(), frame || line, tags...)
}

func TestTwoByteProtocol(t *testing.T) {
	c, b := create()

	for a := range 256 {
		for _, hi := range []uint8{0x00, 0x15, 0x3f, 0x40, 0x7f} {
			b.WriteAddress(uint8(a))
			test.ExpectEquality(t, c.Stage, 1)
			b.WriteAddress(hi)
			test.ExpectEquality(t, c.Stage, 0)
			test.ExpectEquality(t, c.Address, uint16(hi&0x3f)<<8|uint16(a))
			test.ExpectEquality(t, c.WriteMode, hi&0x40 == 0x40)
		}
	}

	b.Unlock()
	test.ExpectEquality(t, c.Unlocked, true)
	for reg := range 64 {
		if reg == 57 || reg == 50 || reg == 63 {
			continue
		}
		v := uint8(0x5a ^ reg)
		b.WriteAddress(v)
		b.WriteAddress(0x80 | uint8(reg))
		test.ExpectEquality(t, c.Stage, 0)
		test.ExpectEquality(t, c.Registers[reg], v, reg)
		expectInterrupt(t, c, reg)
	}
}

func TestReadAhead(t *testing.T) {
	c, b := create()
	rnd := rand.New(rand.NewPCG(9918, 1))

	// fill host VRAM with known values
	data := make([]uint8, 0x4000)
	for i := range data {
		data[i] = uint8(rnd.IntN(256))
	}
	b.Write(0, data)
	test.ExpectEquality(t, c.Address, uint16(0))

	for range 1000 {
		switch rnd.IntN(3) {
		case 0:
			b.SetAddress(uint16(rnd.IntN(0x4000)), rnd.IntN(2) == 0)
		case 1:
			a := c.Address
			v := uint8(rnd.IntN(256))
			b.WriteData(v)
			data[a] = v
			test.ExpectEquality(t, c.Address, (a+1)&0x3fff)
		case 2:
			a := c.Address
			v := b.ReadData()
			test.ExpectEquality(t, v, data[a], a)
			test.ExpectEquality(t, c.Address, (a+1)&0x3fff)
		}
		test.ExpectEquality(t, c.DataAhead(), data[c.Address])
		expectInterrupt(t, c)
	}
}

func TestAddressWrap(t *testing.T) {
	c, b := create()
	b.SetAddress(0x3fff, true)
	b.WriteData(0x11)
	test.ExpectEquality(t, c.Address, uint16(0))
	test.ExpectEquality(t, c.VRAM[0x3fff], uint8(0x11))

	b.SetAddress(0x3fff, false)
	test.ExpectEquality(t, b.ReadData(), uint8(0x11))
	test.ExpectEquality(t, c.Address, uint16(0))
}

func TestReadModePrefetch(t *testing.T) {
	c, b := create()
	c.Borrow(func() {
		c.Poke(0x1234, 0xab)
	})

	// setting a read address does not move the address
	b.SetAddress(0x1234, false)
	test.ExpectEquality(t, c.Address, uint16(0x1234))
	test.ExpectEquality(t, c.DataAhead(), uint8(0xab))
	test.ExpectEquality(t, b.ReadData(), uint8(0xab))
}

func TestStatusRead(t *testing.T) {
	c, b := create()

	// enable the frame interrupt
	b.SetRegister(1, 0x20)
	c.Borrow(func() {
		c.SetStatusBits(0, 0x80|0x20)
	})
	test.ExpectEquality(t, b.Interrupt(), true)
	expectInterrupt(t, c)

	// a status read resets the control latch
	b.WriteAddress(0x55)
	test.ExpectEquality(t, c.Stage, 1)
	test.ExpectEquality(t, b.ReadStatus(), uint8(0xa0))
	test.ExpectEquality(t, c.Stage, 0)
	test.ExpectEquality(t, b.Interrupt(), false)
	expectInterrupt(t, c)

	// next read sees the cleared value
	test.ExpectEquality(t, b.ReadStatus(), uint8(0x00))

	// extended status
	b.Unlock()
	b.SetRegister(15, 1)
	test.ExpectEquality(t, b.ReadStatus(), uint8(0xe0))
	b.SetRegister(15, 14)
	test.ExpectEquality(t, b.ReadStatus(), c.Status[14])
}

func TestCycle(t *testing.T) {
	c, b := create()
	b.Cycle(bus.ModeControl, true, 0x00)
	b.Cycle(bus.ModeControl, true, 0x40)
	b.Cycle(bus.ModeData, true, 0x42)
	test.ExpectEquality(t, c.VRAM[0], uint8(0x42))

	b.Cycle(bus.ModeControl, true, 0x00)
	b.Cycle(bus.ModeControl, true, 0x00)
	test.ExpectEquality(t, b.Cycle(bus.ModeData, false, 0), uint8(0x42))
	test.ExpectEquality(t, b.Cycle(bus.ModeControl, false, 0), uint8(0x00))
	test.ExpectEquality(t, b.Counts.Address, 4)
	test.ExpectEquality(t, b.Counts.Data, 1)
	test.ExpectEquality(t, b.Counts.Read, 1)
	test.ExpectEquality(t, b.Counts.Status, 1)
}

func TestMalformed(t *testing.T) {
	c, b := create()

	// data before any address write goes to the current address
	b.WriteData(0x77)
	test.ExpectEquality(t, c.VRAM[0], uint8(0x77))

	// a data write between two control bytes resets the latch. the next
	// control byte is the first of a new pair
	b.WriteAddress(0x34)
	b.WriteData(0x01)
	test.ExpectEquality(t, c.Stage, 0)
	b.WriteAddress(0x00)
	test.ExpectEquality(t, c.Stage, 1)
	b.WriteAddress(0x50)
	test.ExpectEquality(t, c.Address, uint16(0x1000))
}
