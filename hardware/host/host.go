// Package host drives the bus in the way a host computer would. It provides
// the higher level operations that a host program builds from bus cycles and
// a Lua scripting environment that exposes them.
package host

import (
	"errors"
	"fmt"
	"os"

	"github.com/jetsetilly/test9918/hardware/bus"
	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/hardware/flash"
	"github.com/jetsetilly/test9918/logger"
)

var ScriptError = errors.New("script")

// Waiter lets the host wait for the background context to make progress
type Waiter interface {
	WaitLines(n int)
	WaitFrames(n int)
}

// StagingPage is the VRAM page used to stage flash blocks
const StagingPage = 0x3e

// the number of lines to wait for a flash job before giving up
const flashTimeout = 100000

// Host is a program that uses the bus
type Host struct {
	ctx  logger.Permission
	bus  *bus.Bus
	wait Waiter
}

// NewHost is the preferred method of initialisation for the Host type
func NewHost(ctx logger.Permission, b *bus.Bus, wait Waiter) *Host {
	return &Host{
		ctx:  ctx,
		bus:  b,
		wait: wait,
	}
}

func (h *Host) Bus() *bus.Bus {
	return h.bus
}

// flashJob stages the data and starts a flash job with the control bits. The
// function returns when the job has finished
func (h *Host) flashJob(data []uint8, ctrl uint8) (flash.Status, error) {
	h.bus.Unlock()
	h.bus.Write(StagingPage<<8, data)
	h.bus.SetRegister(chip.RegFlash, ctrl|StagingPage)

	h.bus.SetRegister(chip.RegStatusSel, 2)
	defer h.bus.SetRegister(chip.RegStatusSel, 0)

	for range flashTimeout {
		st := flash.Decode(h.bus.ReadStatus())
		if !st.Running {
			return st, nil
		}
		h.wait.WaitLines(1)
	}
	return flash.Status{}, fmt.Errorf("%w: flash job did not finish", ScriptError)
}

// FlashFirmware writes the UF2 file to the firmware area of the flash
func (h *Host) FlashFirmware(filename string) error {
	file, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("%w: %w", ScriptError, err)
	}
	blocks, err := flash.ParseUF2(file)
	if err != nil {
		return fmt.Errorf("%w: %w", ScriptError, err)
	}
	return h.FlashBlocks(blocks)
}

// FlashBlocks writes the UF2 blocks to the firmware area of the flash
func (h *Host) FlashBlocks(blocks []flash.Block) error {
	for _, blk := range blocks {
		st, err := h.flashJob(blk.Staged(), chip.FlashWrite|chip.FlashFirmware)
		if err != nil {
			return err
		}
		if st.Err != flash.ErrOK {
			return fmt.Errorf("%w: block %d of %d: %s", ScriptError, blk.BlockNo, blk.NumBlocks, st)
		}
	}
	logger.Logf(h.ctx, "host", "flashed %d firmware blocks", len(blocks))
	return nil
}

// Store the data in the program data area of the flash. The index of the
// block is returned
func (h *Host) Store(guid [flash.GUIDSize]uint8, name string, data []uint8) (uint32, error) {
	blk := flash.NewProgData(guid, name, data)
	st, err := h.flashJob(blk[:], chip.FlashWrite)
	if err != nil {
		return 0, err
	}
	if st.Err != flash.ErrOK {
		return 0, fmt.Errorf("%w: store: %s", ScriptError, st)
	}
	copy(blk[:], h.bus.Read(StagingPage<<8, 4))
	return blk.Hint(), nil
}

// Load the data for the GUID from the program data area of the flash
func (h *Host) Load(guid [flash.GUIDSize]uint8) (flash.ProgData, error) {
	blk := flash.NewProgData(guid, "", nil)
	st, err := h.flashJob(blk[:], 0)
	if err != nil {
		return blk, err
	}
	if st.Err != flash.ErrOK {
		return blk, fmt.Errorf("%w: load: %s", ScriptError, st)
	}
	copy(blk[:], h.bus.Read(StagingPage<<8, flash.ProgDataBlock))
	return blk, nil
}

// GUID converts a string to a GUID. The string is truncated or padded with
// zeroes
func GUID(s string) [flash.GUIDSize]uint8 {
	var g [flash.GUIDSize]uint8
	copy(g[:], s)
	return g
}
