package flash

import (
	"bytes"
	"fmt"

	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/hardware/spec"
	"github.com/jetsetilly/test9918/logger"
)

// retry limits
const (
	firmwareRetries  = 3
	progDataAttempts = 5
)

// Programmer performs the flash jobs requested through register 63. The job
// reads and writes a block staged in VRAM at the page in the register
type Programmer struct {
	ctx     logger.Permission
	chip    *chip.Chip
	storage Storage
	family  spec.Family

	// a firmware update is in progress. set by block zero and cleared by the
	// final block or by a failure
	updating bool

	// the status of the most recent job
	Status Status

	// counters for the monitor
	Jobs int
}

// Create a new programmer for the chip
func Create(ctx logger.Permission, c *chip.Chip, storage Storage, family spec.Family) *Programmer {
	return &Programmer{
		ctx:     ctx,
		chip:    c,
		storage: storage,
		family:  family,
	}
}

func (p *Programmer) Reset() {
	p.updating = false
	p.Status = Status{}
	p.Jobs = 0
}

func (p *Programmer) Label() string {
	return "FLASH"
}

func (p *Programmer) String() string {
	return fmt.Sprintf("%s: %s jobs=%d updating=%v", p.Label(), p.Status, p.Jobs, p.updating)
}

// Service performs the requested job, if any. It is called from the
// background loop between scanlines
func (p *Programmer) Service() {
	p.chip.Borrow(func() {
		if p.chip.FlashRequested {
			p.job()
		}
	})
}

// publish the status to status register two
func (p *Programmer) publish(st Status) {
	p.Status = st
	p.chip.SetStatus(2, st.Encode())
}

// job must be called from inside the critical section
func (p *Programmer) job() {
	c := p.chip
	ctrl := c.FlashControl
	c.FlashRequested = false
	p.Jobs++

	base := uint16(ctrl&chip.FlashPage) << 8
	write := ctrl&chip.FlashWrite == chip.FlashWrite

	st := Status{Running: true, Phase: PhaseValidating}
	p.publish(st)

	var err error
	if ctrl&chip.FlashFirmware == chip.FlashFirmware {
		st, err = p.firmware(base, write, st)
	} else {
		st, err = p.progData(base, write, st)
	}
	if err != nil {
		logger.Log(p.ctx, "flash", err)
		st.Err = ErrVerify
	}

	if c.FlashBusy {
		c.FlashBusy = false
		st.Err = ErrBusy
	}

	st.Running = false
	p.publish(st)
	c.Registers[chip.RegGPUControl] = 0

	// the staged block may be at the host address
	c.Rearm()
}

func (p *Programmer) firmware(base uint16, write bool, st Status) (Status, error) {
	c := p.chip
	blk := ParseStaged(c.VRAM[base:])

	if err := blk.Validate(p.family.UF2ID); err != nil {
		logger.Logf(p.ctx, "flash", "firmware block rejected: %v", err)
		st.Err = ErrHeader
		return st, nil
	}

	offset := int(blk.TargetAddr - FlashBase)

	if !write {
		err := p.storage.Read(offset, c.VRAM[int(base)+stagedData:int(base)+stagedMagicEnd])
		st.Err = ErrOK
		return st, err
	}

	if blk.BlockNo != 0 && !p.updating {
		st.Err = ErrSequence
		return st, nil
	}

	// every 4k sector of the update must be in the firmware window
	start := offset - int(blk.BlockNo)*Payload
	end := start + int(blk.NumBlocks)*Payload
	if blk.BlockNo >= blk.NumBlocks || start < 0 || (end-1)>>12 >= FirmwareSize/SectorSize {
		p.updating = false
		st.Err = ErrSize
		return st, nil
	}

	if blk.BlockNo == 0 {
		st.Phase = PhaseErasing
		p.publish(st)
		p.updating = true
		err := p.storage.Erase(0, ((Payload*int(blk.NumBlocks))+SectorSize-1)&^(SectorSize-1))
		if err != nil {
			p.updating = false
			return st, err
		}
	}

	st.Phase = PhaseWriting
	p.publish(st)

	verify := make([]uint8, Payload)
	for {
		err := p.storage.Program(offset, blk.Data[:])
		if err != nil {
			p.updating = false
			return st, err
		}
		err = p.storage.Read(offset, verify)
		if err != nil {
			p.updating = false
			return st, err
		}
		if bytes.Equal(verify, blk.Data[:]) {
			break
		}
		if st.Retry >= firmwareRetries {
			logger.Logf(p.ctx, "flash", "firmware block %d failed verify at %#06x", blk.BlockNo, offset)
			p.updating = false
			st.Err = ErrVerify
			return st, nil
		}
		st.Retry++
		p.publish(st)
	}

	if blk.BlockNo+1 == blk.NumBlocks {
		p.updating = false
		logger.Logf(p.ctx, "flash", "firmware update complete (%d blocks)", blk.NumBlocks)
	}

	st.Err = ErrOK
	return st, nil
}

func (p *Programmer) progData(base uint16, write bool, st Status) (Status, error) {
	c := p.chip

	var staged ProgData
	copy(staged[:], c.VRAM[base:])

	idx, found, err := lookup(p.storage, staged.Hint(), staged.GUID())
	if err != nil {
		return st, err
	}

	if idx == NoHint {
		st.Err = ErrFull
		return st, nil
	}

	staged.SetHint(idx)
	copy(c.VRAM[base:base+4], staged[:4])

	if !write {
		if found {
			if err := p.storage.Read(slot(idx)+pdGUID, c.VRAM[int(base)+pdGUID:int(base)+ProgDataBlock]); err != nil {
				return st, err
			}
		}
		st.Err = ErrOK
		return st, nil
	}

	// the erase granularity is larger than a block so the whole sector is
	// read and written back with the new block merged in
	st.Phase = PhaseErasing
	p.publish(st)

	offset := slot(idx)
	sectorOffset := offset &^ (SectorSize - 1)
	pageOffset := offset - sectorOffset

	sector := make([]uint8, SectorSize)
	if err := p.storage.Read(sectorOffset, sector); err != nil {
		return st, err
	}
	copy(sector[pageOffset:], staged[:])

	if err := p.storage.Erase(sectorOffset, SectorSize); err != nil {
		return st, err
	}

	st.Phase = PhaseWriting
	p.publish(st)

	verify := make([]uint8, ProgDataBlock)
	for attempt := range progDataAttempts {
		st.Retry = attempt
		if attempt > 0 {
			p.publish(st)
		}
		if err := p.storage.Program(sectorOffset, sector); err != nil {
			return st, err
		}
		if err := p.storage.Read(offset, verify); err != nil {
			return st, err
		}
		if bytes.Equal(verify, staged[:]) {
			st.Err = ErrOK
			return st, nil
		}
	}

	logger.Logf(p.ctx, "flash", "program data block %d failed verify", idx)
	st.Err = ErrVerify
	return st, nil
}
