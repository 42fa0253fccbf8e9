package chip

// register indexes with side effects
const (
	RegMode0       = 0
	RegMode1       = 1
	RegBackdrop    = 7
	RegStatusSel   = 15
	RegLineInt     = 19
	RegSpriteLimit = 30
	RegPalettePort = 47
	RegControl     = 50
	RegGPUHigh     = 54
	RegGPULow      = 55
	RegGPUControl  = 56
	RegUnlock      = 57
	RegConfigIdx   = 58
	RegConfigVal   = 59
	RegFlash       = 63
)

// bits in the registers
const (
	Mode0LineIE = 0x10
	Mode1IE     = 0x20

	PalettePortEnable = 0x80
	PalettePortInc    = 0x40
	PalettePortIndex  = 0x3f

	ControlReset        = 0x80
	ControlGPUScanline  = 0x40
	ControlGPUFrame     = 0x20
	ControlCRTScanlines = 0x04

	GPURun = 0x01

	FlashWrite    = 0x80
	FlashFirmware = 0x40
	FlashPage     = 0x3f

	unlockValue = 0x1c
)

// the register index masks for the locked and unlocked states
const (
	lockedMask   = 0x07
	unlockedMask = 0x3f
)

// Register returns the value of the register
func (c *Chip) Register(idx uint8) uint8 {
	return c.Registers[idx&unlockedMask]
}

// WriteRegister is the register write of the host protocol. The index is the
// low six bits of the second address byte. Until the extended registers are
// unlocked the index is limited to the eight original registers. The unlock
// register is always decoded
func (c *Chip) WriteRegister(raw uint8, v uint8) {
	raw &= unlockedMask
	if raw == RegUnlock {
		c.unlock(v)
		return
	}
	if c.Unlocked {
		c.SetRegister(raw, v)
	} else {
		c.SetRegister(raw&lockedMask, v)
	}
}

func (c *Chip) unlock(v uint8) {
	c.Registers[RegUnlock] = v
	if v == unlockValue {
		c.unlockCount++
		if c.unlockCount >= 2 {
			c.Unlocked = true
		}
	} else {
		c.unlockCount = 0
		c.Unlocked = false
	}
	c.rearm()
}

// Lock the extended registers
func (c *Chip) Lock() {
	c.unlockCount = 0
	c.Unlocked = false
}

// SetRegister stores the value in the register and applies any side effect
// of the write
func (c *Chip) SetRegister(idx uint8, v uint8) {
	idx &= unlockedMask

	switch idx {
	case RegPalettePort:
		c.paletteStage = 0

	case RegControl:
		if v&ControlReset == ControlReset {
			c.resetRegisters()
			v &^= ControlReset
			v |= c.Registers[RegControl] & ControlCRTScanlines
		}

	case RegGPULow:
		c.Registers[idx] = v
		c.ProgramCounter = uint16(c.Registers[RegGPUHigh])<<8 | uint16(v)
		c.CoprocRequested = true
		c.Resuming = false

	case RegGPUControl:
		c.CoprocRequested = v&GPURun == GPURun
		c.Resuming = false
		if !c.CoprocRequested && !c.FlashRequested {
			c.Status[2] &^= StatusBusy
		}

	case RegConfigVal:
		c.Config[c.Registers[RegConfigIdx]] = v
		c.ConfigDirty = true

	case RegFlash:
		if c.FlashRequested {
			c.FlashBusy = true
		} else {
			c.FlashControl = v
			c.FlashRequested = true
		}
		c.Registers[idx] = v
		c.SetStatusBits(2, StatusBusy)
		return
	}

	c.Registers[idx] = v
	c.rearm()
}
