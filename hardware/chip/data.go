package chip

// SetAddress sets the host address. Bit 14 of the address selects write
// mode. The address is wrapped to the host address space
func (c *Chip) SetAddress(addr uint16, write bool) {
	c.Address = addr & HostAddressMask
	c.WriteMode = write
	c.rearm()
}

// StoreData is the data write of the host protocol. The value is stored at
// the host address and the address is advanced. If the palette data port is
// enabled the value goes to palette RAM instead
func (c *Chip) StoreData(v uint8) {
	c.Stage = 0
	if c.Registers[RegPalettePort]&PalettePortEnable == PalettePortEnable {
		c.writePalettePort(v)
		c.rearm()
		return
	}
	c.VRAM[c.Address&HostAddressMask] = v
	c.Address = (c.Address + 1) & HostAddressMask
	c.rearm()
}

// LoadData is the data read of the host protocol. It returns the read-ahead
// value and advances the address
func (c *Chip) LoadData() uint8 {
	c.Stage = 0
	v := c.dataAhead
	c.Address = (c.Address + 1) & HostAddressMask
	c.rearm()
	return v
}

// Poke writes to VRAM without affecting the protocol state
func (c *Chip) Poke(addr uint16, v uint8) {
	c.VRAM[addr] = v
	if addr >= PaletteRAM && addr < PaletteRAMEnd {
		c.PaletteDirty = true
	}
	c.rearm()
}
