package chip

// SetPaletteEntry sets the palette RAM entry to the 12bit 0x0RGB value
func (c *Chip) SetPaletteEntry(idx int, rgb uint16) {
	a := PaletteRAM + (idx&PalettePortIndex)*2
	c.VRAM[a] = uint8(rgb>>8) & 0x0f
	c.VRAM[a+1] = uint8(rgb)
	c.PaletteDirty = true
}

// PaletteEntry returns the palette RAM entry as a 12bit 0x0RGB value
func (c *Chip) PaletteEntry(idx int) uint16 {
	a := PaletteRAM + (idx&PalettePortIndex)*2
	return uint16(c.VRAM[a]&0x0f)<<8 | uint16(c.VRAM[a+1])
}

// a palette entry is written through the data port in two bytes. the first
// byte holds the red nibble and the second byte holds green and blue. the
// index advances after the second byte if auto increment is set. without
// auto increment the port closes after one entry
func (c *Chip) writePalettePort(v uint8) {
	if c.paletteStage == 0 {
		c.paletteHigh = v
		c.paletteStage = 1
		return
	}
	c.paletteStage = 0

	r := c.Registers[RegPalettePort]
	idx := int(r & PalettePortIndex)
	c.SetPaletteEntry(idx, uint16(c.paletteHigh)<<8|uint16(v))

	if r&PalettePortInc == PalettePortInc {
		c.Registers[RegPalettePort] = (r &^ PalettePortIndex) | uint8((idx+1)&PalettePortIndex)
	} else {
		c.Registers[RegPalettePort] = 0
	}
}
