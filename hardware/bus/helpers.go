package bus

// SetRegister writes the register with the two byte control sequence
func (b *Bus) SetRegister(reg uint8, v uint8) {
	b.WriteAddress(v)
	b.WriteAddress(registerSelect | reg)
}

// SetAddress sets the address with the two byte control sequence. Write mode
// is selected if write is true
func (b *Bus) SetAddress(addr uint16, write bool) {
	hi := uint8(addr>>8) & 0x3f
	if write {
		hi |= writeMode
	}
	b.WriteAddress(uint8(addr))
	b.WriteAddress(hi)
}

// Write the data to VRAM starting at the address
func (b *Bus) Write(addr uint16, data []uint8) {
	b.SetAddress(addr, true)
	for _, v := range data {
		b.WriteData(v)
	}
}

// Read n bytes from VRAM starting at the address
func (b *Bus) Read(addr uint16, n int) []uint8 {
	b.SetAddress(addr, false)
	d := make([]uint8, n)
	for i := range d {
		d[i] = b.ReadData()
	}
	return d
}

// Unlock the extended registers
func (b *Bus) Unlock() {
	b.SetRegister(57, 0x1c)
	b.SetRegister(57, 0x1c)
}
