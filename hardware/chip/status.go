package chip

// bits in the status registers
const (
	Status0INT       = 0x80
	Status0Fifth     = 0x40
	Status0Collision = 0x20
	Status0Sprite    = 0x1f

	// the sprite index after a fifth sprite status has been read
	NoSprite = 0x1f

	statusIdentity   = 0xe0
	Status1Blanking  = 0x02
	Status1LineInt   = 0x01
	StatusBusy       = 0x80
	StatusConfigByte = 12
)

// SetStatus sets the value of the status register
func (c *Chip) SetStatus(idx int, v uint8) {
	c.Status[idx&0x0f] = v
	c.rearm()
}

// SetStatusBits sets the bits in mask of the status register
func (c *Chip) SetStatusBits(idx int, mask uint8) {
	c.Status[idx&0x0f] |= mask
	c.rearm()
}

// ClearStatusBits clears the bits in mask of the status register
func (c *Chip) ClearStatusBits(idx int, mask uint8) {
	c.Status[idx&0x0f] &^= mask
	c.rearm()
}

// SelectedStatus is the status register the next status read will return
func (c *Chip) SelectedStatus() int {
	return int(c.Registers[RegStatusSel] & 0x0f)
}

// ExposeStatus applies the side effects of the host reading the selected
// status register. The value read by the host must have been taken with
// StatusAhead() before calling this function
func (c *Chip) ExposeStatus() {
	switch c.SelectedStatus() {
	case 0:
		s := c.Status[0]
		s &^= Status0INT | Status0Fifth | Status0Collision
		if c.FifthSpriteSentinel && c.Status[0]&Status0Fifth == Status0Fifth {
			s |= NoSprite
		}
		c.Status[0] = s
	case 1:
		c.Status[1] &^= Status1LineInt
	}
	c.rearm()
}

// InterruptLine is the state of the interrupt output. The line is active when
// the frame interrupt is pending and enabled or when the line interrupt is
// pending and enabled
func (c *Chip) InterruptLine() bool {
	return c.interrupt
}

// DataAhead is the value the next data read will return
func (c *Chip) DataAhead() uint8 {
	return c.dataAhead
}

// StatusAhead is the value the next status read will return
func (c *Chip) StatusAhead() uint8 {
	return c.statusAhead
}

func (c *Chip) interruptLine() bool {
	frame := c.Status[0]&Status0INT == Status0INT && c.Registers[RegMode1]&Mode1IE == Mode1IE
	line := c.Status[1]&Status1LineInt == Status1LineInt && c.Registers[RegMode0]&Mode0LineIE == Mode0LineIE
	return frame || line
}

// rearm recalculates the interrupt line and the values for the next read
// cycles. it must be called after every change that could alter them. it is
// the only place the interrupt line is changed
func (c *Chip) rearm() {
	c.Status[StatusConfigByte] = c.Config[c.Registers[RegConfigIdx]]
	c.dataAhead = c.VRAM[c.Address&HostAddressMask]
	c.statusAhead = c.Status[c.SelectedStatus()]

	i := c.interruptLine()
	if i != c.interrupt {
		c.interrupt = i
		if c.pin != nil {
			c.pin.Interrupt(i)
		}
	}
}

// Rearm recalculates the read-ahead values and the interrupt line. It must be
// called after VRAM has been changed directly
func (c *Chip) Rearm() {
	c.rearm()
}

// SpriteStatus records the sprite evaluation of a scanline in status 0. The
// fifth sprite flag and sprite index are left alone once the flag is set and
// until status 0 is read
func (c *Chip) SpriteStatus(fifth bool, index uint8, collision bool) {
	s := c.Status[0]
	if s&Status0Fifth == 0 {
		s = (s &^ Status0Sprite) | index&Status0Sprite
		if fifth {
			s |= Status0Fifth
		}
	}
	if collision {
		s |= Status0Collision
	}
	if s != c.Status[0] {
		c.Status[0] = s
		c.rearm()
	}
}
