package tms

import (
	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/hardware/spec"
)

const (
	// number of entries in the sprite attribute table
	numSprites = 32

	// a vertical position of this value ends the sprite attribute table
	lastSprite = 0xd0

	// the early clock bit in the sprite colour shifts the sprite 32 pixels
	// to the left
	earlyClock = 0x80
)

// evaluateSprites draws the sprites of the line into the sprite buffer and
// records the sprite status
func (t *TMS) evaluateSprites(y int) {
	r := &t.chip.Registers
	clear(t.sprites[:])
	clear(t.drawn[:])

	sat := int(r[5]&0x7f) << 7
	pat := int(r[6]&0x07) << 11

	size := 8
	if r[chip.RegMode1]&r1Size == r1Size {
		size = 16
	}
	mag := 1
	if r[chip.RegMode1]&r1Magnif == r1Magnif {
		mag = 2
	}

	limit := int(r[chip.RegSpriteLimit])
	if limit < 1 || limit > numSprites {
		limit = numSprites
	}

	var count int
	var fifth, collision bool
	var index int

	for index = 0; index < numSprites; index++ {
		a := sat + index*4
		sy := int(t.vram(a))
		if sy == lastSprite {
			break
		}

		// positions at the bottom of the range are partially above the screen
		top := sy + 1
		if top > 0xe0 {
			top -= 0x100
		}
		row := y - top
		if row < 0 || row >= size*mag {
			continue
		}

		if count >= limit {
			fifth = true
			break
		}
		count++

		sx := int(t.vram(a + 1))
		name := int(t.vram(a + 2))
		colour := t.vram(a + 3)
		if colour&earlyClock == earlyClock {
			sx -= 32
		}
		if size == 16 {
			name &= 0xfc
		}

		row /= mag
		for col := range size {
			// 16 pixel sprites are four patterns arranged in two columns
			p := pat + name*8 + row
			if col >= 8 {
				p += 16
			}
			b := t.vram(p)
			if b&(0x80>>(col&7)) == 0 {
				continue
			}
			for m := range mag {
				x := sx + col*mag + m
				if x < 0 || x >= spec.TMSWidth {
					continue
				}
				if t.drawn[x] {
					collision = true
				}
				t.drawn[x] = true

				// a higher priority sprite of colour zero is transparent
				if t.sprites[x] == 0 {
					t.sprites[x] = colour & 0x0f
				}
			}
		}
	}

	if index >= numSprites {
		index = numSprites - 1
	}
	t.chip.SpriteStatus(fifth, uint8(index), collision)
}
