package gpu

import "github.com/jetsetilly/test9918/hardware/chip"

// layout of the transfer parameter block in the guard window
const (
	dmaSrc     = chip.GuardWindow + 0x00
	dmaDst     = chip.GuardWindow + 0x02
	dmaWidth   = chip.GuardWindow + 0x04
	dmaHeight  = chip.GuardWindow + 0x05
	dmaStride  = chip.GuardWindow + 0x06
	dmaParams  = chip.GuardWindow + 0x07
	dmaTrigger = chip.GuardWindow + 0x08

	dmaBackwards   = 0x02
	dmaFixedSource = 0x01
)

// Transfer is the decoded parameter block
type Transfer struct {
	Src       uint16
	Dst       uint16
	Width     int
	Height    int
	Stride    int
	Backwards bool
	Fill      bool
}

func readTransfer(vram *[chip.VRAMSize]uint8) Transfer {
	p := vram[dmaParams]
	return Transfer{
		Src:       uint16(vram[dmaSrc])<<8 | uint16(vram[dmaSrc+1]),
		Dst:       uint16(vram[dmaDst])<<8 | uint16(vram[dmaDst+1]),
		Width:     int(vram[dmaWidth]),
		Height:    int(vram[dmaHeight]),
		Stride:    int(vram[dmaStride]),
		Backwards: p&dmaBackwards == dmaBackwards,
		Fill:      p&dmaFixedSource == dmaFixedSource,
	}
}

// pending returns true if the program has requested a transfer
func pending(vram *[chip.VRAMSize]uint8) bool {
	return vram[dmaTrigger] != 0 || vram[dmaTrigger+1] != 0
}

// perform the transfer. the trigger word is cleared before the copy
// starts. addresses wrap within VRAM. returns the number of bytes written
func (t Transfer) perform(vram *[chip.VRAMSize]uint8) int {
	vram[dmaTrigger] = 0
	vram[dmaTrigger+1] = 0

	dstInc := 1
	if t.Backwards {
		dstInc = -1
	}
	srcInc := dstInc
	if t.Fill {
		srcInc = 0
	}

	src := int(t.Src)
	dst := int(t.Dst)
	var n int
	for range t.Height {
		for range t.Width {
			vram[uint16(dst)] = vram[uint16(src)]
			src += srcInc
			dst += dstInc
			n++
		}
		src += (t.Stride - t.Width) * srcInc
		dst += (t.Stride - t.Width) * dstInc
	}
	return n
}
