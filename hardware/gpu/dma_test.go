package gpu

import (
	"testing"

	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/test"
)

func TestTransferDecode(t *testing.T) {
	var vram [chip.VRAMSize]uint8
	copy(vram[chip.GuardWindow:], []uint8{0x12, 0x34, 0x56, 0x78, 3, 4, 5, 0x03, 0x00, 0x01})
	test.ExpectSuccess(t, pending(&vram))
	tr := readTransfer(&vram)
	test.ExpectEquality(t, tr, Transfer{
		Src: 0x1234, Dst: 0x5678, Width: 3, Height: 4, Stride: 5,
		Backwards: true, Fill: true,
	})
}

func TestFill(t *testing.T) {
	var vram [chip.VRAMSize]uint8
	vram[0x0100] = 0xee
	tr := Transfer{Src: 0x0100, Dst: 0x0200, Width: 2, Height: 3, Stride: 4, Fill: true}
	vram[dmaTrigger] = 1
	n := tr.perform(&vram)
	test.ExpectEquality(t, n, 6)
	test.ExpectEquality(t, pending(&vram), false)
	for _, a := range []uint16{0x200, 0x201, 0x204, 0x205, 0x208, 0x209} {
		test.ExpectEquality(t, vram[a], uint8(0xee), a)
	}
	for _, a := range []uint16{0x202, 0x203, 0x206, 0x20a} {
		test.ExpectEquality(t, vram[a], uint8(0x00), a)
	}
}

func TestBackwards(t *testing.T) {
	var vram [chip.VRAMSize]uint8
	for i := range 8 {
		vram[0x0300+i] = uint8(i)
	}

	// an overlapping move up by two bytes must be done backwards
	tr := Transfer{Src: 0x0307, Dst: 0x0309, Width: 8, Height: 1, Stride: 8, Backwards: true}
	tr.perform(&vram)
	for i := range 8 {
		test.ExpectEquality(t, vram[0x0302+i], uint8(i), i)
	}
}

func TestWrap(t *testing.T) {
	var vram [chip.VRAMSize]uint8
	vram[0xffff] = 0x11
	vram[0x0000] = 0x22
	tr := Transfer{Src: 0xffff, Dst: 0x1000, Width: 2, Height: 1, Stride: 2}
	tr.perform(&vram)
	test.ExpectEquality(t, vram[0x1000], uint8(0x11))
	test.ExpectEquality(t, vram[0x1001], uint8(0x22))
}
