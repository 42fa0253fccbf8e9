package flash

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// the wrapping error for UF2 validation and parsing errors
var UF2Error = errors.New("uf2")

// UF2 constants
const (
	MagicStart0 = 0x0a324655
	MagicStart1 = 0x9e5d5157
	MagicEnd    = 0x0ab16f30

	// the only flags value accepted. the family ID is present and no other
	// flags are set
	FlagsFamily = 0x00002000

	// the firmware window in the address space of the device
	FlashBase    = 0x10000000
	FirmwareSize = 0x40000

	Payload   = 256
	MaxBlocks = 0x400

	// size of a block in a UF2 file
	FileBlockSize = 512

	// size of a block when staged in VRAM. the unused part of the data field
	// is not staged
	StagedSize = 32 + Payload + 4
)

// Block is a single UF2 block
type Block struct {
	MagicStart0 uint32
	MagicStart1 uint32
	Flags       uint32
	TargetAddr  uint32
	PayloadSize uint32
	BlockNo     uint32
	NumBlocks   uint32
	FamilyID    uint32
	Data        [Payload]uint8
	MagicEnd    uint32
}

// offset of the data field and the trailing magic in a staged block
const (
	stagedData     = 32
	stagedMagicEnd = stagedData + Payload
)

// ParseStaged decodes a block in the staged layout. The slice must be at
// least StagedSize bytes
func ParseStaged(b []uint8) Block {
	le := binary.LittleEndian
	blk := Block{
		MagicStart0: le.Uint32(b[0:]),
		MagicStart1: le.Uint32(b[4:]),
		Flags:       le.Uint32(b[8:]),
		TargetAddr:  le.Uint32(b[12:]),
		PayloadSize: le.Uint32(b[16:]),
		BlockNo:     le.Uint32(b[20:]),
		NumBlocks:   le.Uint32(b[24:]),
		FamilyID:    le.Uint32(b[28:]),
		MagicEnd:    le.Uint32(b[stagedMagicEnd:]),
	}
	copy(blk.Data[:], b[stagedData:])
	return blk
}

// Staged encodes the block in the staged layout
func (blk Block) Staged() []uint8 {
	b := make([]uint8, StagedSize)
	blk.header(b)
	copy(b[stagedData:], blk.Data[:])
	binary.LittleEndian.PutUint32(b[stagedMagicEnd:], blk.MagicEnd)
	return b
}

// File encodes the block in the layout used by UF2 files
func (blk Block) File() []uint8 {
	b := make([]uint8, FileBlockSize)
	blk.header(b)
	copy(b[stagedData:], blk.Data[:])
	binary.LittleEndian.PutUint32(b[FileBlockSize-4:], blk.MagicEnd)
	return b
}

func (blk Block) header(b []uint8) {
	le := binary.LittleEndian
	le.PutUint32(b[0:], blk.MagicStart0)
	le.PutUint32(b[4:], blk.MagicStart1)
	le.PutUint32(b[8:], blk.Flags)
	le.PutUint32(b[12:], blk.TargetAddr)
	le.PutUint32(b[16:], blk.PayloadSize)
	le.PutUint32(b[20:], blk.BlockNo)
	le.PutUint32(b[24:], blk.NumBlocks)
	le.PutUint32(b[28:], blk.FamilyID)
}

// Validate checks every header field. The family ID must match the family
// of the device
func (blk Block) Validate(familyID uint32) error {
	switch {
	case blk.MagicStart0 != MagicStart0:
		return fmt.Errorf("%w: bad first magic number %#08x", UF2Error, blk.MagicStart0)
	case blk.MagicStart1 != MagicStart1:
		return fmt.Errorf("%w: bad second magic number %#08x", UF2Error, blk.MagicStart1)
	case blk.MagicEnd != MagicEnd:
		return fmt.Errorf("%w: bad final magic number %#08x", UF2Error, blk.MagicEnd)
	case blk.NumBlocks >= MaxBlocks:
		return fmt.Errorf("%w: too many blocks (%d)", UF2Error, blk.NumBlocks)
	case blk.Flags != FlagsFamily:
		return fmt.Errorf("%w: unsupported flags %#08x", UF2Error, blk.Flags)
	case blk.FamilyID != familyID:
		return fmt.Errorf("%w: wrong family %#08x", UF2Error, blk.FamilyID)
	case blk.TargetAddr < FlashBase || blk.TargetAddr >= FlashBase+FirmwareSize:
		return fmt.Errorf("%w: target address %#08x out of range", UF2Error, blk.TargetAddr)
	case blk.TargetAddr&0xff != 0:
		return fmt.Errorf("%w: target address %#08x is not aligned", UF2Error, blk.TargetAddr)
	case blk.PayloadSize != Payload:
		return fmt.Errorf("%w: payload size %d is not supported", UF2Error, blk.PayloadSize)
	}
	return nil
}

// EncodeUF2 splits the data into UF2 blocks for the target address. The
// final block is padded with 0xff
func EncodeUF2(data []uint8, target uint32, familyID uint32) []Block {
	n := (len(data) + Payload - 1) / Payload
	blocks := make([]Block, n)
	for i := range blocks {
		blk := &blocks[i]
		blk.MagicStart0 = MagicStart0
		blk.MagicStart1 = MagicStart1
		blk.Flags = FlagsFamily
		blk.TargetAddr = target + uint32(i*Payload)
		blk.PayloadSize = Payload
		blk.BlockNo = uint32(i)
		blk.NumBlocks = uint32(n)
		blk.FamilyID = familyID
		blk.MagicEnd = MagicEnd
		for j := range blk.Data {
			blk.Data[j] = 0xff
		}
		copy(blk.Data[:], data[i*Payload:])
	}
	return blocks
}

// ParseUF2 decodes a UF2 file. Blocks are not validated
func ParseUF2(file []uint8) ([]Block, error) {
	if len(file)%FileBlockSize != 0 {
		return nil, fmt.Errorf("%w: file length %d is not a multiple of %d", UF2Error, len(file), FileBlockSize)
	}
	blocks := make([]Block, 0, len(file)/FileBlockSize)
	for b := file; len(b) > 0; b = b[FileBlockSize:] {
		blk := ParseStaged(b)
		blk.MagicEnd = binary.LittleEndian.Uint32(b[FileBlockSize-4:])
		blocks = append(blocks, blk)
	}
	return blocks, nil
}
