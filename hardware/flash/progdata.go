package flash

import (
	"bytes"
	"encoding/binary"
)

// program data is stored in the top half of flash as a grid of fixed size
// blocks. a stored block leads with its own index. a block that does not is
// free
const (
	ProgDataOffset = 0x100000
	ProgDataBlocks = 256
	ProgDataBlock  = 256

	GUIDSize = 16
	NameSize = 16
	DataSize = ProgDataBlock - 4 - GUIDSize - NameSize

	// a hint value that never matches a block
	NoHint = 0xffffffff
)

// layout of a program data block
const (
	pdHint = 0
	pdGUID = 4
	pdName = pdGUID + GUIDSize
	pdData = pdName + NameSize
)

// ProgData is a program data block in the layout used in VRAM and flash
type ProgData [ProgDataBlock]uint8

// NewProgData creates a block with the GUID, name and data. Name and data are
// truncated to fit
func NewProgData(guid [GUIDSize]uint8, name string, data []uint8) ProgData {
	var p ProgData
	binary.LittleEndian.PutUint32(p[pdHint:], NoHint)
	copy(p[pdGUID:], guid[:])
	copy(p[pdName:pdData], name)
	copy(p[pdData:], data)
	return p
}

// Hint is the index of the block in flash, if known
func (p *ProgData) Hint() uint32 {
	return binary.LittleEndian.Uint32(p[pdHint:])
}

func (p *ProgData) SetHint(idx uint32) {
	binary.LittleEndian.PutUint32(p[pdHint:], idx)
}

func (p *ProgData) GUID() []uint8 {
	return p[pdGUID:pdName]
}

func (p *ProgData) Name() string {
	return string(bytes.TrimRight(p[pdName:pdData], "\x00"))
}

func (p *ProgData) Data() []uint8 {
	return p[pdData:]
}

// slot returns the flash offset of the block index
func slot(idx uint32) int {
	return ProgDataOffset + int(idx)*ProgDataBlock
}

// lookup finds the block for the GUID. The hint is tried first. If the GUID
// is not found the first free block is returned with found set to false. If
// there is no free block the index is NoHint
func lookup(s Storage, hint uint32, guid []uint8) (idx uint32, found bool, err error) {
	var b ProgData

	if hint < ProgDataBlocks {
		if err := s.Read(slot(hint), b[:]); err != nil {
			return NoHint, false, err
		}
		if b.Hint() == hint && bytes.Equal(b.GUID(), guid) {
			return hint, true, nil
		}
	}

	free := uint32(NoHint)
	for i := range uint32(ProgDataBlocks) {
		if err := s.Read(slot(i), b[:]); err != nil {
			return NoHint, false, err
		}
		if b.Hint() == i {
			if bytes.Equal(b.GUID(), guid) {
				return i, true, nil
			}
		} else if free == NoHint {
			free = i
		}
	}

	return free, false, nil
}
