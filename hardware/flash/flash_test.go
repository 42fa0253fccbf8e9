package flash_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/hardware/flash"
	"github.com/jetsetilly/test9918/hardware/spec"
	"github.com/jetsetilly/test9918/logger"
	"github.com/jetsetilly/test9918/test"
)

type ctx struct{}

func (ctx) Spec() spec.Spec     { return spec.VGA }
func (ctx) Family() spec.Family { return spec.RP2040 }

// page in VRAM used for staging
const page = 0x10

func create(storage flash.Storage) (*chip.Chip, *flash.Programmer) {
	c := chip.Create(ctx{})
	return c, flash.Create(logger.Allow, c, storage, spec.RP2040)
}

// stage the data and request a job with the control bits
func request(c *chip.Chip, data []uint8, ctrl uint8) {
	c.Borrow(func() {
		copy(c.VRAM[page<<8:], data)
		c.SetRegister(chip.RegFlash, ctrl|page)
	})
}

func staged(c *chip.Chip, n int) []uint8 {
	return c.VRAM[page<<8 : (page<<8)+n]
}

func pattern(n int) []uint8 {
	d := make([]uint8, n)
	for i := range d {
		d[i] = uint8(i*7 + 3)
	}
	return d
}

func TestStatusEncoding(t *testing.T) {
	for _, st := range []flash.Status{
		{},
		{Running: true, Phase: flash.PhaseValidating},
		{Running: true, Retry: 2, Phase: flash.PhaseWriting},
		{Err: flash.ErrHeader},
		{Err: flash.ErrSequence, Retry: 1},
		{Err: flash.ErrSize, Phase: flash.PhaseErasing},
		{Err: flash.ErrVerify, Retry: 3, Phase: flash.PhaseWriting},
		{Err: flash.ErrBusy},
	} {
		test.ExpectEquality(t, flash.Decode(st.Encode()), st)
	}

	test.ExpectEquality(t, flash.Status{Running: true, Retry: 1, Err: flash.ErrVerify, Phase: flash.PhaseWriting}.Encode(), uint8(0xb3))

	// full shares the sequence code
	full := flash.Status{Err: flash.ErrFull}
	test.ExpectEquality(t, full.Encode(), uint8(0x08))
	test.ExpectEquality(t, flash.Decode(full.Encode()).Err, flash.ErrSequence)
}

func TestStorage(t *testing.T) {
	fl := flash.NewFlash(logger.Allow)

	// programming only clears bits
	test.ExpectSuccess(t, fl.Program(0x100, []uint8{0x0f, 0xf0}))
	test.ExpectSuccess(t, fl.Program(0x100, []uint8{0x3c, 0x3c}))
	b := make([]uint8, 2)
	test.ExpectSuccess(t, fl.Read(0x100, b))
	test.ExpectEquality(t, b[0], uint8(0x0c))
	test.ExpectEquality(t, b[1], uint8(0x30))

	test.ExpectSuccess(t, fl.Erase(0, flash.SectorSize))
	test.ExpectSuccess(t, fl.Read(0x100, b))
	test.ExpectEquality(t, b[0], uint8(0xff))

	// alignment and bounds
	test.ExpectFailure(t, fl.Erase(0x100, flash.SectorSize))
	test.ExpectFailure(t, fl.Program(0x10, b))
	test.ExpectFailure(t, fl.Read(flash.Size-1, b))
}

func TestSaveRestore(t *testing.T) {
	t.Chdir(t.TempDir())

	fl := flash.NewFlash(logger.Allow)
	test.ExpectSuccess(t, fl.Program(0x1000, []uint8{1, 2, 3}))
	fl.Save()
	test.ExpectSuccess(t, fl.IsSaved())

	_, err := os.Stat(".test9918/flash")
	test.DemandSuccess(t, err)

	rs := flash.NewFlash(logger.Allow)
	rs.Restore()
	test.ExpectSuccess(t, rs.IsSaved())
	test.ExpectEquality(t, rs.Data[0x1001], uint8(2))
	test.ExpectEquality(t, rs.Data[0x1003], uint8(0xff))
}

func TestFirmwareRoundTrip(t *testing.T) {
	fl := flash.NewFlash(logger.Allow)
	c, p := create(fl)

	data := pattern(600)
	blocks := flash.EncodeUF2(data, flash.FlashBase, spec.RP2040.UF2ID)
	test.DemandEquality(t, len(blocks), 3)

	for _, blk := range blocks {
		request(c, blk.Staged(), chip.FlashWrite|chip.FlashFirmware)
		p.Service()
		test.ExpectEquality(t, p.Status.Err, flash.ErrOK)
		test.ExpectEquality(t, p.Status.Phase, flash.PhaseWriting)
	}

	test.ExpectSuccess(t, bytes.Equal(fl.Data[:600], data))
	test.ExpectEquality(t, fl.Data[600], uint8(0xff))
	test.ExpectEquality(t, fl.Erases, 1)

	// job finished
	st := flash.Decode(c.Status[2])
	test.ExpectEquality(t, st.Running, false)
	test.ExpectEquality(t, st.Err, flash.ErrOK)
	test.ExpectEquality(t, c.Registers[chip.RegGPUControl], uint8(0))
	test.ExpectEquality(t, c.FlashRequested, false)

	// read the second block back into a block with an empty payload
	rd := blocks[1]
	rd.Data = [flash.Payload]uint8{}
	request(c, rd.Staged(), chip.FlashFirmware)
	p.Service()
	test.ExpectEquality(t, p.Status.Err, flash.ErrOK)
	test.ExpectSuccess(t, bytes.Equal(staged(c, flash.StagedSize)[32:32+flash.Payload], blocks[1].Data[:]))
}

func TestUF2File(t *testing.T) {
	blocks := flash.EncodeUF2(pattern(300), flash.FlashBase+0x1000, spec.RP2350.UF2ID)

	var file []uint8
	for _, blk := range blocks {
		file = append(file, blk.File()...)
	}
	test.ExpectEquality(t, len(file), 2*flash.FileBlockSize)

	parsed, err := flash.ParseUF2(file)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(parsed), 2)
	for i := range parsed {
		test.ExpectEquality(t, parsed[i], blocks[i])
		test.ExpectSuccess(t, parsed[i].Validate(spec.RP2350.UF2ID))
		test.ExpectFailure(t, parsed[i].Validate(spec.RP2040.UF2ID))
	}

	_, err = flash.ParseUF2(file[:100])
	test.ExpectFailure(t, err)
}

func TestHeaderRejection(t *testing.T) {
	blk := flash.EncodeUF2(pattern(256), flash.FlashBase, spec.RP2040.UF2ID)[0]

	alter := []func(b []uint8){
		func(b []uint8) { b[0] ^= 0x01 },
		func(b []uint8) { b[4] ^= 0x80 },
		func(b []uint8) { b[8] = 0x01 },
		func(b []uint8) { b[12] = 0x80 },
		func(b []uint8) { b[15] = 0x20 },
		func(b []uint8) { b[17] = 0x02 },
		func(b []uint8) { b[25] = 0x04 },
		func(b []uint8) { b[28] ^= 0x01 },
		func(b []uint8) { b[288] ^= 0x01 },
	}

	for i, f := range alter {
		fl := flash.NewFlash(logger.Allow)
		before := bytes.Clone(fl.Data)
		c, p := create(fl)

		b := blk.Staged()
		f(b)
		request(c, b, chip.FlashWrite|chip.FlashFirmware)
		p.Service()

		test.ExpectEquality(t, p.Status.Err, flash.ErrHeader, i)
		test.ExpectEquality(t, flash.Decode(c.Status[2]).Err, flash.ErrHeader, i)
		test.ExpectSuccess(t, bytes.Equal(fl.Data, before), i)
		test.ExpectEquality(t, fl.Erases+fl.Programs, 0, i)
	}
}

func TestSequence(t *testing.T) {
	fl := flash.NewFlash(logger.Allow)
	c, p := create(fl)

	blocks := flash.EncodeUF2(pattern(1024), flash.FlashBase, spec.RP2040.UF2ID)
	request(c, blocks[2].Staged(), chip.FlashWrite|chip.FlashFirmware)
	p.Service()
	test.ExpectEquality(t, p.Status.Err, flash.ErrSequence)
	test.ExpectEquality(t, fl.Erases+fl.Programs, 0)
}

func TestSize(t *testing.T) {
	fl := flash.NewFlash(logger.Allow)
	c, p := create(fl)

	// the second block would be beyond the firmware window
	blocks := flash.EncodeUF2(pattern(512), flash.FlashBase+flash.FirmwareSize-flash.Payload, spec.RP2040.UF2ID)
	request(c, blocks[0].Staged(), chip.FlashWrite|chip.FlashFirmware)
	p.Service()
	test.ExpectEquality(t, p.Status.Err, flash.ErrSize)
	test.ExpectEquality(t, fl.Erases+fl.Programs, 0)
}

func TestBusy(t *testing.T) {
	fl := flash.NewFlash(logger.Allow)
	c, p := create(fl)

	blk := flash.EncodeUF2(pattern(256), flash.FlashBase, spec.RP2040.UF2ID)[0]
	request(c, blk.Staged(), chip.FlashWrite|chip.FlashFirmware)
	request(c, blk.Staged(), chip.FlashFirmware)
	test.ExpectEquality(t, c.FlashBusy, true)

	// the first job runs with its own control byte and reports busy
	p.Service()
	test.ExpectEquality(t, p.Status.Err, flash.ErrBusy)
	test.ExpectEquality(t, c.FlashBusy, false)
	test.ExpectEquality(t, c.FlashRequested, false)
	test.ExpectSuccess(t, bytes.Equal(fl.Data[:256], blk.Data[:]))
	test.ExpectEquality(t, p.Jobs, 1)
}

func TestProgDataRoundTrip(t *testing.T) {
	fl := flash.NewFlash(logger.Allow)
	c, p := create(fl)

	guid := [flash.GUIDSize]uint8{0xde, 0xad, 0xbe, 0xef}
	blk := flash.NewProgData(guid, "high scores", pattern(flash.DataSize))
	request(c, blk[:], chip.FlashWrite)
	p.Service()
	test.ExpectEquality(t, p.Status.Err, flash.ErrOK)

	// index reported back to the host and stored in flash
	var st flash.ProgData
	copy(st[:], staged(c, flash.ProgDataBlock))
	test.ExpectEquality(t, st.Hint(), uint32(0))
	test.ExpectEquality(t, fl.Data[flash.ProgDataOffset], uint8(0))
	test.ExpectEquality(t, fl.Data[flash.ProgDataOffset+1], uint8(0))

	// read into a clean block with no hint
	c.Borrow(func() {
		clear(c.VRAM[:])
	})
	rd := flash.NewProgData(guid, "", nil)
	request(c, rd[:], 0)
	p.Service()
	test.ExpectEquality(t, p.Status.Err, flash.ErrOK)

	copy(st[:], staged(c, flash.ProgDataBlock))
	test.ExpectEquality(t, st.Hint(), uint32(0))
	test.ExpectEquality(t, st.Name(), "high scores")
	test.ExpectSuccess(t, bytes.Equal(st.Data(), pattern(flash.DataSize)))

	// a second GUID goes in the next free block
	other := flash.NewProgData([flash.GUIDSize]uint8{0x01}, "options", []uint8{1, 2, 3})
	request(c, other[:], chip.FlashWrite)
	p.Service()
	copy(st[:], staged(c, flash.ProgDataBlock))
	test.ExpectEquality(t, st.Hint(), uint32(1))

	// the first block survived the read-modify-write of the shared sector
	test.ExpectEquality(t, fl.Data[flash.ProgDataOffset+40], pattern(flash.DataSize)[4])
}

func TestProgDataUnknown(t *testing.T) {
	fl := flash.NewFlash(logger.Allow)
	c, p := create(fl)
	before := bytes.Clone(fl.Data)

	rd := flash.NewProgData([flash.GUIDSize]uint8{0x77}, "", nil)
	request(c, rd[:], 0)
	p.Service()
	test.ExpectEquality(t, p.Status.Err, flash.ErrOK)

	var st flash.ProgData
	copy(st[:], staged(c, flash.ProgDataBlock))
	test.ExpectEquality(t, st.Hint(), uint32(0))
	test.ExpectEquality(t, st.Name(), "")
	test.ExpectSuccess(t, bytes.Equal(fl.Data, before))
}

func TestProgDataHint(t *testing.T) {
	fl := flash.NewFlash(logger.Allow)
	c, p := create(fl)

	a := flash.NewProgData([flash.GUIDSize]uint8{0xaa}, "a", []uint8{0xaa})
	b := flash.NewProgData([flash.GUIDSize]uint8{0xbb}, "b", []uint8{0xbb})
	request(c, a[:], chip.FlashWrite)
	p.Service()
	request(c, b[:], chip.FlashWrite)
	p.Service()

	// a hint to the wrong block is not trusted
	rd := flash.NewProgData([flash.GUIDSize]uint8{0xbb}, "", nil)
	rd.SetHint(0)
	request(c, rd[:], 0)
	p.Service()

	var st flash.ProgData
	copy(st[:], staged(c, flash.ProgDataBlock))
	test.ExpectEquality(t, st.Hint(), uint32(1))
	test.ExpectEquality(t, st.Name(), "b")
	test.ExpectEquality(t, st.Data()[0], uint8(0xbb))
}

func TestProgDataFull(t *testing.T) {
	fl := flash.NewFlash(logger.Allow)
	c, p := create(fl)

	for i := range flash.ProgDataBlocks {
		blk := flash.NewProgData([flash.GUIDSize]uint8{uint8(i), 0x55}, "", nil)
		blk.SetHint(uint32(i))
		copy(fl.Data[flash.ProgDataOffset+i*flash.ProgDataBlock:], blk[:])
	}
	before := bytes.Clone(fl.Data)

	blk := flash.NewProgData([flash.GUIDSize]uint8{0x00, 0x66}, "new", nil)
	request(c, blk[:], chip.FlashWrite)
	p.Service()
	test.ExpectEquality(t, p.Status.Err, flash.ErrFull)
	test.ExpectEquality(t, flash.Decode(c.Status[2]).Err.Code(), flash.ErrFull.Code())
	test.ExpectSuccess(t, bytes.Equal(fl.Data, before))

	// existing blocks can still be found
	rd := flash.NewProgData([flash.GUIDSize]uint8{0xc8, 0x55}, "", nil)
	request(c, rd[:], 0)
	p.Service()
	test.ExpectEquality(t, p.Status.Err, flash.ErrOK)
	var st flash.ProgData
	copy(st[:], staged(c, flash.ProgDataBlock))
	test.ExpectEquality(t, st.Hint(), uint32(0xc8))
}

// stuck storage ignores all programming
type stuck struct {
	*flash.Flash
}

func (stuck) Program(offset int, data []byte) error {
	return nil
}

func TestProgDataVerify(t *testing.T) {
	fl := flash.NewFlash(logger.Allow)
	c, p := create(stuck{fl})

	blk := flash.NewProgData([flash.GUIDSize]uint8{0x12}, "x", []uint8{0x01})
	request(c, blk[:], chip.FlashWrite)
	p.Service()
	test.ExpectEquality(t, p.Status.Err, flash.ErrVerify)
	test.ExpectEquality(t, p.Status.Retry, 4)
	test.ExpectEquality(t, flash.Decode(c.Status[2]).Err, flash.ErrVerify)
}
