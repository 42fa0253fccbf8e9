// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package flash

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/jetsetilly/test9918/logger"
	"github.com/jetsetilly/test9918/resources"
)

// the wrapping error for errors returned by Storage implementations
var StorageError = errors.New("flash storage")

const flashPath = "flash"

const (
	Size       = 0x200000
	SectorSize = 0x1000
	PageSize   = 0x100
)

// Storage is persistent memory that can only be erased in sectors. Programming
// can only clear bits
type Storage interface {
	Read(offset int, p []byte) error
	Erase(offset int, size int) error
	Program(offset int, data []byte) error
}

// Flash is the emulated 2MB flash of the device
type Flash struct {
	ctx logger.Permission

	// current data
	Data []uint8

	// the data as it is on disk
	Disk []uint8

	// counters for the monitor
	Erases   int
	Programs int
}

// NewFlash is the preferred method of initialisation for the Flash type. The
// flash is erased and is not restored from disk
func NewFlash(ctx logger.Permission) *Flash {
	fl := &Flash{
		ctx:  ctx,
		Data: make([]uint8, Size),
		Disk: make([]uint8, Size),
	}
	for i := range fl.Data {
		fl.Data[i] = 0xff
	}
	return fl
}

func (fl *Flash) bounds(offset int, n int) error {
	if offset < 0 || n < 0 || offset+n > len(fl.Data) {
		return fmt.Errorf("%w: %#06x+%#x is out of range", StorageError, offset, n)
	}
	return nil
}

func (fl *Flash) Read(offset int, p []byte) error {
	if err := fl.bounds(offset, len(p)); err != nil {
		return err
	}
	copy(p, fl.Data[offset:])
	return nil
}

// Erase sets all bits in the sectors. The offset and size must be sector
// aligned
func (fl *Flash) Erase(offset int, size int) error {
	if offset%SectorSize != 0 || size%SectorSize != 0 {
		return fmt.Errorf("%w: erase of %#06x+%#x is not sector aligned", StorageError, offset, size)
	}
	if err := fl.bounds(offset, size); err != nil {
		return err
	}
	for i := range size {
		fl.Data[offset+i] = 0xff
	}
	fl.Erases++
	return nil
}

// Program clears bits in the flash. A bit that is already clear cannot be set
// by programming
func (fl *Flash) Program(offset int, data []byte) error {
	if offset%PageSize != 0 {
		return fmt.Errorf("%w: program of %#06x is not page aligned", StorageError, offset)
	}
	if err := fl.bounds(offset, len(data)); err != nil {
		return err
	}
	for i, v := range data {
		fl.Data[offset+i] &= v
	}
	fl.Programs++
	return nil
}

// IsSaved returns true if disk data is the same as data
func (fl *Flash) IsSaved() bool {
	return slices.Equal(fl.Data, fl.Disk)
}

// Restore loads the flash image from disk
func (fl *Flash) Restore() {
	d, msg := restore()
	logger.Log(fl.ctx, "flash", msg)
	if len(d) == 0 {
		return
	}
	copy(fl.Data, d)
	copy(fl.Disk, d)
}

// Save writes the flash image to disk if it has changed
func (fl *Flash) Save() {
	if fl.IsSaved() {
		return
	}
	msg := save(fl.Data)
	logger.Log(fl.ctx, "flash", msg)
	copy(fl.Disk, fl.Data)
}

// save returns a string that should be used as a log message
func save(data []uint8) string {
	fn, err := resources.JoinPath(flashPath)
	if err != nil {
		return fmt.Sprintf("could not write flash file: %v", err)
	}

	f, err := os.Create(fn)
	if err != nil {
		return fmt.Sprintf("could not write flash file: %v", err)
	}

	n, err := f.Write(data)
	if err != nil {
		f.Close()
		return fmt.Sprintf("could not write flash file: %v", err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Sprintf("could not close flash file: %v", err)
	}

	if n != len(data) {
		return fmt.Sprintf("flash file has not been truncated during write. %d should be %d", n, len(data))
	}

	return fmt.Sprintf("flash file saved to %s", fn)
}

// restore returns a string that should be used as a log message
func restore() ([]uint8, string) {
	fn, err := resources.JoinPath(flashPath)
	if err != nil {
		return nil, fmt.Sprintf("could not load flash file: %v", err)
	}

	// get file info. not using Stat() on the file handle because the
	// windows version (when running under wine) does not handle that
	fs, err := os.Stat(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "no flash file. starting with erased flash"
		}
		return nil, fmt.Sprintf("could not load flash file: %v", err)
	}

	if fs.Size() != Size {
		return nil, fmt.Sprintf("flash file is of incorrect length. %d should be %d", fs.Size(), Size)
	}

	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, fmt.Sprintf("could not load flash file: %v", err)
	}

	return data, fmt.Sprintf("flash file loaded from %s", fn)
}
