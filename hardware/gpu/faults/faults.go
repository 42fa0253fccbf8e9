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

package faults

import (
	"fmt"
	"io"
)

// Category classifies the reason the GPU stopped unexpectedly
type Category string

// List of valid Category values
const (
	GuardWindow      Category = "guard window"
	MisalignedStart  Category = "misaligned start"
	ProgramError     Category = "program error"
	TransferOverflow Category = "transfer overflow"
)

// Entry is a single entry in the fault log
type Entry struct {
	Category Category

	// description of the event that triggered the fault
	Event string

	// the program counter at the start of the run and the address that was
	// being accessed
	ProgramCounter uint16
	AccessAddr     uint16

	// number of times this specific fault has been seen
	Count int
}

func (e Entry) String() string {
	return fmt.Sprintf("%s: %s: %04x (PC: %04x) x%d\n", e.Category, e.Event, e.AccessAddr, e.ProgramCounter, e.Count)
}

// Faults records the faults raised by GPU programs
type Faults struct {
	// entries are keyed by the category, program counter and access address
	entries map[string]*Entry

	// all the faults in order of the first time they appear. the Count field
	// can be used to see how often that fault has been seen
	Log []*Entry
}

func NewFaults() Faults {
	return Faults{
		entries: make(map[string]*Entry),
	}
}

// Clear all entries from faults log
func (flt *Faults) Clear() {
	clear(flt.entries)
	flt.Log = flt.Log[:0]
}

// WriteLog writes the list of faults in the order they were added
func (flt Faults) WriteLog(w io.Writer) {
	for _, e := range flt.Log {
		io.WriteString(w, e.String())
	}
}

// NewEntry adds a new entry to the list of faults or increases the count of
// an existing entry
func (flt *Faults) NewEntry(event string, category Category, pc uint16, accessAddr uint16) *Entry {
	key := fmt.Sprintf("%s%04x%04x", category, pc, accessAddr)

	e, found := flt.entries[key]
	if !found {
		e = &Entry{
			Category:       category,
			Event:          event,
			ProgramCounter: pc,
			AccessAddr:     accessAddr,
		}
		flt.entries[key] = e
		flt.Log = append(flt.Log, e)
	}

	e.Count++
	return e
}
