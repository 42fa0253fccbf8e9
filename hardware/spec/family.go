package spec

import (
	"fmt"
	"strings"
)

// Family is the microcontroller the device is built around. It decides the
// model byte in the config page and the UF2 family accepted by the firmware
// updater
type Family struct {
	ID    string
	Model uint8
	UF2ID uint32
}

var RP2040 = Family{ID: "RP2040", Model: 1, UF2ID: 0xe48bff56}
var RP2350 = Family{ID: "RP2350", Model: 2, UF2ID: 0xe48bff59}

// LookupFamily returns the Family with the ID. The ID is not case sensitive
func LookupFamily(id string) (Family, error) {
	switch strings.ToUpper(id) {
	case "RP2040":
		return RP2040, nil
	case "RP2350":
		return RP2350, nil
	}
	return Family{}, fmt.Errorf("spec: unknown family (%s)", id)
}

// DisplayDriver is the value stored in the config page for the display
// specification
func (s Spec) DisplayDriver() uint8 {
	switch s.ID {
	case "NTSC":
		return 1
	case "PAL":
		return 2
	}
	return 0
}
