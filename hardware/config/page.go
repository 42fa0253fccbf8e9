package config

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/test9918/hardware/spec"
)

// Size of the config page in bytes
const Size = 256

// Indexes into the config page. Indexes below CRTScanlines cannot be set by
// the host
const (
	Model           = 0
	HardwareVersion = 1
	SoftwareVersion = 2
	PatchVersion    = 3
	ClockTested     = 4
	DisplayDriver   = 5
	FlashStatus     = 6

	CRTScanlines    = 8
	ScanlineSprites = 9
	ClockPreset     = 10

	Diag            = 64
	DiagRegisters   = 65
	DiagPerformance = 66
	DiagTemperature = 67
	DiagPalette     = 68

	Palette = 128

	SaveToFlash = 255
)

// the number of palette entries stored in the page
const PaletteEntries = 16

// the firmware version written to the page
const (
	FirmwareVersion = 0x10
	FirmwarePatch   = 0x02
	Hardware        = 0x10
)

// Platform identifies the device the page belongs to. A page from a
// different platform fails validation
type Platform struct {
	Family spec.Family
	Spec   spec.Spec
}

// Page is the 256 byte configuration image
type Page [Size]uint8

// Defaults returns the default page for the platform
func Defaults(plat Platform) Page {
	var p Page
	p[Model] = plat.Family.Model
	p[SoftwareVersion] = FirmwareVersion
	p[PatchVersion] = FirmwarePatch
	p[HardwareVersion] = Hardware
	p[DisplayDriver] = plat.Spec.DisplayDriver()

	for i := 1; i < PaletteEntries; i++ {
		p.SetPaletteEntry(i, 0xf000|spec.DefaultPalette[i])
	}
	return p
}

// Valid returns nil if the page belongs to the platform and holds values in
// range
func (p *Page) Valid(plat Platform) error {
	switch {
	case p[Model] != plat.Family.Model:
		return fmt.Errorf("%w: model %d is not %s", ConfigError, p[Model], plat.Family.ID)
	case p[DisplayDriver] != plat.Spec.DisplayDriver():
		return fmt.Errorf("%w: display driver %d is not %s", ConfigError, p[DisplayDriver], plat.Spec.ID)
	case p[ClockPreset] > 2:
		return fmt.Errorf("%w: clock preset %d", ConfigError, p[ClockPreset])
	case p[CRTScanlines] > 1:
		return fmt.Errorf("%w: crt scanlines %d", ConfigError, p[CRTScanlines])
	case p[ScanlineSprites] > 3:
		return fmt.Errorf("%w: scanline sprites %d", ConfigError, p[ScanlineSprites])
	case p[Palette] != 0x00:
		return fmt.Errorf("%w: palette not initialised", ConfigError)
	case p[Palette+2]&0xf0 != 0xf0:
		return fmt.Errorf("%w: palette not initialised", ConfigError)
	}
	return nil
}

// PaletteEntry returns the palette entry in 0xARGB format
func (p *Page) PaletteEntry(i int) uint16 {
	return uint16(p[Palette+i*2])<<8 | uint16(p[Palette+i*2+1])
}

// SetPaletteEntry sets the palette entry from a 0xARGB value
func (p *Page) SetPaletteEntry(i int, argb uint16) {
	p[Palette+i*2] = uint8(argb >> 8)
	p[Palette+i*2+1] = uint8(argb)
}

// SpriteLimit is the number of sprites per scanline. One of 4, 8, 16 or 32
func (p *Page) SpriteLimit() uint8 {
	return 1 << (p[ScanlineSprites] + 2)
}

// UpdateDiag sets the diag byte if any of the diagnostic rows are enabled
func (p *Page) UpdateDiag() {
	if p[DiagRegisters] != 0 || p[DiagPerformance] != 0 ||
		p[DiagTemperature] != 0 || p[DiagPalette] != 0 {
		p[Diag] = 1
	} else {
		p[Diag] = 0
	}
}

// sanitise forces the values that the host should not be able to change
func (p *Page) sanitise(plat Platform) {
	p[Model] = plat.Family.Model
	p[HardwareVersion] = Hardware
	p[SoftwareVersion] = FirmwareVersion

	// palette 0 is always transparent and the others are always opaque
	p[Palette] = 0
	p[Palette+1] = 0
	for i := 1; i < PaletteEntries; i++ {
		p[Palette+i*2] |= 0xf0
	}
}

func (p *Page) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("model=%d hw=%#02x sw=%#02x.%d driver=%d\n",
		p[Model], p[HardwareVersion], p[SoftwareVersion], p[PatchVersion], p[DisplayDriver]))
	s.WriteString(fmt.Sprintf("crt=%d sprites=%d clock=%d diag=%d [reg=%d perf=%d temp=%d pal=%d]",
		p[CRTScanlines], p.SpriteLimit(), p[ClockPreset], p[Diag],
		p[DiagRegisters], p[DiagPerformance], p[DiagTemperature], p[DiagPalette]))
	s.WriteString("\npalette:")
	for i := range PaletteEntries {
		s.WriteString(fmt.Sprintf(" %04x", p.PaletteEntry(i)))
	}
	return s.String()
}
