package config

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jetsetilly/test9918/logger"
)

// the wrapping error for all errors returned by the package
var ConfigError = errors.New("config")

// the config page lives in the top 4k sector of a 2MB flash
const (
	SectorSize = 0x1000
	Offset     = 0x200000 - SectorSize
)

// the number of times a write is attempted before giving up
const writeAttempts = 5

// Storage is the flash the page is persisted to
type Storage interface {
	Read(offset int, p []byte) error
	Erase(offset int, size int) error
	Program(offset int, data []byte) error
}

// Read the page from storage. A page that fails validation is replaced with
// the default page for the platform. The page is flagged for saving if the
// firmware version stored in it is out of date
func Read(s Storage, plat Platform) (Page, error) {
	var p Page
	err := s.Read(Offset, p[:])
	if err != nil {
		return Defaults(plat), fmt.Errorf("%w: %w", ConfigError, err)
	}

	if err := p.Valid(plat); err != nil {
		logger.Logf(logger.Allow, "config", "using defaults: %v", err)
		p = Defaults(plat)
	}

	p[SaveToFlash] = 0

	if p[SoftwareVersion] != FirmwareVersion || p[PatchVersion] != FirmwarePatch {
		p[SoftwareVersion] = FirmwareVersion
		p[PatchVersion] = FirmwarePatch
		p[SaveToFlash] = 1
	}

	return p, nil
}

// Write the page to storage. Fields the host cannot set are forced to the
// values for the platform before writing
func Write(s Storage, plat Platform, p *Page) error {
	p.sanitise(plat)

	err := s.Erase(Offset, SectorSize)
	if err != nil {
		return fmt.Errorf("%w: %w", ConfigError, err)
	}

	var verify Page
	for range writeAttempts {
		err = s.Program(Offset, p[:])
		if err != nil {
			return fmt.Errorf("%w: %w", ConfigError, err)
		}
		err = s.Read(Offset, verify[:])
		if err != nil {
			return fmt.Errorf("%w: %w", ConfigError, err)
		}
		if bytes.Equal(verify[:], p[:]) {
			return nil
		}
	}

	return fmt.Errorf("%w: verify failed after %d attempts", ConfigError, writeAttempts)
}
