// Package temperature samples the temperature of the machine the emulation
// runs on. The value stands in for the core temperature sensor of the device.
package temperature

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var TemperatureError = errors.New("temperature")

// SysfsZone is the thermal zone used by Default()
const SysfsZone = "/sys/class/thermal/thermal_zone0/temp"

// Thermometer is anything that can report a temperature in celsius
type Thermometer interface {
	Celsius() (float32, error)
}

// Sysfs reads a linux thermal zone. The file holds the temperature in
// millidegrees
type Sysfs struct {
	Path string
}

func (s Sysfs) Celsius() (float32, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", TemperatureError, err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", TemperatureError, s.Path, err)
	}
	return float32(v) / 1000, nil
}

// Fixed is a thermometer that always reports the same value
type Fixed float32

func (f Fixed) Celsius() (float32, error) {
	return float32(f), nil
}

// Default returns the sysfs thermometer if the thermal zone exists and a fixed
// thermometer otherwise
func Default() Thermometer {
	if _, err := os.Stat(SysfsZone); err == nil {
		return Sysfs{Path: SysfsZone}
	}
	return Fixed(25)
}

// Encode the temperature for the status register. Whole degrees clamped to
// the range of the register
func Encode(c float32) uint8 {
	switch {
	case c <= 0:
		return 0
	case c >= 255:
		return 255
	}
	return uint8(c)
}
