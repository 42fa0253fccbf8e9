package debugger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// bootFromFile decides what to do with the file from its extension. UF2
// files are written to the firmware area of the flash and Lua files are run
// as host scripts. Any other file is treated as a VRAM image and loaded at
// address zero
func (m *debugger) bootFromFile(bootfile string) error {
	switch strings.ToLower(filepath.Ext(bootfile)) {
	case ".uf2":
		err := m.console.Host.FlashFirmware(bootfile)
		if err != nil {
			return err
		}
		fmt.Println(m.styles.flash.Render(
			fmt.Sprintf("flashed %s", filepath.Base(bootfile)),
		))
		fmt.Println(m.styles.flash.Render(
			m.console.Programmer.String(),
		))
		return nil
	case ".lua":
		return m.runScript(bootfile)
	}

	origin, err := m.parseAddress("0")
	if err != nil {
		return err
	}
	return m.boot(bootfile, origin)
}

func (m *debugger) bootParse(args []string) error {
	if len(args) == 1 {
		return m.bootFromFile(args[0])
	}

	origin, err := m.parseAddress(args[1])
	if err != nil {
		return err
	}
	if origin.area != areaVRAM {
		return fmt.Errorf("boot origin must be a VRAM address: %s", args[1])
	}

	return m.boot(args[0], origin)
}

// boot loads the file into VRAM at the origin address through the host bus.
// the host can only address the first 16k of VRAM
func (m *debugger) boot(romfile string, origin mappedAddress) error {
	d, err := os.ReadFile(romfile)
	if err != nil {
		return fmt.Errorf("error loading %s", romfile)
	}

	end := int(origin.address) + len(d)
	if end > 0x4000 {
		return fmt.Errorf("%s does not fit in VRAM at %s", filepath.Base(romfile), origin)
	}

	m.console.Bus.Write(origin.address, d)

	fmt.Println(m.styles.debugger.Render(
		fmt.Sprintf("loaded %s at %s", filepath.Base(romfile), origin),
	))
	return nil
}
