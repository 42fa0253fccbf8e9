package debugger

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/test9918/hardware/chip"
	"github.com/jetsetilly/test9918/hardware/config"
	"github.com/jetsetilly/test9918/hardware/flash"
	"github.com/jetsetilly/test9918/hardware/spec"
	"github.com/jetsetilly/test9918/logger"
)

// snapshot of the chip for the MEMVIZ command
type snapshot struct {
	Registers      [chip.NumRegisters]uint8
	Status         [chip.NumStatus]uint8
	Address        uint16
	WriteMode      bool
	Unlocked       bool
	ProgramCounter uint16
	Flash          flash.Status
	Config         *config.Page
}

func (m *debugger) snapshot() *snapshot {
	var s snapshot
	c := m.console.Chip
	c.Borrow(func() {
		s.Registers = c.Registers
		s.Status = c.Status
		s.Address = c.Address
		s.WriteMode = c.WriteMode
		s.Unlocked = c.Unlocked
		s.ProgramCounter = c.ProgramCounter
		s.Flash = flash.Decode(c.Status[2])
		page := c.Config
		s.Config = &page
	})
	return &s
}

// returns true if debugger is to quit
func (m *debugger) commands(cmd []string) bool {
	if len(cmd) == 0 {
		return false
	}

	switch strings.ToUpper(cmd[0]) {
	case "INSERT":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render(
				"INSERT requires a filename",
			))
			break // switch
		}
		m.loader = cmd[1]
		m.reset()

	case "BOOT":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render(
				"BOOT requires a file and an optional VRAM address",
			))
			break // switch
		}

		err := m.bootParse(cmd[1:])
		if err != nil {
			fmt.Println(m.styles.err.Render(err.Error()))
			break // switch
		}

	case "SCRIPT":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render(
				"SCRIPT requires a Lua file",
			))
			break // switch
		}

		err := m.runScript(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(err.Error()))
		}

	case "R", "RUN":
		return m.run()

	case "ST", "STEP":
		if len(cmd) > 1 {
			if !m.parseStepRule(cmd[1:]) {
				break // switch
			}
		}
		return m.step()

	case "RESET":
		m.reset()

	case "VDP":
		var s string
		m.console.Chip.Borrow(func() {
			s = m.console.Chip.String()
		})
		fmt.Println(m.styles.vdp.Render(s))

	case "BUS":
		fmt.Println(m.styles.vdp.Render(
			m.console.Bus.String(),
		))

	case "VIDEO":
		fmt.Println(m.styles.video.Render(
			m.console.Video.String(),
		))
		fmt.Println(m.styles.video.Render(
			m.console.Scanout.String(),
		))
		fmt.Println(m.styles.video.Render(
			fmt.Sprintf("render time %s. %s", m.console.Video.RenderTime, m.console.Video.Overlay),
		))

	case "GPU":
		if len(cmd) == 1 {
			fmt.Println(m.styles.gpu.Render(
				m.console.GPU.String(),
			))
			break // switch
		}
		switch strings.ToUpper(cmd[1]) {
		case "FAULTS":
			if len(m.console.GPU.Faults.Log) == 0 {
				fmt.Println(m.styles.debugger.Render(
					"no GPU faults",
				))
			} else {
				m.console.GPU.Faults.WriteLog(os.Stdout)
			}
		case "CLEAR":
			m.console.GPU.Faults.Clear()
			m.faultsSeen = 0
		default:
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("unrecognised argument for GPU command: %s", cmd[1]),
			))
		}

	case "FLASH":
		s := m.snapshot()
		fmt.Println(m.styles.flash.Render(
			m.console.Programmer.String(),
		))
		fmt.Println(m.styles.flash.Render(
			fmt.Sprintf("status register: %s", s.Flash),
		))
		fmt.Println(m.styles.flash.Render(
			fmt.Sprintf("erases=%d programs=%d saved=%v",
				m.console.Flash.Erases, m.console.Flash.Programs, m.console.Flash.IsSaved()),
		))

	case "SAVE":
		m.console.Flash.Save()

	case "CONFIG":
		s := m.snapshot()
		fmt.Println(m.styles.mem.Render(
			s.Config.String(),
		))

	case "PALETTE":
		var p [spec.PaletteEntries]uint16
		m.console.Chip.Borrow(func() {
			for i := range p {
				p[i] = m.console.Chip.PaletteEntry(i)
			}
		})
		var s strings.Builder
		for i, e := range p {
			if i%16 == 0 {
				if i > 0 {
					s.WriteString("\n")
				}
				s.WriteString(fmt.Sprintf("%02d:", i))
			}
			s.WriteString(fmt.Sprintf(" %03x", e))
		}
		fmt.Println(m.styles.mem.Render(s.String()))

	case "CRT":
		m.toggleConfig(config.CRTScanlines)

	case "OVERLAY":
		m.toggleConfig(config.DiagRegisters, config.DiagPerformance)

	case "DUMP":
		if len(cmd) < 3 {
			fmt.Println(m.styles.err.Render(
				"DUMP requires a 'from' and a 'to' address",
			))
			break // switch
		}

		from, err := m.parseAddress(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("dump: %s", err.Error()),
			))
			break // switch
		}

		to, err := m.parseAddress(cmd[2])
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("dump: %s", err.Error()),
			))
			break // switch
		}

		if to.address < from.address {
			fmt.Println(m.styles.err.Render(
				"dump: the 'to' address is less than the 'from' address",
			))
			break // switch
		}

		if from.area != to.area {
			fmt.Println(m.styles.err.Render(
				"dump: the 'from' and 'to' addresses are in different memory areas",
			))
			break // switch
		}

		var column int
		for a := int(from.address); a <= int(to.address); a++ {
			if column == 0 {
				fmt.Printf("%04x", a)
			}

			fmt.Printf(" %02x", m.peek(mappedAddress{area: from.area, address: uint16(a)}))

			column++
			if column > 15 {
				fmt.Printf("\n")
				column = 0
			}
		}
		if column != 0 {
			fmt.Printf("\n")
		}

	case "PEEK":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render(
				"PEEK requires an address",
			))
			break // switch
		}

		ma, err := m.parseAddress(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("peek: %s", err.Error()),
			))
			break // switch
		}

		fmt.Println(m.styles.mem.Render(
			fmt.Sprintf("%s = %02x (%s)", ma, m.peek(ma), ma.area.Label()),
		))

	case "POKE":
		if len(cmd) < 3 {
			fmt.Println(m.styles.err.Render(
				"POKE requires an address and a value",
			))
			break // switch
		}

		ma, err := m.parseAddress(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("poke: %s", err.Error()),
			))
			break // switch
		}

		v, err := strconv.ParseUint(strings.Replace(cmd[2], "$", "0x", 1), 0, 8)
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("poke: value is not valid: %s", cmd[2]),
			))
			break // switch
		}

		m.poke(ma, uint8(v))
		fmt.Println(m.styles.mem.Render(
			fmt.Sprintf("%s = %02x (%s)", ma, m.peek(ma), ma.area.Label()),
		))

	case "BREAK":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render(
				"BREAK requires a line number",
			))
			break // switch
		}

		// we check the first argument for special keywords before assuming
		// it is a line. the keywords are case insensitive
		arg := strings.ToUpper(cmd[1])

		if arg == "DROP" {
			if len(cmd) < 3 {
				fmt.Println(m.styles.err.Render(
					"BREAK DROP requires a line number",
				))
				break // switch
			}

			if strings.ToUpper(cmd[2]) == "ALL" {
				clear(m.breakpoints)
				break // switch
			}

			l, err := strconv.Atoi(cmd[2])
			if err != nil {
				fmt.Println(m.styles.err.Render(
					fmt.Sprintf("breakpoint: line is not valid: %s", cmd[2]),
				))
				break // switch
			}
			if _, ok := m.breakpoints[l]; !ok {
				fmt.Println(m.styles.debugger.Render(
					fmt.Sprintf("breakpoint for line %d not present", l),
				))
				break // switch
			}
			delete(m.breakpoints, l)
			fmt.Println(m.styles.debugger.Render(
				fmt.Sprintf("breakpoint for line %d has been removed", l),
			))
			break // switch
		}

		l, err := strconv.Atoi(cmd[1])
		if err != nil || l < 0 || l >= m.console.Spec().TotalLines() {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("breakpoint: line is not valid: %s", cmd[1]),
			))
			break // switch
		}

		if _, ok := m.breakpoints[l]; ok {
			fmt.Println(m.styles.debugger.Render(
				fmt.Sprintf("breakpoint for line %d already present", l),
			))
			break // switch
		}

		m.breakpoints[l] = true
		fmt.Println(m.styles.debugger.Render(
			fmt.Sprintf("added breakpoint for line %d", l),
		))

	case "WATCH":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render(
				"WATCH requires an address",
			))
			break // switch
		}

		arg := strings.ToUpper(cmd[1])

		if arg == "DROP" {
			if len(cmd) < 3 {
				fmt.Println(m.styles.err.Render(
					"WATCH DROP requires an address",
				))
				break // switch
			}

			if strings.ToUpper(cmd[2]) == "ALL" {
				clear(m.watches)
				break // switch
			}

			ma, err := m.parseAddress(cmd[2])
			if err != nil {
				fmt.Println(m.styles.err.Render(
					fmt.Sprintf("watch: %s", err.Error()),
				))
				break // switch
			}
			if _, ok := m.watches[ma]; !ok {
				fmt.Println(m.styles.debugger.Render(
					fmt.Sprintf("watch for %s not present", ma),
				))
				break // switch
			}
			delete(m.watches, ma)
			fmt.Println(m.styles.debugger.Render(
				fmt.Sprintf("watch %s has been removed", ma),
			))
			break // switch
		}

		ma, err := m.parseAddress(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("watch: %s", err.Error()),
			))
			break // switch
		}

		if _, ok := m.watches[ma]; ok {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("watch for %s already present", ma),
			))
			break // switch
		}

		m.watches[ma] = watch{
			ma:   ma,
			data: m.peek(ma),
		}

	case "LIST":
		fmt.Println(m.styles.debugger.Render("breakpoints"))
		if len(m.breakpoints) == 0 {
			fmt.Println("none")
		} else {
			for l := range m.breakpoints {
				fmt.Printf("line %d\n", l)
			}
		}
		fmt.Println(m.styles.debugger.Render("watches"))
		if len(m.watches) == 0 {
			fmt.Println("none")
		} else {
			for ma := range m.watches {
				fmt.Printf("%s\n", ma)
			}
		}

	case "MEMVIZ":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render(
				"MEMVIZ requires a filename",
			))
			break // switch
		}

		f, err := os.Create(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("memviz: %s", err.Error()),
			))
			break // switch
		}
		memviz.Map(f, m.snapshot())
		err = f.Close()
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("memviz: %s", err.Error()),
			))
			break // switch
		}
		fmt.Println(m.styles.debugger.Render(
			fmt.Sprintf("chip state written to %s", cmd[1]),
		))

	case "LOG":
		n := -1
		if len(cmd) == 2 {
			var err error
			n, err = strconv.Atoi(cmd[1])
			if err != nil {
				fmt.Println(m.styles.err.Render(
					fmt.Sprintf("cannot use LOG %s", cmd[1]),
				))
				break // switch
			}
		}
		logger.Tail(os.Stdout, n)

	case "HELP":
		fmt.Println(m.styles.debugger.Render(help))

	case "QUIT":
		return true

	default:
		fmt.Println(m.styles.err.Render(
			fmt.Sprintf("unrecognised command: %s", strings.Join(cmd, " ")),
		))
	}

	return false
}

const help = `RUN, STEP [FRAME|LINE|INTERRUPT|GPU|FLASH], RESET
INSERT <file>, BOOT <file> [address], SCRIPT <file>
VDP, BUS, VIDEO, GPU [FAULTS|CLEAR], FLASH, SAVE, CONFIG, PALETTE
CRT, OVERLAY
DUMP <from> <to>, PEEK <address>, POKE <address> <value>
BREAK [DROP] <line>, WATCH [DROP] <address>, LIST
MEMVIZ <file>, LOG [n], QUIT`
