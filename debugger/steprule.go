package debugger

import (
	"fmt"
	"strconv"
	"strings"
)

func (m *debugger) parseStepRule(cmd []string) bool {
	// rough support for step rule definition

	rule := strings.ToUpper(cmd[0])
	switch rule {
	case "FRAME", "FR":
		var tgt int
		if len(cmd) > 1 {
			var err error
			tgt, err = strconv.Atoi(cmd[1])
			if err != nil {
				fmt.Println(m.styles.err.Render(err.Error()))
				return false
			}
			if tgt <= m.console.Video.Frame {
				fmt.Println(m.styles.err.Render(fmt.Sprintf("FRAME %d is in the past", tgt)))
				return false
			}
		} else {
			tgt = m.console.Video.Frame + 1
		}
		m.stepRule = func() bool {
			return m.console.Video.Frame == tgt
		}
	case "LINE", "SCANLINE", "SL":
		tgt := m.console.Video.Line + 1
		if len(cmd) > 1 {
			var err error
			tgt, err = strconv.Atoi(cmd[1])
			if err != nil {
				fmt.Println(m.styles.err.Render(err.Error()))
				return false
			}
			if tgt < 0 || tgt >= m.console.Spec().TotalLines() {
				fmt.Println(m.styles.err.Render(fmt.Sprintf("LINE %d is not in the frame", tgt)))
				return false
			}
		}
		tgt %= m.console.Spec().TotalLines()
		m.stepRule = func() bool {
			return m.console.Video.Line == tgt
		}
	case "INTERRUPT", "INTR":
		// steps until the interrupt line becomes active. if the line is
		// already active this is the same as a single step
		m.stepRule = func() bool {
			return m.console.Bus.Interrupt()
		}
	case "GPU":
		runs := m.console.GPU.Runs
		m.stepRule = func() bool {
			return runs != m.console.GPU.Runs
		}
		m.postStep = func() {
			fmt.Println(m.styles.gpu.Render(
				m.console.GPU.String(),
			))
		}
	case "FLASH":
		jobs := m.console.Programmer.Jobs
		m.stepRule = func() bool {
			return jobs != m.console.Programmer.Jobs
		}
		m.postStep = func() {
			fmt.Println(m.styles.flash.Render(
				m.console.Programmer.String(),
			))
		}
	default:
		fmt.Println(m.styles.err.Render(
			fmt.Sprintf("STEP %s is unsupported", rule),
		))
		return false
	}
	return true
}
