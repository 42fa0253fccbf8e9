package ebiten

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jetsetilly/test9918/gui"
	"github.com/jetsetilly/test9918/logger"
	"github.com/jetsetilly/test9918/resources"
	input "github.com/quasilyte/ebitengine-input"
)

const (
	ActionPause         = input.Action(gui.Pause)
	ActionReset         = input.Action(gui.Reset)
	ActionScreenshot    = input.Action(gui.Screenshot)
	ActionToggleCRT     = input.Action(gui.ToggleCRT)
	ActionToggleOverlay = input.Action(gui.ToggleOverlay)
	ActionStepFrame     = input.Action(gui.StepFrame)
)

var keymap = input.Keymap{
	ActionPause:         {input.KeyF3, input.KeyGamepadStart},
	ActionReset:         {input.KeyF1, input.KeyGamepadBack},
	ActionScreenshot:    {input.KeyF12},
	ActionToggleCRT:     {input.KeyF6},
	ActionToggleOverlay: {input.KeyF7},
	ActionStepFrame:     {input.KeyF8},
}

// the order in which actions are checked
var actions = []input.Action{
	ActionPause, ActionReset, ActionScreenshot,
	ActionToggleCRT, ActionToggleOverlay, ActionStepFrame,
}

// the file types that can be dropped on the window
var dropTypes = []string{".uf2", ".lua", ".bin"}

func (eg *guiEbiten) inputDragAndDrop() error {
	df := ebiten.DroppedFiles()
	if df == nil {
		return nil
	}

	entries, err := fs.ReadDir(df, ".")
	if err != nil {
		return fmt.Errorf("ebiten: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		var ok bool
		for _, t := range dropTypes {
			ok = ok || ext == t
		}
		if !ok {
			logger.Logf(logger.Allow, "gui", "cannot use dropped file: %s", e.Name())
			continue
		}

		// the dropped file system does not expose the real path of the file.
		// the file is copied to the resources folder so that the emulation can
		// open it by name
		fn, err := eg.copyDropped(df, e.Name())
		if err != nil {
			return err
		}

		select {
		case eg.g.Commands <- []string{"INSERT", fn}:
		default:
			return nil
		}
	}
	return nil
}

func (eg *guiEbiten) copyDropped(df fs.FS, name string) (string, error) {
	d, err := fs.ReadFile(df, name)
	if err != nil {
		return "", fmt.Errorf("ebiten: %w", err)
	}
	fn, err := resources.JoinPath("dropped", name)
	if err != nil {
		return "", fmt.Errorf("ebiten: %w", err)
	}
	err = os.WriteFile(fn, d, 0600)
	if err != nil {
		return "", fmt.Errorf("ebiten: %w", err)
	}
	return fn, nil
}

func (eg *guiEbiten) screenshot() (string, error) {
	if eg.last == nil {
		return "", fmt.Errorf("ebiten: no image for screenshot")
	}

	fn := fmt.Sprintf("test9918_%s.png", time.Now().Format("20060102_150405"))
	f, err := os.Create(fn)
	if err != nil {
		return "", fmt.Errorf("ebiten: %w", err)
	}
	defer f.Close()

	err = gui.SaveScreenshot(f, eg.last)
	if err != nil {
		return "", fmt.Errorf("ebiten: %w", err)
	}
	return fn, nil
}

func (eg *guiEbiten) inputKeyboard() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	eg.inputSystem.Update()

	for _, a := range actions {
		if !eg.inputHandler.ActionIsJustPressed(a) {
			continue
		}

		inp := gui.Input{Action: gui.Action(a)}

		if inp.Action == gui.Screenshot {
			fn, err := eg.screenshot()
			if err != nil {
				logger.Log(logger.Allow, "gui", err)
				continue
			}
			inp.Data = fn
		}

		select {
		case eg.g.UserInput <- inp:
		default:
			return nil
		}
	}

	return nil
}
