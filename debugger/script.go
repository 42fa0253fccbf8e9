package debugger

import (
	stdctx "context"
	"errors"
	"fmt"
	"sync"

	"github.com/jetsetilly/test9918/gui"
)

var scriptEnd = errors.New("script ended")

// runScript runs the Lua file as a host program while the console runs in
// the background. The script can be interrupted with ctrl-c
func (m *debugger) runScript(filename string) error {
	s := m.console.Host.NewScript()
	defer s.Close()

	s.Echo = func(msg string) {
		fmt.Println(m.styles.script.Render(msg))
	}

	ctx, cancel := stdctx.WithCancel(stdctx.Background())
	defer cancel()

	stop := make(chan bool, 1)
	started := make(chan struct{})
	result := make(chan error, 1)
	var once sync.Once

	go func() {
		result <- m.console.Run(stop, func() error {
			once.Do(func() {
				close(started)
			})
			select {
			case <-m.sig:
				cancel()
				return scriptEnd
			default:
			}
			return nil
		})
	}()
	<-started

	m.setState(gui.StateRunning)
	err := s.RunFile(ctx, filename)
	m.setState(gui.StatePaused)

	stop <- true
	runErr := <-result
	if runErr != nil && !errors.Is(runErr, scriptEnd) {
		return runErr
	}

	return err
}
