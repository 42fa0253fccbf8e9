package debugger

type watch struct {
	ma   mappedAddress
	data uint8
	prev uint8
}

func (m *debugger) checkWatches() *watch {
	for i, w := range m.watches {
		d := m.peek(w.ma)
		if d != w.data {
			w.prev = w.data
			w.data = d
			m.watches[i] = w
			return &w
		}
	}
	return nil
}
