package gui

type Action int

type Input struct {
	Action Action
	Data   any
}

const (
	Nothing Action = iota

	Pause
	Reset
	Screenshot
	ToggleCRT
	ToggleOverlay
	StepFrame
)

func (a Action) String() string {
	switch a {
	case Pause:
		return "pause"
	case Reset:
		return "reset"
	case Screenshot:
		return "screenshot"
	case ToggleCRT:
		return "crt"
	case ToggleOverlay:
		return "overlay"
	case StepFrame:
		return "step"
	}
	return "nothing"
}
