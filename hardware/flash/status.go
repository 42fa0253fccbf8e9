package flash

import "fmt"

// Phase is the coarse progress of a flash job
type Phase int

// List of valid Phase values
const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseErasing
	PhaseWriting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseErasing:
		return "erasing"
	case PhaseWriting:
		return "writing"
	}
	return "unknown"
}

// Error is the result of a flash job
type Error int

// List of valid Error values
const (
	ErrOK Error = iota
	ErrHeader
	ErrSequence
	ErrFull
	ErrSize
	ErrVerify
	ErrBusy
)

func (e Error) String() string {
	switch e {
	case ErrOK:
		return "ok"
	case ErrHeader:
		return "header"
	case ErrSequence:
		return "sequence"
	case ErrFull:
		return "full"
	case ErrSize:
		return "size"
	case ErrVerify:
		return "verify"
	case ErrBusy:
		return "busy"
	}
	return "unknown"
}

// Code is the value of the error on the wire. The sequence and full errors
// share a code. The sequence error only occurs for firmware jobs and the full
// error only occurs for program data jobs
func (e Error) Code() uint8 {
	switch e {
	case ErrHeader:
		return 1
	case ErrSequence, ErrFull:
		return 2
	case ErrSize:
		return 3
	case ErrVerify:
		return 4
	case ErrBusy:
		return 5
	}
	return 0
}

// Status is the state of the flash programmer as reported in status register
// two
type Status struct {
	Running bool
	Retry   int
	Err     Error
	Phase   Phase
}

// bits in the status byte
const (
	statusRunning    = 0x80
	statusRetryShift = 5
	statusErrShift   = 2
)

// Encode the status for the status register
func (s Status) Encode() uint8 {
	var v uint8
	if s.Running {
		v |= statusRunning
	}
	v |= uint8(s.Retry&0x03) << statusRetryShift
	v |= (s.Err.Code() & 0x07) << statusErrShift
	v |= uint8(s.Phase) & 0x03
	return v
}

// Decode a status byte. A code of two decodes as ErrSequence
func Decode(v uint8) Status {
	s := Status{
		Running: v&statusRunning == statusRunning,
		Retry:   int(v>>statusRetryShift) & 0x03,
		Phase:   Phase(v & 0x03),
	}
	switch (v >> statusErrShift) & 0x07 {
	case 1:
		s.Err = ErrHeader
	case 2:
		s.Err = ErrSequence
	case 3:
		s.Err = ErrSize
	case 4:
		s.Err = ErrVerify
	case 5:
		s.Err = ErrBusy
	}
	return s
}

func (s Status) String() string {
	r := "stopped"
	if s.Running {
		r = "running"
	}
	return fmt.Sprintf("%s phase=%s err=%s retry=%d", r, s.Phase, s.Err, s.Retry)
}
