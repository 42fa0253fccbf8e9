package gpu

import "errors"

// Fault is returned by Memory when the program accesses the guard window.
// The access completes before the fault is returned
var Fault = errors.New("gpu fault")

// Memory is the view of VRAM given to the interpreter
type Memory interface {
	Read(addr uint16) (uint8, error)
	Write(addr uint16, v uint8) error
}

// Interpreter executes a GPU program starting at the program counter. It
// returns the address the program should continue from. When Memory returns
// an error the interpreter must stop and return the error along with the
// address of the next instruction
type Interpreter interface {
	Run(mem Memory, pc uint16) (uint16, error)
}

// Idle is an interpreter that halts immediately
type Idle struct{}

func (Idle) Run(_ Memory, pc uint16) (uint16, error) {
	return pc, nil
}

// Func allows a function to be used as an Interpreter
type Func func(mem Memory, pc uint16) (uint16, error)

func (f Func) Run(mem Memory, pc uint16) (uint16, error) {
	return f(mem, pc)
}
