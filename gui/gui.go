package gui

import "image"

// the size of the presented display. frames from the emulation are scaled to
// fit
const (
	DisplayWidth  = 640
	DisplayHeight = 480
)

type State int

const (
	StateRunning State = iota
	StatePaused
)

// Image is a single frame sent to the GUI
type Image struct {
	Main *image.RGBA

	// identifier of the frame. an image with the same ID as the previous
	// image does not need to be redrawn
	ID string
}

// GUI is the collection of channels used to communicate between the emulation
// and the window
type GUI struct {
	SetImage  chan Image
	State     chan State
	UserInput chan Input
	Commands  chan []string

	// run every GUI update. may be nil
	UpdateGUI func() error
}

func NewGUI() *GUI {
	return &GUI{
		SetImage:  make(chan Image, 1),
		State:     make(chan State, 1),
		UserInput: make(chan Input, 10),
		Commands:  make(chan []string, 1),
	}
}
