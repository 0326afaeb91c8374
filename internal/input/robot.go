package input

import "github.com/go-vgo/robotgo"

// RobotEmulator drives the local desktop through robotgo.
type RobotEmulator struct{}

// NewRobotEmulator returns an emulator for the local desktop.
func NewRobotEmulator() *RobotEmulator {
	return &RobotEmulator{}
}

func (RobotEmulator) Scroll(amount int) error {
	switch {
	case amount > 0:
		robotgo.ScrollDir(amount, "up")
	case amount < 0:
		robotgo.ScrollDir(-amount, "down")
	}
	return nil
}

func (RobotEmulator) MoveCursorRelative(dx, dy int) error {
	robotgo.MoveRelative(dx, dy)
	return nil
}

func (RobotEmulator) Click() error {
	robotgo.Click("left")
	return nil
}
