// Package input realises gaze actions as emulated mouse input.
package input

import (
	"fmt"

	"github.com/ayusman/gazectl/internal/gaze"
)

// Emulator performs input actions on the desktop.
type Emulator interface {
	// Scroll scrolls vertically. Positive amounts scroll up.
	Scroll(amount int) error
	// MoveCursorRelative moves the pointer by dx, dy pixels.
	MoveCursorRelative(dx, dy int) error
	// Click performs a left click at the current pointer position.
	Click() error
}

// Backend names accepted by New.
const (
	BackendRobotgo = "robotgo"
	BackendPlugin  = "plugin"
	BackendLog     = "log"
)

// Backends lists the supported backend names.
var Backends = []string{BackendRobotgo, BackendPlugin, BackendLog}

// Dispatch performs a single action on em.
func Dispatch(em Emulator, a gaze.Action) error {
	switch a.Kind {
	case gaze.ActionScroll:
		return em.Scroll(a.Amount)
	case gaze.ActionMove:
		return em.MoveCursorRelative(a.DX, a.DY)
	case gaze.ActionClick:
		return em.Click()
	default:
		return fmt.Errorf("unknown action kind %d", a.Kind)
	}
}
