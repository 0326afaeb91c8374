// Package tray provides a system tray toggle for the tracking service.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/gazectl/internal/gaze"
	"github.com/ayusman/gazectl/internal/tracking"
)

const (
	titleEnabled  = "● Tracking"
	titleDisabled = "○ Tracking off"
	lastNone      = "Last: none"
)

// Tray is the system tray menu. It observes the tracking service so the
// toggle always shows the service state, not the last click.
type Tray struct {
	tracking.NopObserver

	onToggle    func(enable bool)
	onDashboard func()
	onQuit      func()
	enabled     bool
	lastAction  string
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle     *systray.MenuItem
	menuLastAction *systray.MenuItem
}

// New creates a Tray showing tracking as disabled.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback called with the requested state when the
// toggle is clicked.
func (t *Tray) OnToggle(fn func(enable bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnDashboard sets the callback of the dashboard menu item.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit stops Run.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("gazectl")
	systray.SetTooltip("Gaze-driven computer control")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Start or stop tracking")
	systray.AddSeparator()
	t.menuLastAction = systray.AddMenuItem(lastTitle(t.lastAction), "Last emulated input")
	t.menuLastAction.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit gazectl")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// handleToggle requests the opposite of the current state. The menu changes
// once the service reports the new state.
func (t *Tray) handleToggle() {
	t.mu.RLock()
	enable := !t.enabled
	callback := t.onToggle
	t.mu.RUnlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enable)
	}
}

func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// ObserveState implements tracking.Observer.
func (t *Tray) ObserveState(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// ObserveAction implements tracking.Observer. Failed actions are not shown.
func (t *Tray) ObserveAction(a gaze.Action, err error) {
	if err != nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastAction = a.String()
	if t.menuLastAction != nil {
		t.menuLastAction.SetTitle(lastTitle(t.lastAction))
	}
}

// IsEnabled returns the last observed tracking state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// LastAction returns the last successful action, or "".
func (t *Tray) LastAction() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastAction
}

func toggleTitle(enabled bool) string {
	if enabled {
		return titleEnabled
	}
	return titleDisabled
}

func lastTitle(action string) string {
	if action == "" {
		return lastNone
	}
	return "Last: " + action
}
