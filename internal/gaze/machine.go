package gaze

import (
	"fmt"
	"math"
	"time"
)

// Gesture timing and action magnitudes.
const (
	// ScrollAmount is scrolled per frame while either eye looks left (up) or right (down).
	ScrollAmount = 25
	// VerticalScrollAmount is used by VerticalScroll.
	VerticalScrollAmount = 100
	// CursorNudge is the horizontal cursor step for a one-eyed blink.
	CursorNudge = 40
	// ClosureClickDuration is the closure length that clicks when the eyes reopen.
	ClosureClickDuration = 3 * time.Second
	// StableClickDuration is how long the gaze must hold still to click.
	StableClickDuration = 5 * time.Second
	// StabilityThreshold is the largest frame-to-frame change of the combined
	// iris position that still counts as holding still.
	StabilityThreshold = 0.5
)

// ActionKind identifies an emulated input action.
type ActionKind int

const (
	ActionScroll ActionKind = iota
	ActionMove
	ActionClick
)

func (k ActionKind) String() string {
	switch k {
	case ActionScroll:
		return "scroll"
	case ActionMove:
		return "move"
	case ActionClick:
		return "click"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes an action kind name.
func (k *ActionKind) UnmarshalText(text []byte) error {
	for c := ActionScroll; c <= ActionClick; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown action kind %q", text)
}

// Reasons attached to actions.
const (
	ReasonGazeLeft   = "gaze-left"
	ReasonGazeRight  = "gaze-right"
	ReasonGazeUp     = "gaze-up"
	ReasonGazeDown   = "gaze-down"
	ReasonLeftBlink  = "left-blink"
	ReasonRightBlink = "right-blink"
	ReasonEyeClosure = "eye-closure"
	ReasonStableGaze = "stable-gaze"
)

// Action is a single input command produced by the state machine.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Amount int        `json:"amount,omitempty"`
	DX     int        `json:"dx,omitempty"`
	DY     int        `json:"dy,omitempty"`
	Reason string     `json:"reason"`
}

func (a Action) String() string {
	switch a.Kind {
	case ActionScroll:
		return fmt.Sprintf("scroll(%d) [%s]", a.Amount, a.Reason)
	case ActionMove:
		return fmt.Sprintf("move(%d,%d) [%s]", a.DX, a.DY, a.Reason)
	default:
		return fmt.Sprintf("%s [%s]", a.Kind, a.Reason)
	}
}

// Scroll returns a scroll action. Positive amounts scroll up.
func Scroll(amount int, reason string) Action {
	return Action{Kind: ActionScroll, Amount: amount, Reason: reason}
}

// Move returns a relative cursor move action.
func Move(dx, dy int, reason string) Action {
	return Action{Kind: ActionMove, DX: dx, DY: dy, Reason: reason}
}

// Click returns a left click action.
func Click(reason string) Action {
	return Action{Kind: ActionClick, Reason: reason}
}

// VerticalScroll maps an up or down gaze to a large scroll step.
// The tracking loop does not use it; scrolling is driven by horizontal gaze.
func VerticalScroll(d Direction) (Action, bool) {
	switch d {
	case DirectionDown:
		return Scroll(-VerticalScrollAmount, ReasonGazeDown), true
	case DirectionUp:
		return Scroll(VerticalScrollAmount, ReasonGazeUp), true
	default:
		return Action{}, false
	}
}

// Frame is the per-frame input of the state machine.
type Frame struct {
	Left  Eye
	Right Eye
}

// Evaluation is everything the state machine derived from one frame.
type Evaluation struct {
	LeftRatio      Ratio      `json:"left_ratio"`
	RightRatio     Ratio      `json:"right_ratio"`
	LeftEAR        float64    `json:"left_ear"`
	RightEAR       float64    `json:"right_ear"`
	LeftDirection  Direction  `json:"left_direction"`
	RightDirection Direction  `json:"right_direction"`
	Blink          BlinkState `json:"blink"`
	IrisPosition   float64    `json:"iris_position"`
	Actions        []Action   `json:"actions"`
}

// Machine holds the gesture timers of one tracking session. It is not safe
// for concurrent use; the tracking loop owns it.
//
// Stability clicks and closure clicks share one triggered flag: after either
// fires, neither fires again until a short closure (under
// ClosureClickDuration) clears it.
type Machine struct {
	eyeCloseStart  time.Time
	stableStart    time.Time
	clickTriggered bool
	lastPosition   float64
	hasLast        bool
}

// NewMachine returns a machine with all timers unset.
func NewMachine() *Machine {
	return &Machine{}
}

// Reset discards all timer state.
func (m *Machine) Reset() {
	*m = Machine{}
}

// LastPosition returns the last combined iris position and whether one is set.
func (m *Machine) LastPosition() (float64, bool) {
	return m.lastPosition, m.hasLast
}

// Step advances the machine by one frame observed at now.
func (m *Machine) Step(f Frame, now time.Time) Evaluation {
	ev := Evaluation{
		LeftEAR:  EyeAspectRatio(f.Left.Boundary),
		RightEAR: EyeAspectRatio(f.Right.Boundary),
	}
	ev.Blink = ClassifyBlink(ev.LeftEAR, ev.RightEAR)

	m.stepClosure(&ev, now)

	ev.LeftRatio = PositionRatio(f.Left.Iris, f.Left.Boundary)
	ev.RightRatio = PositionRatio(f.Right.Iris, f.Right.Boundary)
	ev.LeftDirection = ClassifyDirection(ev.LeftRatio)
	ev.RightDirection = ClassifyDirection(ev.RightRatio)

	switch {
	case ev.LeftDirection == DirectionLeft || ev.RightDirection == DirectionLeft:
		ev.Actions = append(ev.Actions, Scroll(ScrollAmount, ReasonGazeLeft))
	case ev.LeftDirection == DirectionRight || ev.RightDirection == DirectionRight:
		ev.Actions = append(ev.Actions, Scroll(-ScrollAmount, ReasonGazeRight))
	}

	ev.IrisPosition = (ev.LeftRatio.Mean() + ev.RightRatio.Mean()) / 2
	m.stepStability(&ev, now)

	return ev
}

// stepClosure handles one-eyed cursor nudges and the closure click.
// The closure start is captured once per episode; the click is decided when
// both eyes are open again.
func (m *Machine) stepClosure(ev *Evaluation, now time.Time) {
	if ev.Blink != BlinkNone && m.eyeCloseStart.IsZero() {
		m.eyeCloseStart = now
	}

	switch ev.Blink {
	case BlinkLeft:
		ev.Actions = append(ev.Actions, Move(-CursorNudge, 0, ReasonLeftBlink))
	case BlinkRight:
		ev.Actions = append(ev.Actions, Move(CursorNudge, 0, ReasonRightBlink))
	case BlinkBoth:
		// closure keeps accumulating
	case BlinkNone:
		if m.eyeCloseStart.IsZero() {
			return
		}
		closed := now.Sub(m.eyeCloseStart)
		if closed >= ClosureClickDuration && !m.clickTriggered {
			ev.Actions = append(ev.Actions, Click(ReasonEyeClosure))
			m.clickTriggered = true
		}
		if closed < ClosureClickDuration {
			m.clickTriggered = false
		}
		m.eyeCloseStart = time.Time{}
	}
}

// stepStability clicks once the combined iris position has held within
// StabilityThreshold for StableClickDuration.
func (m *Machine) stepStability(ev *Evaluation, now time.Time) {
	current := ev.IrisPosition
	if !m.hasLast {
		m.lastPosition = current
		m.hasLast = true
	}

	if math.Abs(current-m.lastPosition) < StabilityThreshold {
		if m.stableStart.IsZero() {
			m.stableStart = now
		} else if now.Sub(m.stableStart) >= StableClickDuration {
			if !m.clickTriggered {
				ev.Actions = append(ev.Actions, Click(ReasonStableGaze))
				m.clickTriggered = true
			}
			m.stableStart = time.Time{}
		}
	} else {
		m.stableStart = time.Time{}
	}

	m.lastPosition = current
}
