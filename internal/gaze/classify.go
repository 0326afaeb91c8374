package gaze

import "fmt"

// Classification thresholds. These are fixed empirical values.
const (
	// Center is the ratio of a perfectly centered iris.
	Center = 0.5
	// HorizontalSensitivity is the horizontal dead zone around Center.
	HorizontalSensitivity = 0.1
	// VerticalSensitivity is the vertical dead zone around Center.
	VerticalSensitivity = 0.15
	// BlinkThreshold is the eye aspect ratio below which an eye counts as closed.
	BlinkThreshold = 0.2
)

// Direction is the discrete gaze direction of one eye.
type Direction int

const (
	DirectionCenter Direction = iota
	DirectionLeft
	DirectionRight
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "center"
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(text []byte) error {
	for c := DirectionCenter; c <= DirectionDown; c++ {
		if c.String() == string(text) {
			*d = c
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", text)
}

// BlinkState describes which eyes are closed in a frame.
type BlinkState int

const (
	BlinkNone BlinkState = iota
	BlinkLeft
	BlinkRight
	BlinkBoth
)

func (b BlinkState) String() string {
	switch b {
	case BlinkLeft:
		return "left_blink"
	case BlinkRight:
		return "right_blink"
	case BlinkBoth:
		return "both_closed"
	default:
		return "none"
	}
}

// MarshalText encodes the blink state by name.
func (b BlinkState) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText decodes a blink state name.
func (b *BlinkState) UnmarshalText(text []byte) error {
	for c := BlinkNone; c <= BlinkBoth; c++ {
		if c.String() == string(text) {
			*b = c
			return nil
		}
	}
	return fmt.Errorf("unknown blink state %q", text)
}

// ClassifyDirection maps a position ratio to a direction. The horizontal axis
// is tested first, so a diagonal deviation reports left or right.
// NaN ratios compare false everywhere and classify as center.
func ClassifyDirection(r Ratio) Direction {
	switch {
	case r.Horizontal < Center-HorizontalSensitivity:
		return DirectionLeft
	case r.Horizontal > Center+HorizontalSensitivity:
		return DirectionRight
	case r.Vertical < Center-VerticalSensitivity:
		return DirectionUp
	case r.Vertical > Center+VerticalSensitivity:
		return DirectionDown
	default:
		return DirectionCenter
	}
}

// Closed reports whether an eye aspect ratio indicates a closed eye.
func Closed(ear float64) bool {
	return ear < BlinkThreshold
}

// ClassifyBlink combines both eye aspect ratios into a blink state.
func ClassifyBlink(earLeft, earRight float64) BlinkState {
	left, right := Closed(earLeft), Closed(earRight)
	switch {
	case left && right:
		return BlinkBoth
	case left:
		return BlinkLeft
	case right:
		return BlinkRight
	default:
		return BlinkNone
	}
}
