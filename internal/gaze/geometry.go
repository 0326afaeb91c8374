// Package gaze turns eye landmarks into gaze ratios, discrete gaze events and,
// through a timed state machine, emulated input actions.
package gaze

import "math"

// Point is a pixel-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EyeBoundary holds the four landmarks that enclose one eye.
type EyeBoundary struct {
	Left   Point `json:"left"`
	Right  Point `json:"right"`
	Top    Point `json:"top"`
	Bottom Point `json:"bottom"`
}

// Iris holds the four landmarks around one iris.
type Iris [4]Point

// Eye is the boundary and iris cluster of a single eye.
type Eye struct {
	Boundary EyeBoundary `json:"boundary"`
	Iris     Iris        `json:"iris"`
}

// Ratio is the normalized iris offset within its eye boundary.
// Both axes are nominally in [0,1] with 0.5 centered, but are not clamped.
type Ratio struct {
	Horizontal float64 `json:"h"`
	Vertical   float64 `json:"v"`
}

// Mean returns the average of the two axes.
func (r Ratio) Mean() float64 {
	return (r.Horizontal + r.Vertical) / 2
}

// Centroid returns the mean of the iris landmarks.
func (i Iris) Centroid() Point {
	var c Point
	for _, p := range i {
		c.X += p.X
		c.Y += p.Y
	}
	c.X /= float64(len(i))
	c.Y /= float64(len(i))
	return c
}

// PositionRatio locates the iris centroid inside the eye boundary.
// A zero-width or zero-height boundary yields NaN or Inf, which the
// classifiers treat as centered/open.
func PositionRatio(iris Iris, b EyeBoundary) Ratio {
	c := iris.Centroid()
	return Ratio{
		Horizontal: (c.X - b.Left.X) / (b.Right.X - b.Left.X),
		Vertical:   (c.Y - b.Top.Y) / (b.Bottom.Y - b.Top.Y),
	}
}

// EyeAspectRatio is the eye opening height divided by the eye width.
// Low values indicate a closed eye.
func EyeAspectRatio(b EyeBoundary) float64 {
	return distance(b.Top, b.Bottom) / distance(b.Left, b.Right)
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
