package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// Faces can be preset for every call or queued one result per call.
type MockDetector struct {
	mu     sync.Mutex
	faces  []FaceLandmarks
	queue  [][]FaceLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFaces sets the faces returned by Detect when the queue is empty.
func (m *MockDetector) SetFaces(faces []FaceLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faces = faces
}

// Queue appends per-call results. A nil entry means no face for that frame.
func (m *MockDetector) Queue(results ...[]FaceLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, results...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next queued result, the preset faces or the error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]FaceLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.faces, nil
}

// Calls returns the number of Detect calls.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// EyeShape describes a synthetic eye for SyntheticFace. Offsets are in
// normalized frame units relative to the eye center.
type EyeShape struct {
	// H and V place the iris centroid inside the boundary, 0.5 is centered.
	H, V float64
	// Openness is the eye height divided by its width.
	Openness float64
}

// OpenEye is a centered, open eye.
var OpenEye = EyeShape{H: 0.5, V: 0.5, Openness: 0.4}

// ClosedEye is a centered eye below the blink threshold.
var ClosedEye = EyeShape{H: 0.5, V: 0.5, Openness: 0.1}

// SyntheticFace builds a complete face mesh whose eye and iris landmarks
// describe the two given eyes. All other points sit at the frame center.
// Image-left eye spans x 0.30..0.40, image-right eye spans x 0.60..0.70.
func SyntheticFace(left, right EyeShape) FaceLandmarks {
	points := make([]Point2D, NumLandmarks)
	for i := range points {
		points[i] = Point2D{X: 0.5, Y: 0.5}
	}
	placeEye(points, LeftEyeBoundary, LeftIris, 0.30, left)
	placeEye(points, RightEyeBoundary, RightIris, 0.60, right)
	points[LeftEyeUpperRear] = points[LeftEyeTop]
	points[RightEyeUpperRear] = points[RightEyeTop]
	return FaceLandmarks{Points: points}
}

func placeEye(points []Point2D, boundary, iris [4]int, x0 float64, shape EyeShape) {
	const width = 0.10
	const cy = 0.40
	height := width * shape.Openness
	top := cy - height/2

	points[boundary[0]] = Point2D{X: x0, Y: cy}
	points[boundary[1]] = Point2D{X: x0 + width, Y: cy}
	points[boundary[2]] = Point2D{X: x0 + width/2, Y: top}
	points[boundary[3]] = Point2D{X: x0 + width/2, Y: top + height}

	center := Point2D{X: x0 + width*shape.H, Y: top + height*shape.V}
	const r = 0.005
	points[iris[0]] = Point2D{X: center.X + r, Y: center.Y}
	points[iris[1]] = Point2D{X: center.X, Y: center.Y - r}
	points[iris[2]] = Point2D{X: center.X - r, Y: center.Y}
	points[iris[3]] = Point2D{X: center.X, Y: center.Y + r}
}
