// Package detector provides face landmark detection interfaces and types for gaze tracking.
package detector

// Face mesh landmark indices following the MediaPipe convention with refined
// iris landmarks.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
const (
	NoseTip = 1

	LeftEyeOuter     = 33
	LeftEyeInner     = 133
	LeftEyeTop       = 159
	LeftEyeBottom    = 145
	LeftEyeUpperRear = 160

	RightEyeInner     = 362
	RightEyeOuter     = 263
	RightEyeTop       = 386
	RightEyeBottom    = 374
	RightEyeUpperRear = 387

	// NumLandmarks is the size of a refined face mesh (468 + 10 iris points).
	NumLandmarks = 478
)

// Eye boundary landmarks in left, right, top, bottom order.
var (
	LeftEyeBoundary  = [4]int{LeftEyeOuter, LeftEyeInner, LeftEyeTop, LeftEyeBottom}
	RightEyeBoundary = [4]int{RightEyeInner, RightEyeOuter, RightEyeTop, RightEyeBottom}
)

// Iris cluster landmarks.
var (
	LeftIris  = [4]int{469, 470, 471, 472}
	RightIris = [4]int{474, 475, 476, 477}
)

// Point2D is a normalized landmark position in [0,1] relative to the frame.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scale converts a normalized point to pixel coordinates.
func (p Point2D) Scale(width, height int) Point2D {
	return Point2D{X: p.X * float64(width), Y: p.Y * float64(height)}
}

// FaceLandmarks represents the face mesh detected for one face.
type FaceLandmarks struct {
	Points []Point2D `json:"points"`
}

// Complete reports whether the mesh includes the refined iris landmarks.
func (f *FaceLandmarks) Complete() bool {
	return f != nil && len(f.Points) >= NumLandmarks
}

// Pixel returns landmark idx scaled to a frame of the given size.
// The caller must check Complete first.
func (f *FaceLandmarks) Pixel(idx, width, height int) Point2D {
	return f.Points[idx].Scale(width, height)
}

// Pixels returns the given landmarks scaled to pixel coordinates.
func (f *FaceLandmarks) Pixels(indices [4]int, width, height int) [4]Point2D {
	var out [4]Point2D
	for i, idx := range indices {
		out[i] = f.Pixel(idx, width, height)
	}
	return out
}
