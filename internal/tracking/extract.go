package tracking

import (
	"github.com/ayusman/gazectl/internal/detector"
	"github.com/ayusman/gazectl/internal/gaze"
)

// ExtractFrame scales the eye and iris landmarks of face to a frame of the
// given size. The face must be complete.
func ExtractFrame(face *detector.FaceLandmarks, width, height int) gaze.Frame {
	return gaze.Frame{
		Left:  extractEye(face, detector.LeftEyeBoundary, detector.LeftIris, width, height),
		Right: extractEye(face, detector.RightEyeBoundary, detector.RightIris, width, height),
	}
}

func extractEye(face *detector.FaceLandmarks, boundary, iris [4]int, width, height int) gaze.Eye {
	b := face.Pixels(boundary, width, height)
	var eye gaze.Eye
	eye.Boundary = gaze.EyeBoundary{
		Left:   point(b[0]),
		Right:  point(b[1]),
		Top:    point(b[2]),
		Bottom: point(b[3]),
	}
	for i, p := range face.Pixels(iris, width, height) {
		eye.Iris[i] = point(p)
	}
	return eye
}

func point(p detector.Point2D) gaze.Point {
	return gaze.Point{X: p.X, Y: p.Y}
}
