package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// Detector defines the interface for face landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected face landmarks.
	// Returns an empty slice if no faces are detected.
	Detect(frame *gocv.Mat) ([]FaceLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for face mesh detection.
type Config struct {
	// ScriptPath is the face mesh service script. Empty means search the usual locations.
	ScriptPath string

	// PythonPath is the interpreter used to run the script. Empty means search for a venv.
	PythonPath string

	// MaxFaces is the maximum number of faces to detect (default: 1).
	MaxFaces int

	// RefineLandmarks enables the iris landmarks (required for gaze tracking).
	RefineLandmarks bool

	// MinDetectionConf is the minimum detection confidence threshold (0.0-1.0).
	MinDetectionConf float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// IdleTimeout stops the subprocess after this long without a frame.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxFaces:         1,
		RefineLandmarks:  true,
		MinDetectionConf: 0.7,
		MinTrackingConf:  0.7,
		IdleTimeout:      30 * time.Second,
	}
}
