package tracking

import (
	"time"

	"github.com/ayusman/gazectl/internal/gaze"
)

// Snapshot is everything the loop derived from one evaluated frame.
type Snapshot struct {
	At time.Time `json:"at"`
	gaze.Evaluation
}

// Reasons a frame was skipped without advancing the gesture state.
const (
	SkipNoFace        = "no_face"
	SkipIncomplete    = "incomplete_mesh"
	SkipDetectorError = "detector_error"
)

// Observer receives loop events. Methods are called from the loop goroutine
// (ObserveFrame, ObserveSkip, ObserveAction) or from Start and the loop exit
// (ObserveState) and must not block.
type Observer interface {
	ObserveFrame(Snapshot)
	ObserveSkip(reason string)
	ObserveAction(a gaze.Action, err error)
	ObserveState(enabled bool)
}

// NopObserver implements Observer with no-ops. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) ObserveFrame(Snapshot)            {}
func (NopObserver) ObserveSkip(string)               {}
func (NopObserver) ObserveAction(gaze.Action, error) {}
func (NopObserver) ObserveState(bool)                {}
