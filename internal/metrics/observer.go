package metrics

import (
	"math"

	"github.com/ayusman/gazectl/internal/gaze"
	"github.com/ayusman/gazectl/internal/tracking"
)

// Observer records tracking loop events in the package collectors.
type Observer struct{}

func (Observer) ObserveFrame(s tracking.Snapshot) {
	FramesEvaluated.Inc()
	setFinite(IrisPosition.Set, s.IrisPosition)
	setFinite(EyeAspectRatio.WithLabelValues("left").Set, s.LeftEAR)
	setFinite(EyeAspectRatio.WithLabelValues("right").Set, s.RightEAR)
}

func (Observer) ObserveSkip(reason string) {
	FramesSkipped.WithLabelValues(reason).Inc()
}

func (Observer) ObserveAction(a gaze.Action, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	Actions.WithLabelValues(a.Kind.String(), a.Reason, result).Inc()
}

func (Observer) ObserveState(enabled bool) {
	if enabled {
		TrackingEnabled.Set(1)
	} else {
		TrackingEnabled.Set(0)
	}
}

// setFinite drops NaN and Inf values from degenerate eye boundaries.
func setFinite(set func(float64), v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	set(v)
}
