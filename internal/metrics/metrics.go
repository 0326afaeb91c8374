// Package metrics exposes tracking loop counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gazectl_frames_evaluated_total",
			Help: "Frames run through the gesture state machine",
		},
	)

	FramesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gazectl_frames_skipped_total",
			Help: "Frames skipped without advancing gesture state",
		},
		[]string{"reason"},
	)

	Actions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gazectl_actions_total",
			Help: "Input actions emitted by the gesture state machine",
		},
		[]string{"kind", "reason", "result"},
	)

	TrackingEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gazectl_tracking_enabled",
			Help: "1 while the tracking loop is enabled",
		},
	)

	IrisPosition = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gazectl_iris_position",
			Help: "Combined iris position of the last evaluated frame",
		},
	)

	EyeAspectRatio = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gazectl_eye_aspect_ratio",
			Help: "Eye aspect ratio of the last evaluated frame",
		},
		[]string{"eye"},
	)
)
