package gaze

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-9

// makeEye builds a 100px wide eye whose iris sits at ratio (h, v) and whose
// eye aspect ratio equals ear.
func makeEye(h, v, ear float64) Eye {
	height := 100 * ear
	b := EyeBoundary{
		Left:   Point{X: 0, Y: 50},
		Right:  Point{X: 100, Y: 50},
		Top:    Point{X: 50, Y: 50 - height/2},
		Bottom: Point{X: 50, Y: 50 + height/2},
	}
	c := Point{X: 100 * h, Y: b.Top.Y + v*height}
	return Eye{
		Boundary: b,
		Iris: Iris{
			{X: c.X - 2, Y: c.Y},
			{X: c.X + 2, Y: c.Y},
			{X: c.X, Y: c.Y - 2},
			{X: c.X, Y: c.Y + 2},
		},
	}
}

func openFrame(h, v float64) Frame {
	return Frame{Left: makeEye(h, v, 0.3), Right: makeEye(h, v, 0.3)}
}

func closedFrame() Frame {
	return Frame{Left: makeEye(0.5, 0.5, 0.1), Right: makeEye(0.5, 0.5, 0.1)}
}

func clicks(actions []Action) int {
	n := 0
	for _, a := range actions {
		if a.Kind == ActionClick {
			n++
		}
	}
	return n
}

func TestPositionRatio(t *testing.T) {
	t.Run("centroid at boundary center is 0.5, 0.5", func(t *testing.T) {
		boundaries := []EyeBoundary{
			{Left: Point{0, 5}, Right: Point{10, 5}, Top: Point{5, 0}, Bottom: Point{5, 10}},
			{Left: Point{120, 300}, Right: Point{180, 302}, Top: Point{150, 290}, Bottom: Point{150, 312}},
			{Left: Point{-4, 1}, Right: Point{4, 1}, Top: Point{0, -1}, Bottom: Point{0, 3}},
		}
		for _, b := range boundaries {
			cx := (b.Left.X + b.Right.X) / 2
			cy := (b.Top.Y + b.Bottom.Y) / 2
			iris := Iris{{cx - 1, cy}, {cx + 1, cy}, {cx, cy - 1}, {cx, cy + 1}}

			r := PositionRatio(iris, b)
			assert.InDelta(t, 0.5, r.Horizontal, epsilon)
			assert.InDelta(t, 0.5, r.Vertical, epsilon)
		}
	})

	t.Run("ratio is not clamped", func(t *testing.T) {
		b := EyeBoundary{Left: Point{0, 5}, Right: Point{10, 5}, Top: Point{5, 0}, Bottom: Point{5, 10}}
		iris := Iris{{15, -5}, {15, -5}, {15, -5}, {15, -5}}

		r := PositionRatio(iris, b)
		assert.InDelta(t, 1.5, r.Horizontal, epsilon)
		assert.InDelta(t, -0.5, r.Vertical, epsilon)
	})

	t.Run("degenerate boundary propagates NaN or Inf", func(t *testing.T) {
		b := EyeBoundary{Left: Point{5, 5}, Right: Point{5, 5}, Top: Point{5, 5}, Bottom: Point{5, 5}}
		iris := Iris{{5, 5}, {5, 5}, {5, 5}, {5, 5}}

		r := PositionRatio(iris, b)
		assert.True(t, math.IsNaN(r.Horizontal))
		assert.True(t, math.IsNaN(r.Vertical))
		assert.Equal(t, DirectionCenter, ClassifyDirection(r))
	})
}

func TestEyeAspectRatio(t *testing.T) {
	b := EyeBoundary{Left: Point{0, 0}, Right: Point{40, 0}, Top: Point{20, -6}, Bottom: Point{20, 6}}
	assert.InDelta(t, 0.3, EyeAspectRatio(b), epsilon)

	degenerate := EyeBoundary{}
	ear := EyeAspectRatio(degenerate)
	assert.True(t, math.IsNaN(ear))
	assert.False(t, Closed(ear), "NaN must not count as closed")
}

func TestClassifyDirection(t *testing.T) {
	tests := []struct {
		name string
		h, v float64
		want Direction
	}{
		{"left", 0.35, 0.5, DirectionLeft},
		{"right", 0.65, 0.5, DirectionRight},
		{"down", 0.5, 0.7, DirectionDown},
		{"up", 0.5, 0.3, DirectionUp},
		{"center just inside horizontal band", 0.41, 0.5, DirectionCenter},
		{"center", 0.5, 0.5, DirectionCenter},
		{"horizontal dominates diagonal", 0.2, 0.9, DirectionLeft},
		{"horizontal dominates diagonal right", 0.8, 0.1, DirectionRight},
		{"NaN is center", math.NaN(), math.NaN(), DirectionCenter},
		{"Inf horizontal is right", math.Inf(1), 0.5, DirectionRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDirection(Ratio{Horizontal: tt.h, Vertical: tt.v}))
		})
	}
}

func TestClassifyBlink(t *testing.T) {
	assert.Equal(t, BlinkLeft, ClassifyBlink(0.1, 0.3))
	assert.Equal(t, BlinkRight, ClassifyBlink(0.3, 0.1))
	assert.Equal(t, BlinkBoth, ClassifyBlink(0.1, 0.1))
	assert.Equal(t, BlinkNone, ClassifyBlink(0.3, 0.3))
	assert.Equal(t, BlinkNone, ClassifyBlink(0.2, 0.2), "threshold itself is open")
	assert.Equal(t, BlinkNone, ClassifyBlink(math.NaN(), math.NaN()))
}

func TestVerticalScroll(t *testing.T) {
	a, ok := VerticalScroll(DirectionDown)
	require.True(t, ok)
	assert.Equal(t, -100, a.Amount)

	a, ok = VerticalScroll(DirectionUp)
	require.True(t, ok)
	assert.Equal(t, 100, a.Amount)

	_, ok = VerticalScroll(DirectionLeft)
	assert.False(t, ok)
}

func TestMachine_DirectionalScroll(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("left gaze scrolls up", func(t *testing.T) {
		m := NewMachine()
		ev := m.Step(openFrame(0.3, 0.5), now)
		require.Len(t, ev.Actions, 1)
		assert.Equal(t, Scroll(25, ReasonGazeLeft), ev.Actions[0])
	})

	t.Run("right gaze scrolls down", func(t *testing.T) {
		m := NewMachine()
		ev := m.Step(openFrame(0.7, 0.5), now)
		require.Len(t, ev.Actions, 1)
		assert.Equal(t, Scroll(-25, ReasonGazeRight), ev.Actions[0])
	})

	t.Run("one eye left is enough", func(t *testing.T) {
		m := NewMachine()
		f := Frame{Left: makeEye(0.5, 0.5, 0.3), Right: makeEye(0.3, 0.5, 0.3)}
		ev := m.Step(f, now)
		require.Len(t, ev.Actions, 1)
		assert.Equal(t, 25, ev.Actions[0].Amount)
	})

	t.Run("left wins over right", func(t *testing.T) {
		m := NewMachine()
		f := Frame{Left: makeEye(0.7, 0.5, 0.3), Right: makeEye(0.3, 0.5, 0.3)}
		ev := m.Step(f, now)
		require.Len(t, ev.Actions, 1)
		assert.Equal(t, 25, ev.Actions[0].Amount)
	})

	t.Run("vertical gaze does not scroll", func(t *testing.T) {
		m := NewMachine()
		ev := m.Step(openFrame(0.5, 0.9), now)
		assert.Equal(t, DirectionDown, ev.LeftDirection)
		assert.Empty(t, ev.Actions)
	})
}

func TestMachine_BlinkNudge(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMachine()

	leftClosed := Frame{Left: makeEye(0.5, 0.5, 0.1), Right: makeEye(0.5, 0.5, 0.3)}
	for i := 0; i < 3; i++ {
		ev := m.Step(leftClosed, now.Add(time.Duration(i)*100*time.Millisecond))
		require.NotEmpty(t, ev.Actions)
		assert.Equal(t, Move(-40, 0, ReasonLeftBlink), ev.Actions[0], "nudge repeats every frame")
	}

	rightClosed := Frame{Left: makeEye(0.5, 0.5, 0.3), Right: makeEye(0.5, 0.5, 0.1)}
	ev := m.Step(rightClosed, now.Add(time.Second))
	require.NotEmpty(t, ev.Actions)
	assert.Equal(t, Move(40, 0, ReasonRightBlink), ev.Actions[0])

	ev = m.Step(closedFrame(), now.Add(1100*time.Millisecond))
	assert.Empty(t, ev.Actions, "both closed neither nudges nor scrolls")
}

func TestMachine_ClosureClick(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMachine()
	total := 0

	// closed for 3.5s
	for ms := 0; ms <= 3500; ms += 100 {
		ev := m.Step(closedFrame(), start.Add(time.Duration(ms)*time.Millisecond))
		assert.Zero(t, clicks(ev.Actions), "no click while closed")
		total += clicks(ev.Actions)
	}

	ev := m.Step(openFrame(0.5, 0.5), start.Add(3600*time.Millisecond))
	require.Equal(t, 1, clicks(ev.Actions), "click at reopening")
	assert.Equal(t, ReasonEyeClosure, ev.Actions[0].Reason)
	total++

	// short closure within 1s
	m.Step(closedFrame(), start.Add(3700*time.Millisecond))
	m.Step(closedFrame(), start.Add(4000*time.Millisecond))
	ev = m.Step(openFrame(0.5, 0.5), start.Add(4200*time.Millisecond))
	assert.Zero(t, clicks(ev.Actions))

	assert.Equal(t, 1, total)
}

func TestMachine_ClosureIsMeasuredPerEpisode(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMachine()

	// rapid alternating blinks over 4s never accumulate closure time
	for ms := 0; ms < 4000; ms += 200 {
		f := openFrame(0.5, 0.5)
		if (ms/200)%2 == 0 {
			f = closedFrame()
		}
		ev := m.Step(f, start.Add(time.Duration(ms)*time.Millisecond))
		assert.Zero(t, clicks(ev.Actions), "frame at %dms", ms)
	}
}

func TestMachine_StabilityClick(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMachine()
	total := 0
	var clickAt time.Duration

	for ms := 0; ms <= 5200; ms += 100 {
		ev := m.Step(openFrame(0.5, 0.5), start.Add(time.Duration(ms)*time.Millisecond))
		if n := clicks(ev.Actions); n > 0 {
			total += n
			clickAt = time.Duration(ms) * time.Millisecond
			assert.Equal(t, ReasonStableGaze, ev.Actions[len(ev.Actions)-1].Reason)
		}
	}

	assert.Equal(t, 1, total)
	assert.Equal(t, 5*time.Second, clickAt)
}

func TestMachine_StabilityBrokenByJump(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMachine()

	for ms := 0; ms <= 4900; ms += 100 {
		m.Step(openFrame(0.5, 0.5), start.Add(time.Duration(ms)*time.Millisecond))
	}
	// combined position jumps by 0.6
	ev := m.Step(openFrame(1.1, 1.1), start.Add(5000*time.Millisecond))
	assert.Zero(t, clicks(ev.Actions))

	pos, ok := m.LastPosition()
	require.True(t, ok)
	assert.InDelta(t, 1.1, pos, epsilon)

	ev = m.Step(openFrame(1.1, 1.1), start.Add(5100*time.Millisecond))
	assert.Zero(t, clicks(ev.Actions), "stable timer restarted")
}

func TestMachine_SharedTriggerFlag(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMachine()
	total := 0

	// first stability click at 5s
	for ms := 0; ms <= 5000; ms += 100 {
		total += clicks(m.Step(openFrame(0.5, 0.5), start.Add(time.Duration(ms)*time.Millisecond)).Actions)
	}
	require.Equal(t, 1, total)

	// a second full window does not click while the flag is set
	for ms := 5100; ms <= 10500; ms += 100 {
		total += clicks(m.Step(openFrame(0.5, 0.5), start.Add(time.Duration(ms)*time.Millisecond)).Actions)
	}
	assert.Equal(t, 1, total)

	// a short blink clears the shared flag
	m.Step(closedFrame(), start.Add(10600*time.Millisecond))
	m.Step(openFrame(0.5, 0.5), start.Add(10700*time.Millisecond))

	for ms := 10800; ms <= 16000; ms += 100 {
		total += clicks(m.Step(openFrame(0.5, 0.5), start.Add(time.Duration(ms)*time.Millisecond)).Actions)
	}
	assert.Equal(t, 2, total)
}

func TestMachine_Reset(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMachine()
	m.Step(closedFrame(), now)

	m.Reset()
	_, ok := m.LastPosition()
	assert.False(t, ok)
	assert.Equal(t, Machine{}, *m)
}

func TestEvaluationJSON(t *testing.T) {
	ev := Evaluation{
		LeftDirection:  DirectionLeft,
		RightDirection: DirectionDown,
		Blink:          BlinkRight,
		Actions:        []Action{Move(CursorNudge, 0, ReasonRightBlink)},
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"left_direction":"left"`)
	assert.Contains(t, string(data), `"blink":"right_blink"`)
	assert.Contains(t, string(data), `"kind":"move"`)

	var back Evaluation
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ev, back)

	var d Direction
	assert.Error(t, d.UnmarshalText([]byte("sideways")))
}
