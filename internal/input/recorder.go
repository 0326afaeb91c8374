package input

import (
	"sync"

	"github.com/ayusman/gazectl/internal/gaze"
)

// Recorder is an Emulator that remembers every call.
type Recorder struct {
	mu      sync.Mutex
	actions []gaze.Action
	err     error
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith makes every subsequent call record the action and return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) Scroll(amount int) error {
	return r.record(gaze.Action{Kind: gaze.ActionScroll, Amount: amount})
}

func (r *Recorder) MoveCursorRelative(dx, dy int) error {
	return r.record(gaze.Action{Kind: gaze.ActionMove, DX: dx, DY: dy})
}

func (r *Recorder) Click() error {
	return r.record(gaze.Action{Kind: gaze.ActionClick})
}

func (r *Recorder) record(a gaze.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
	return r.err
}

// Actions returns the recorded calls. Reasons are not recorded.
func (r *Recorder) Actions() []gaze.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]gaze.Action(nil), r.actions...)
}

// Count returns how many calls of the given kind were recorded.
func (r *Recorder) Count(kind gaze.ActionKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}
