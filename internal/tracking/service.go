// Package tracking runs the gaze tracking loop and controls its lifecycle.
//
// The Service owns the enabled flag and the loop handle. The loop owns the
// camera while it runs and all gesture timers; they are discarded when it exits.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/gazectl/internal/capture"
	"github.com/ayusman/gazectl/internal/detector"
	"github.com/ayusman/gazectl/internal/gaze"
	"github.com/ayusman/gazectl/internal/input"
)

var (
	// ErrAlreadyRunning is returned by Start while tracking is enabled.
	ErrAlreadyRunning = errors.New("tracking is already running")
	// ErrNotRunning is returned by Stop while tracking is disabled.
	ErrNotRunning = errors.New("tracking is not running")
)

// Options configures a Service.
type Options struct {
	Camera   capture.Camera
	Detector detector.Detector
	Emulator input.Emulator
	Logger   zerolog.Logger

	// ClearOnCaptureFailure makes the loop clear the enabled flag when it exits
	// because a frame could not be captured. When false the flag stays set
	// until Stop is called.
	ClearOnCaptureFailure bool

	// Clock returns the timestamp given to the gesture state machine.
	// Defaults to time.Now.
	Clock func() time.Time

	Observers []Observer
}

// Service starts and stops the tracking loop. It is safe for concurrent use.
type Service struct {
	camera         capture.Camera
	detector       detector.Detector
	emulator       input.Emulator
	logger         zerolog.Logger
	clock          func() time.Time
	clearOnFailure bool

	observers atomic.Pointer[[]Observer]

	// mu serializes Start, Stop and Close.
	mu      sync.Mutex
	enabled atomic.Bool
	// done is the handle of the last loop; it is closed when the loop has
	// exited and released the camera.
	done chan struct{}
}

// NewService creates a stopped service.
func NewService(opts Options) *Service {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	s := &Service{
		camera:         opts.Camera,
		detector:       opts.Detector,
		emulator:       opts.Emulator,
		logger:         opts.Logger.With().Str("component", "tracking").Logger(),
		clock:          clock,
		clearOnFailure: opts.ClearOnCaptureFailure,
	}
	observers := append([]Observer(nil), opts.Observers...)
	s.observers.Store(&observers)
	return s
}

// AddObserver registers o for all subsequent frames and state changes.
func (s *Service) AddObserver(o Observer) {
	for {
		old := s.observers.Load()
		next := append(append([]Observer(nil), *old...), o)
		if s.observers.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Status reports whether tracking is enabled.
func (s *Service) Status() bool {
	return s.enabled.Load()
}

// Start opens the camera and spawns the tracking loop with fresh gesture
// state. It returns ErrAlreadyRunning if tracking is enabled. If a previous
// loop is still shutting down, Start waits for it or for ctx.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.enabled.Load() {
		return ErrAlreadyRunning
	}

	if err := s.join(ctx); err != nil {
		return err
	}

	if err := s.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	done := make(chan struct{})
	s.done = done
	s.enabled.Store(true)

	s.logger.Info().Msg("tracking started")
	s.notifyState(true)

	go s.run(done, gaze.NewMachine())
	return nil
}

// Stop clears the enabled flag and waits for the loop to exit. The loop
// finishes the frame it is processing first, so Stop returns after the camera
// is released and no further frame is processed.
//
// If ctx ends first the flag stays cleared and ctx's error is returned; the
// loop exits on its own after its current frame.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled.Load() {
		return ErrNotRunning
	}
	s.enabled.Store(false)

	if err := s.join(ctx); err != nil {
		return err
	}

	s.logger.Info().Msg("tracking stopped")
	return nil
}

// Wait blocks until the current loop, if any, has exited.
// It does not change the enabled flag.
func (s *Service) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops tracking if enabled and releases the detector.
func (s *Service) Close(ctx context.Context) error {
	if err := s.Stop(ctx); err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.join(ctx); err != nil {
		return err
	}
	if s.detector != nil {
		return s.detector.Close()
	}
	return nil
}

// join waits for the last loop to exit and drops its handle.
// The caller must hold s.mu.
func (s *Service) join(ctx context.Context) error {
	if s.done == nil {
		return nil
	}
	select {
	case <-s.done:
		s.done = nil
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) notifyState(enabled bool) {
	for _, o := range *s.observers.Load() {
		o.ObserveState(enabled)
	}
}
