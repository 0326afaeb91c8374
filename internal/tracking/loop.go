package tracking

import (
	"github.com/ayusman/gazectl/internal/gaze"
	"github.com/ayusman/gazectl/internal/input"

	"gocv.io/x/gocv"
)

// run is the tracking loop. It checks the enabled flag once per frame and
// exits when the flag is cleared or a frame cannot be captured.
func (s *Service) run(done chan struct{}, machine *gaze.Machine) {
	defer close(done)
	defer s.exit()

	for s.enabled.Load() {
		frame, err := s.camera.ReadFrame()
		if err != nil {
			s.logger.Error().Err(err).Msg("frame capture failed, tracking loop exiting")
			if s.clearOnFailure {
				s.enabled.Store(false)
			}
			return
		}

		s.process(frame, machine)
		frame.Close()
	}
}

// exit releases the camera before the loop handle is closed.
func (s *Service) exit() {
	if err := s.camera.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("close camera")
	}
	s.notifyState(s.enabled.Load())
}

// process runs one frame through detection, the gesture state machine and
// input emulation. Frames without a usable face leave the machine untouched.
func (s *Service) process(frame *gocv.Mat, machine *gaze.Machine) {
	observers := *s.observers.Load()

	faces, err := s.detector.Detect(frame)
	if err != nil {
		s.logger.Warn().Err(err).Msg("face detection failed")
		skip(observers, SkipDetectorError)
		return
	}
	if len(faces) == 0 {
		skip(observers, SkipNoFace)
		return
	}
	face := &faces[0]
	if !face.Complete() {
		skip(observers, SkipIncomplete)
		return
	}

	now := s.clock()
	ev := machine.Step(ExtractFrame(face, frame.Cols(), frame.Rows()), now)

	for _, a := range ev.Actions {
		err := input.Dispatch(s.emulator, a)
		if err != nil {
			s.logger.Warn().Err(err).Stringer("action", a).Msg("input emulation failed")
		} else {
			s.logger.Debug().Stringer("action", a).Msg("action")
		}
		for _, o := range observers {
			o.ObserveAction(a, err)
		}
	}

	snap := Snapshot{At: now, Evaluation: ev}
	for _, o := range observers {
		o.ObserveFrame(snap)
	}
}

func skip(observers []Observer, reason string) {
	for _, o := range observers {
		o.ObserveSkip(reason)
	}
}
