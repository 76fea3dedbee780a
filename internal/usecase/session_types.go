package usecase

import (
	"sync"
	"time"

	"voicenote/internal/domain"
	"voicenote/internal/ports"
)

// activeSession is the single in-progress recording. It owns the capture
// session and the pause bookkeeping until Stop consumes it.
type activeSession struct {
	id         string
	sourceNote string
	startedAt  time.Time

	mu             sync.Mutex
	capture        ports.CaptureSession
	state          domain.SessionState
	pauseStartedAt time.Time
	totalPaused    time.Duration
}

// attachCapture hands the opened capture to the session. Start claims the
// session slot before opening the capture, so the field is set after
// construction.
func (s *activeSession) attachCapture(capture ports.CaptureSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capture = capture
}

// getCapture is nil until the capture has been attached.
func (s *activeSession) getCapture() ports.CaptureSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capture
}

func (s *activeSession) setState(state domain.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *activeSession) getState() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// markPaused records the pause start. Returns false when the session is not
// recording.
func (s *activeSession) markPaused(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionStateRecording {
		return false
	}
	s.state = domain.SessionStatePaused
	s.pauseStartedAt = now
	return true
}

// markResumed folds the finished pause into the accumulated total. Returns
// false when the session is not paused.
func (s *activeSession) markResumed(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionStatePaused {
		return false
	}
	s.state = domain.SessionStateRecording
	s.totalPaused += now.Sub(s.pauseStartedAt)
	s.pauseStartedAt = time.Time{}
	return true
}

// elapsed is the recorded duration excluding pauses, never negative. Safe to
// call at any frequency; it has no side effects.
func (s *activeSession) elapsed(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := now.Sub(s.startedAt) - s.totalPaused
	if s.state == domain.SessionStatePaused {
		d -= now.Sub(s.pauseStartedAt)
	}
	if d < 0 {
		return 0
	}
	return d
}
