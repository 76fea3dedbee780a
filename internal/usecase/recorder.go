package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voicenote/internal/domain"
	"voicenote/internal/ports"
)

var (
	ErrNoActiveSession = errors.New("no active recording session")
	ErrSessionActive   = errors.New("a recording session is already active")
)

// TranscriptionSettings is the transcription slice of the configuration
// surface consumed by the pipeline.
type TranscriptionSettings struct {
	APIKey       string
	LanguageCode string
	Accuracy     domain.AccuracyMode
}

// Config controls recording and pipeline behavior.
type Config struct {
	Audio            ports.AudioConfig
	AudioFolder      string
	TranscriptFolder string
	Transcription    TranscriptionSettings
}

// Recorder orchestrates the recording lifecycle: a single session slot,
// pause bookkeeping, and the stop pipeline that turns a finished capture
// into a transcript note.
type Recorder struct {
	audio    ports.AudioCapture
	events   ports.EventSink
	pipeline notePipeline
	logger   *zap.Logger
	cfg      Config
	now      func() time.Time

	mu      sync.Mutex
	current *activeSession
}

func NewRecorder(
	audio ports.AudioCapture,
	transcriber ports.Transcriber,
	summarizer ports.Summarizer,
	vault ports.Vault,
	events ports.EventSink,
	cfg Config,
	logger *zap.Logger,
) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		audio:    audio,
		events:   events,
		pipeline: newNotePipeline(transcriber, summarizer, vault, events, cfg, logger),
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Start begins a new capture session, optionally associated with the note
// the recording was triggered from. Rejected while another session is
// active; the existing session is left untouched. The slot is claimed
// before the capture is opened, so concurrent Starts cannot both open one.
func (r *Recorder) Start(ctx context.Context, sourceNote string) error {
	active := &activeSession{
		id:         uuid.NewString(),
		sourceNote: sourceNote,
		startedAt:  r.now(),
		state:      domain.SessionStateRecording,
	}

	r.mu.Lock()
	if r.current != nil {
		r.mu.Unlock()
		r.events.Notice(domain.NoticeAlreadyRecording, "a recording is already in progress")
		return ErrSessionActive
	}
	r.current = active
	r.mu.Unlock()

	capture, err := r.audio.Start(ctx, r.cfg.Audio)
	if err != nil {
		r.mu.Lock()
		if r.current == active {
			r.current = nil
		}
		r.mu.Unlock()
		r.events.Notice(domain.NoticeMicrophoneDenied, err.Error())
		return err
	}
	active.attachCapture(capture)

	r.logger.Info("recording started",
		zap.String("session_id", active.id),
		zap.String("source_note", sourceNote))
	r.events.SessionStateChanged(domain.SessionStateRecording, domain.SessionReasonRecordingStarted)
	return nil
}

// Pause suspends the active recording. No-op unless currently recording.
func (r *Recorder) Pause() {
	active := r.getCurrent()
	if active == nil || !active.markPaused(r.now()) {
		return
	}
	if capture := active.getCapture(); capture != nil {
		if err := capture.Pause(); err != nil {
			r.logger.Warn("capture pause failed", zap.String("session_id", active.id), zap.Error(err))
		}
	}
	r.events.SessionStateChanged(domain.SessionStatePaused, domain.SessionReasonRecordingPaused)
}

// Resume continues a paused recording. No-op unless currently paused.
func (r *Recorder) Resume() {
	active := r.getCurrent()
	if active == nil || !active.markResumed(r.now()) {
		return
	}
	if capture := active.getCapture(); capture != nil {
		if err := capture.Resume(); err != nil {
			r.logger.Warn("capture resume failed", zap.String("session_id", active.id), zap.Error(err))
		}
	}
	r.events.SessionStateChanged(domain.SessionStateRecording, domain.SessionReasonRecordingResumed)
}

// Stop ends the active session and runs the post-capture pipeline on its
// snapshot. The session slot is freed immediately, so a new Start may begin
// while the pipeline is still draining; the two share no state.
func (r *Recorder) Stop(ctx context.Context) (domain.StopOutcome, error) {
	r.mu.Lock()
	active := r.current
	r.current = nil
	r.mu.Unlock()

	if active == nil {
		r.events.Notice(domain.NoticeNothingRecording, "no recording is running")
		return domain.StopOutcome{}, ErrNoActiveSession
	}

	active.setState(domain.SessionStateStopping)
	r.events.SessionStateChanged(domain.SessionStateStopping, domain.SessionReasonProcessing)

	outcome := r.pipeline.run(ctx, sessionSnapshot{
		id:         active.id,
		sourceNote: active.sourceNote,
		stoppedAt:  r.now(),
	}, active.getCapture())

	reason := domain.SessionReasonTranscriptSaved
	if outcome.NotePath == "" {
		reason = domain.SessionReasonTranscriptSkipped
	}
	active.setState(domain.SessionStateIdle)
	r.events.SessionStateChanged(domain.SessionStateIdle, reason)

	return outcome, nil
}

// Status reports the current session state for the UI poller.
func (r *Recorder) Status() domain.Status {
	active := r.getCurrent()
	if active == nil {
		return domain.Status{State: domain.SessionStateIdle}
	}
	state := active.getState()
	return domain.Status{
		State:     state,
		Active:    true,
		Paused:    state == domain.SessionStatePaused,
		SessionID: active.id,
		ElapsedMs: active.elapsed(r.now()).Milliseconds(),
	}
}

func (r *Recorder) getCurrent() *activeSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
