package ports

import (
	"context"

	"voicenote/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// CaptureSession is a live microphone capture. Pause and Resume are no-ops
// when the session is not recording or not paused respectively. Stop drains
// the capture and concatenates everything read so far into one artifact;
// zero captured bytes yield an empty artifact, not an error.
type CaptureSession interface {
	Pause() error
	Resume() error
	Stop() (domain.AudioArtifact, error)
}

// AudioCapture opens microphone capture sessions. At most one session may be
// open at a time per process.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (CaptureSession, error)
}

// TranscribeOptions carries per-request transcription settings.
type TranscribeOptions struct {
	APIKey       string
	LanguageCode string
	Accuracy     domain.AccuracyMode
}

// Transcriber uploads finished audio and resolves it into a transcription
// result, polling the remote job until a terminal state.
type Transcriber interface {
	Transcribe(ctx context.Context, artifact domain.AudioArtifact, opts TranscribeOptions) (domain.TranscriptionResult, error)
}

// Summarizer turns transcript text into generated prose. An empty string
// with a nil error is a normal skip (disabled or not configured).
type Summarizer interface {
	Summarize(ctx context.Context, transcript string, hasTimestamps bool) (string, error)
}

// Vault exposes the host document store. All paths are vault-relative with
// `/` separators.
type Vault interface {
	Read(path string) (string, error)
	Create(path string, content string) error
	CreateBinary(path string, data []byte) error
	Modify(path string, content string) error
	Mkdir(path string) error
	Exists(path string) bool
}

// EventSink emits recorder state changes and transient notices to the UI.
type EventSink interface {
	SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason)
	Notice(code domain.NoticeCode, detail string)
}
