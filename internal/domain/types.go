package domain

// SessionState models the recording lifecycle.
type SessionState string

const (
	SessionStateIdle      SessionState = "idle"
	SessionStateRecording SessionState = "recording"
	SessionStatePaused    SessionState = "paused"
	SessionStateStopping  SessionState = "stopping"
)

// SessionStateReason provides a structured reason for state transitions.
type SessionStateReason string

const (
	SessionReasonReady             SessionStateReason = "ready"
	SessionReasonRecordingStarted  SessionStateReason = "recording_started"
	SessionReasonRecordingPaused   SessionStateReason = "recording_paused"
	SessionReasonRecordingResumed  SessionStateReason = "recording_resumed"
	SessionReasonProcessing        SessionStateReason = "processing"
	SessionReasonTranscriptSaved   SessionStateReason = "transcript_saved"
	SessionReasonTranscriptSkipped SessionStateReason = "transcript_skipped"
)

// NoticeCode identifies user-visible transient notices. Every pipeline
// failure is converted into one of these; none of them is fatal to the host.
type NoticeCode string

const (
	NoticeAlreadyRecording    NoticeCode = "already_recording"
	NoticeNothingRecording    NoticeCode = "nothing_recording"
	NoticeMicrophoneDenied    NoticeCode = "microphone_denied"
	NoticeAudioStop           NoticeCode = "audio_stop"
	NoticeStorageWriteFailed  NoticeCode = "storage_write_failed"
	NoticeMissingCredential   NoticeCode = "missing_credential"
	NoticeTranscriptionFailed NoticeCode = "transcription_failed"
	NoticeBacklinkFailed      NoticeCode = "backlink_failed"
	NoticeSummaryFailed       NoticeCode = "summary_failed"
	NoticeStartup             NoticeCode = "startup"
)

// AccuracyMode controls whether disfluency markers are requested from the
// transcription service.
type AccuracyMode string

const (
	AccuracyBalanced AccuracyMode = "balanced"
	AccuracyAccurate AccuracyMode = "accurate"
	AccuracyFast     AccuracyMode = "fast"
)

// ParseAccuracyMode maps a configured string onto a known mode, defaulting
// to balanced.
func ParseAccuracyMode(value string) AccuracyMode {
	switch AccuracyMode(value) {
	case AccuracyAccurate:
		return AccuracyAccurate
	case AccuracyFast:
		return AccuracyFast
	default:
		return AccuracyBalanced
	}
}

// AudioArtifact is a finished capture: raw container bytes plus codec tags.
type AudioArtifact struct {
	Data      []byte
	MIMEType  string
	Extension string
}

// Utterance is one speaker turn returned by the transcription service.
// Start is an offset in milliseconds; a nil Start, empty Speaker or empty
// Text means the service omitted that field.
type Utterance struct {
	Start   *int64 `json:"start"`
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// TranscriptionResult is the terminal output of a transcription job.
// Utterances are present only when the service diarized the audio;
// otherwise Text carries the plain transcript. Immutable once received.
type TranscriptionResult struct {
	Text       string      `json:"text"`
	Utterances []Utterance `json:"utterances"`
}

// Status summarizes the current recorder state for the UI.
type Status struct {
	State     SessionState `json:"state"`
	Active    bool         `json:"active"`
	Paused    bool         `json:"paused"`
	SessionID string       `json:"sessionId,omitempty"`
	ElapsedMs int64        `json:"elapsedMs"`
}

// StopOutcome reports what the stop pipeline managed to persist.
type StopOutcome struct {
	AudioPath       string `json:"audioPath,omitempty"`
	NotePath        string `json:"notePath,omitempty"`
	SummaryAppended bool   `json:"summaryAppended"`
}
