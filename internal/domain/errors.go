package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMicrophoneDenied means the platform refused microphone access or no
	// input device exists; no session is created.
	ErrMicrophoneDenied = errors.New("microphone access denied")

	// ErrMissingCredential short-circuits a remote stage before any network
	// call. Not fatal to the rest of the pipeline.
	ErrMissingCredential = errors.New("service API key is not configured")

	// ErrUploadFailed means the upload response lacked a reference to the
	// stored audio.
	ErrUploadFailed = errors.New("audio upload returned no upload reference")

	// ErrSubmitFailed means the transcription job request returned no id.
	ErrSubmitFailed = errors.New("transcription request returned no job id")

	// ErrTranscriptionTimeout means the polling budget was exhausted before
	// the job reached a terminal state.
	ErrTranscriptionTimeout = errors.New("transcription did not complete in time")
)

// ServiceError carries a remote service's own failure message, reported when
// a transcription job ends in the error state.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return "transcription service reported an error"
	}
	return fmt.Sprintf("transcription service reported an error: %s", e.Message)
}
