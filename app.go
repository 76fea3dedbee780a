package main

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"voicenote/internal/bootstrap"
	"voicenote/internal/config"
	"voicenote/internal/domain"
	"voicenote/internal/usecase"
)

const (
	eventSession = "voicenote:session"
	eventNotice  = "voicenote:notice"
)

// App is the Wails application root.
type App struct {
	ctx context.Context

	recorder *usecase.Recorder
	cfg      config.Config
	bootErr  error
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a)
	if err != nil {
		a.bootErr = err
		a.Notice(domain.NoticeStartup, err.Error())
		return
	}

	a.cfg = services.Config
	a.recorder = services.Recorder
	a.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonReady)
}

// StartRecording begins a capture session, optionally tied to the note the
// recording was triggered from.
func (a *App) StartRecording(sourceNote string) (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.recorder.Start(a.ctx, sourceNote); err != nil {
		return domain.Status{}, err
	}
	return a.recorder.Status(), nil
}

// PauseRecording suspends the active recording.
func (a *App) PauseRecording() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	a.recorder.Pause()
	return a.recorder.Status(), nil
}

// ResumeRecording continues a paused recording.
func (a *App) ResumeRecording() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	a.recorder.Resume()
	return a.recorder.Status(), nil
}

// StopRecording ends the session and runs the transcript pipeline.
func (a *App) StopRecording() (domain.StopOutcome, error) {
	if err := a.requireReady(); err != nil {
		return domain.StopOutcome{}, err
	}
	return a.recorder.Stop(a.ctx)
}

// GetStatus returns the current session status for the UI poller.
func (a *App) GetStatus() domain.Status {
	if a.recorder == nil {
		return domain.Status{State: domain.SessionStateIdle}
	}
	return a.recorder.Status()
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}

	return map[string]string{
		"vaultDir":         a.cfg.Vault.Dir,
		"audioFolder":      a.cfg.Vault.AudioFolder,
		"transcriptFolder": a.cfg.Vault.TranscriptFolder,
		"language":         a.cfg.Transcription.LanguageCode,
		"accuracy":         a.cfg.Transcription.Accuracy,
		"summaryModel":     a.cfg.Summary.Model,
		"audioInput":       a.cfg.Audio.InputDevice,
		"audioInputFormat": a.cfg.Audio.InputFormat,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.recorder == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// SessionStateChanged emits session lifecycle updates to the frontend.
func (a *App) SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventSession, map[string]string{
		"state":   string(state),
		"reason":  string(reason),
		"message": sessionReasonMessage(reason),
	})
}

// Notice emits non-fatal pipeline warnings to the UI.
func (a *App) Notice(code domain.NoticeCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventNotice, map[string]string{
		"code":    string(code),
		"message": noticeMessage(code, detail),
		"detail":  detail,
	})
}

func sessionReasonMessage(reason domain.SessionStateReason) string {
	switch reason {
	case domain.SessionReasonReady:
		return "Ready"
	case domain.SessionReasonRecordingStarted:
		return "Recording started"
	case domain.SessionReasonRecordingPaused:
		return "Recording paused"
	case domain.SessionReasonRecordingResumed:
		return "Recording resumed"
	case domain.SessionReasonProcessing:
		return "Recording stopped. Processing..."
	case domain.SessionReasonTranscriptSaved:
		return "Transcript saved"
	case domain.SessionReasonTranscriptSkipped:
		return "Recording finished without a transcript"
	default:
		return ""
	}
}

func noticeMessage(code domain.NoticeCode, detail string) string {
	switch code {
	case domain.NoticeStartup:
		return "Startup failed"
	case domain.NoticeAlreadyRecording:
		return "A recording is already in progress"
	case domain.NoticeNothingRecording:
		return "No recording is running"
	case domain.NoticeMicrophoneDenied:
		return "Microphone unavailable"
	case domain.NoticeAudioStop:
		return "Audio stop issue"
	case domain.NoticeStorageWriteFailed:
		return "Could not write to the vault"
	case domain.NoticeMissingCredential:
		return "Transcription API key is not configured"
	case domain.NoticeTranscriptionFailed:
		return "Transcription failed"
	case domain.NoticeBacklinkFailed:
		return "Could not link the transcript"
	case domain.NoticeSummaryFailed:
		return "Summary generation failed"
	default:
		if detail == "" {
			return "Unknown issue"
		}
		return detail
	}
}
