package usecase

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"voicenote/internal/domain"
	"voicenote/internal/note"
	"voicenote/internal/ports"
)

// sessionSnapshot is everything the pipeline needs from a consumed session.
// After Stop frees the session slot, pipeline state is local to one run.
type sessionSnapshot struct {
	id         string
	sourceNote string
	stoppedAt  time.Time
}

// notePipeline drains a finished capture into the vault: save audio,
// transcribe, format, create the transcript note, backlink, summarize.
// Each step's failure is isolated; no error escapes run.
type notePipeline struct {
	transcriber ports.Transcriber
	summarizer  ports.Summarizer
	vault       ports.Vault
	events      ports.EventSink
	cfg         Config
	logger      *zap.Logger
}

func newNotePipeline(
	transcriber ports.Transcriber,
	summarizer ports.Summarizer,
	vault ports.Vault,
	events ports.EventSink,
	cfg Config,
	logger *zap.Logger,
) notePipeline {
	return notePipeline{
		transcriber: transcriber,
		summarizer:  summarizer,
		vault:       vault,
		events:      events,
		cfg:         cfg,
		logger:      logger,
	}
}

func (p notePipeline) run(ctx context.Context, snap sessionSnapshot, capture ports.CaptureSession) domain.StopOutcome {
	var outcome domain.StopOutcome

	// A session stopped before its capture finished opening drains with an
	// empty artifact.
	var artifact domain.AudioArtifact
	if capture != nil {
		var err error
		artifact, err = capture.Stop()
		if err != nil {
			p.logger.Warn("capture finalize failed", zap.String("session_id", snap.id), zap.Error(err))
			p.events.Notice(domain.NoticeAudioStop, "audio capture did not stop cleanly")
		}
	}

	// Audio persistence is best-effort; transcription proceeds from the
	// in-memory artifact even when the write fails.
	outcome.AudioPath = p.saveAudio(snap, artifact)

	result, err := p.transcriber.Transcribe(ctx, artifact, ports.TranscribeOptions{
		APIKey:       p.cfg.Transcription.APIKey,
		LanguageCode: p.cfg.Transcription.LanguageCode,
		Accuracy:     p.cfg.Transcription.Accuracy,
	})
	if err != nil {
		p.reportTranscriptionFailure(snap, err)
		return outcome
	}

	body := note.FormatTranscript(result)
	hasTimestamps := note.HasTimestamps(result)

	notePath, ok := p.createTranscriptNote(snap, body, outcome.AudioPath)
	if !ok {
		return outcome
	}
	outcome.NotePath = notePath

	p.appendBacklink(snap, notePath)
	outcome.SummaryAppended = p.appendSummary(ctx, snap, notePath, body, hasTimestamps)

	return outcome
}

func (p notePipeline) saveAudio(snap sessionSnapshot, artifact domain.AudioArtifact) string {
	folder := p.cfg.AudioFolder
	if folder != "" && !p.vault.Exists(folder) {
		if err := p.vault.Mkdir(folder); err != nil {
			p.logger.Warn("audio folder creation failed", zap.String("folder", folder), zap.Error(err))
		}
	}

	target := note.UniquePath(p.vault.Exists, path.Join(folder, note.AudioFileName(snap.stoppedAt, artifact.Extension)))
	if err := p.vault.CreateBinary(target, artifact.Data); err != nil {
		p.logger.Warn("audio save failed",
			zap.String("session_id", snap.id),
			zap.String("path", target),
			zap.Error(err))
		p.events.Notice(domain.NoticeStorageWriteFailed, "could not save the recording audio")
		return ""
	}

	p.logger.Info("audio saved",
		zap.String("session_id", snap.id),
		zap.String("path", target),
		zap.Int("bytes", len(artifact.Data)))
	return target
}

func (p notePipeline) reportTranscriptionFailure(snap sessionSnapshot, err error) {
	p.logger.Warn("transcription failed", zap.String("session_id", snap.id), zap.Error(err))

	if errors.Is(err, domain.ErrMissingCredential) {
		p.events.Notice(domain.NoticeMissingCredential, "transcription API key is not configured")
		return
	}

	var svcErr *domain.ServiceError
	if errors.As(err, &svcErr) {
		p.events.Notice(domain.NoticeTranscriptionFailed, svcErr.Message)
		return
	}
	p.events.Notice(domain.NoticeTranscriptionFailed, err.Error())
}

func (p notePipeline) createTranscriptNote(snap sessionSnapshot, body string, audioPath string) (string, bool) {
	folder := p.cfg.TranscriptFolder
	if folder != "" && !p.vault.Exists(folder) {
		if err := p.vault.Mkdir(folder); err != nil {
			p.logger.Warn("transcript folder creation failed", zap.String("folder", folder), zap.Error(err))
		}
	}

	name := note.TranscriptFileName(sourceNoteName(snap.sourceNote), snap.stoppedAt)
	target := note.UniquePath(p.vault.Exists, path.Join(folder, name))

	content := note.BuildTranscript(note.Meta{
		SourceNote: snap.sourceNote,
		AudioFile:  audioPath,
		Created:    snap.stoppedAt,
	}, body)

	if err := p.vault.Create(target, content); err != nil {
		p.logger.Warn("transcript note creation failed",
			zap.String("session_id", snap.id),
			zap.String("path", target),
			zap.Error(err))
		p.events.Notice(domain.NoticeStorageWriteFailed, "could not create the transcript note")
		return "", false
	}

	p.logger.Info("transcript note created", zap.String("session_id", snap.id), zap.String("path", target))
	return target, true
}

func (p notePipeline) appendBacklink(snap sessionSnapshot, notePath string) {
	if snap.sourceNote == "" {
		return
	}

	content, err := p.vault.Read(snap.sourceNote)
	if err != nil {
		p.logger.Warn("source note read failed", zap.String("path", snap.sourceNote), zap.Error(err))
		p.events.Notice(domain.NoticeBacklinkFailed, "could not link the transcript to the source note")
		return
	}

	updated := note.AppendBacklink(content, note.Backlink(notePath))
	if updated == content {
		return
	}
	if err := p.vault.Modify(snap.sourceNote, updated); err != nil {
		p.logger.Warn("backlink write failed", zap.String("path", snap.sourceNote), zap.Error(err))
		p.events.Notice(domain.NoticeBacklinkFailed, "could not link the transcript to the source note")
	}
}

func (p notePipeline) appendSummary(ctx context.Context, snap sessionSnapshot, notePath string, body string, hasTimestamps bool) bool {
	summary, err := p.summarizer.Summarize(ctx, body, hasTimestamps)
	if err != nil {
		p.logger.Warn("summary generation failed", zap.String("session_id", snap.id), zap.Error(err))
		p.events.Notice(domain.NoticeSummaryFailed, "could not generate the meeting summary")
		return false
	}
	if summary == "" {
		return false
	}

	content, err := p.vault.Read(notePath)
	if err != nil {
		p.logger.Warn("transcript note read failed", zap.String("path", notePath), zap.Error(err))
		p.events.Notice(domain.NoticeSummaryFailed, "could not append the meeting summary")
		return false
	}

	updated := note.AppendSummary(content, summary)
	if updated == content {
		return false
	}
	if err := p.vault.Modify(notePath, updated); err != nil {
		p.logger.Warn("summary write failed", zap.String("path", notePath), zap.Error(err))
		p.events.Notice(domain.NoticeSummaryFailed, "could not append the meeting summary")
		return false
	}
	return true
}

func sourceNoteName(sourcePath string) string {
	if sourcePath == "" {
		return ""
	}
	base := path.Base(sourcePath)
	return strings.TrimSuffix(base, path.Ext(base))
}
