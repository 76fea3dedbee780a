// Package openai generates meeting summaries through a chat-completion
// endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"voicenote/internal/ports"
)

const systemPrompt = `You are a meeting assistant. Given a meeting transcript, produce markdown with these sections:

## Summary
A brief 2-3 sentence overview of what the meeting was about.

## Key Outcomes
Bullet points of decisions made and outcomes reached.

## Notes
Concise notes organized by topic.

## Topics
When the transcript includes timestamps, a timestamped list of the topics discussed.

## Action Items
Tasks or follow-ups, with the responsible person and due date when mentioned.

If a section has no content, omit it. Be concise but don't miss important details.`

const timestampHint = "Transcript timestamps are formatted as [HH:MM:SS].\n\n"

// Config controls the summary service endpoint and behavior.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	Temperature   float64
	AutoSummarize bool
}

// Summarizer implements ports.Summarizer. A disabled toggle or missing key
// makes Summarize a silent skip rather than a failure.
type Summarizer struct {
	cfg    Config
	client openaisdk.Client
	logger *zap.Logger
}

var _ ports.Summarizer = (*Summarizer)(nil)

func NewSummarizer(cfg Config, logger *zap.Logger) *Summarizer {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Summary generation is best-effort; a failure skips the section rather
	// than retrying.
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Summarizer{
		cfg:    cfg,
		client: openaisdk.NewClient(opts...),
		logger: logger,
	}
}

// Summarize requests generated prose for the transcript. It returns
// ("", nil) when summarization is disabled or not configured, and an error
// for transport/service failures or an empty completion; the caller treats
// errors as a skipped summary, never as a pipeline failure.
func (s *Summarizer) Summarize(ctx context.Context, transcript string, hasTimestamps bool) (string, error) {
	if !s.cfg.AutoSummarize || strings.TrimSpace(s.cfg.APIKey) == "" {
		return "", nil
	}

	userContent := transcript
	if hasTimestamps {
		userContent = timestampHint + transcript
	}

	resp, err := s.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(s.cfg.Model),
		Temperature: openaisdk.Float(s.cfg.Temperature),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(systemPrompt),
			openaisdk.UserMessage(userContent),
		},
	})
	if err != nil {
		return "", fmt.Errorf("requesting summary: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("summary service returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("summary service returned an empty completion")
	}

	s.logger.Info("summary generated", zap.Int("transcript_chars", len(transcript)), zap.Int("summary_chars", len(text)))
	return text, nil
}
