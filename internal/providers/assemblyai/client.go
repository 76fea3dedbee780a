// Package assemblyai implements the batch upload-and-poll transcription
// protocol.
package assemblyai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"voicenote/internal/domain"
	"voicenote/internal/ports"
)

const (
	defaultBaseURL = "https://api.assemblyai.com/v2"

	// The job is polled at a constant interval with a fixed attempt budget
	// (~120s ceiling). The service exposes no rate-limit signal, so there is
	// nothing for a backoff to react to.
	defaultPollInterval    = 3 * time.Second
	defaultMaxPollAttempts = 40

	defaultLanguageCode = "en_us"
)

// Config controls the transcription endpoint and polling cadence. Interval
// and attempts exist as fields so tests can shorten them; production wiring
// keeps the defaults.
type Config struct {
	BaseURL         string
	PollInterval    time.Duration
	MaxPollAttempts int
}

// Client implements ports.Transcriber against the REST protocol.
type Client struct {
	http   *resty.Client
	cfg    Config
	logger *zap.Logger
}

var _ ports.Transcriber = (*Client)(nil)

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = defaultMaxPollAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:   resty.New().SetBaseURL(cfg.BaseURL),
		cfg:    cfg,
		logger: logger,
	}
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type submitRequest struct {
	AudioURL      string `json:"audio_url"`
	SpeakerLabels bool   `json:"speaker_labels"`
	LanguageCode  string `json:"language_code"`
	Punctuate     bool   `json:"punctuate"`
	FormatText    bool   `json:"format_text"`
	DualChannel   bool   `json:"dual_channel"`
	Disfluencies  bool   `json:"disfluencies"`
}

type submitResponse struct {
	ID string `json:"id"`
}

type jobStatus struct {
	Status     string             `json:"status"`
	Text       string             `json:"text"`
	Utterances []domain.Utterance `json:"utterances"`
	Error      string             `json:"error"`
}

// Transcribe uploads the artifact, submits a transcription job and polls it
// to a terminal state. A missing API key short-circuits before any network
// call.
func (c *Client) Transcribe(ctx context.Context, artifact domain.AudioArtifact, opts ports.TranscribeOptions) (domain.TranscriptionResult, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return domain.TranscriptionResult{}, domain.ErrMissingCredential
	}

	uploadRef, err := c.upload(ctx, artifact, opts.APIKey)
	if err != nil {
		return domain.TranscriptionResult{}, err
	}

	jobID, err := c.submit(ctx, uploadRef, opts)
	if err != nil {
		return domain.TranscriptionResult{}, err
	}

	c.logger.Info("transcription job submitted",
		zap.String("job_id", jobID),
		zap.Int("audio_bytes", len(artifact.Data)))

	return c.poll(ctx, jobID, opts.APIKey)
}

func (c *Client) upload(ctx context.Context, artifact domain.AudioArtifact, apiKey string) (string, error) {
	var parsed uploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("authorization", apiKey).
		SetHeader("content-type", "application/octet-stream").
		SetBody(artifact.Data).
		SetResult(&parsed).
		Post("/upload")
	if err != nil {
		return "", fmt.Errorf("uploading audio: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: service returned %s", domain.ErrUploadFailed, resp.Status())
	}
	if parsed.UploadURL == "" {
		return "", domain.ErrUploadFailed
	}
	return parsed.UploadURL, nil
}

func (c *Client) submit(ctx context.Context, uploadRef string, opts ports.TranscribeOptions) (string, error) {
	var parsed submitResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("authorization", opts.APIKey).
		SetBody(submitRequest{
			AudioURL:      uploadRef,
			SpeakerLabels: true,
			LanguageCode:  normalizeLanguageCode(opts.LanguageCode),
			Punctuate:     true,
			FormatText:    true,
			DualChannel:   false,
			Disfluencies:  opts.Accuracy == domain.AccuracyAccurate,
		}).
		SetResult(&parsed).
		Post("/transcript")
	if err != nil {
		return "", fmt.Errorf("submitting transcription job: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: service returned %s", domain.ErrSubmitFailed, resp.Status())
	}
	if parsed.ID == "" {
		return "", domain.ErrSubmitFailed
	}
	return parsed.ID, nil
}

func (c *Client) poll(ctx context.Context, jobID string, apiKey string) (domain.TranscriptionResult, error) {
	for attempt := 1; attempt <= c.cfg.MaxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return domain.TranscriptionResult{}, ctx.Err()
		case <-time.After(c.cfg.PollInterval):
		}

		var parsed jobStatus
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("authorization", apiKey).
			SetResult(&parsed).
			Get(fmt.Sprintf("/transcript/%s", jobID))
		if err != nil {
			return domain.TranscriptionResult{}, fmt.Errorf("polling transcription job: %w", err)
		}
		if resp.IsError() {
			return domain.TranscriptionResult{}, fmt.Errorf("polling transcription job: service returned %s", resp.Status())
		}

		switch parsed.Status {
		case "completed":
			return domain.TranscriptionResult{Text: parsed.Text, Utterances: parsed.Utterances}, nil
		case "error":
			return domain.TranscriptionResult{}, &domain.ServiceError{Message: parsed.Error}
		}

		c.logger.Debug("transcription job pending",
			zap.String("job_id", jobID),
			zap.String("status", parsed.Status),
			zap.Int("attempt", attempt))
	}

	return domain.TranscriptionResult{}, domain.ErrTranscriptionTimeout
}

func normalizeLanguageCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return defaultLanguageCode
	}
	return strings.ReplaceAll(strings.ToLower(code), "-", "_")
}
