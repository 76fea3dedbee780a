package assemblyai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicenote/internal/domain"
	"voicenote/internal/ports"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func testClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:         baseURL,
		PollInterval:    time.Millisecond,
		MaxPollAttempts: 40,
	}, nil)
}

func TestTranscribeSuccess(t *testing.T) {
	t.Parallel()

	var submitted submitRequest
	var pollCount atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-key", r.Header.Get("authorization"))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/upload":
			assert.Equal(t, "application/octet-stream", r.Header.Get("content-type"))
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, []byte("audio-bytes"), body)
			writeJSON(w, map[string]string{"upload_url": "https://cdn.example/upload/abc"})

		case r.Method == http.MethodPost && r.URL.Path == "/transcript":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
			writeJSON(w, map[string]string{"id": "job-1"})

		case r.Method == http.MethodGet && r.URL.Path == "/transcript/job-1":
			n := pollCount.Add(1)
			if n < 3 {
				writeJSON(w, map[string]string{"status": "processing"})
				return
			}
			start := int64(0)
			writeJSON(w, jobStatus{
				Status: "completed",
				Text:   "Hello there",
				Utterances: []domain.Utterance{
					{Start: &start, Speaker: "A", Text: "Hello there"},
				},
			})

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := testClient(server.URL)
	result, err := client.Transcribe(context.Background(),
		domain.AudioArtifact{Data: []byte("audio-bytes"), MIMEType: "audio/wav", Extension: "wav"},
		ports.TranscribeOptions{APIKey: "secret-key", LanguageCode: "en-US", Accuracy: domain.AccuracyAccurate},
	)

	require.NoError(t, err)
	assert.Equal(t, "Hello there", result.Text)
	require.Len(t, result.Utterances, 1)
	assert.Equal(t, "A", result.Utterances[0].Speaker)

	assert.Equal(t, "https://cdn.example/upload/abc", submitted.AudioURL)
	assert.True(t, submitted.SpeakerLabels)
	assert.True(t, submitted.Punctuate)
	assert.True(t, submitted.FormatText)
	assert.False(t, submitted.DualChannel)
	assert.True(t, submitted.Disfluencies, "accurate mode requests disfluencies")
	assert.Equal(t, "en_us", submitted.LanguageCode)
	assert.Equal(t, int32(3), pollCount.Load())
}

func TestTranscribeMissingKeyShortCircuits(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Transcribe(context.Background(), domain.AudioArtifact{}, ports.TranscribeOptions{APIKey: "  "})

	assert.ErrorIs(t, err, domain.ErrMissingCredential)
	assert.Equal(t, int32(0), calls.Load(), "no network call expected")
}

func TestTranscribeUploadMissingReference(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{})
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Transcribe(context.Background(), domain.AudioArtifact{}, ports.TranscribeOptions{APIKey: "k"})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestTranscribeSubmitMissingJobID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/upload" {
			writeJSON(w, map[string]string{"upload_url": "u"})
			return
		}
		writeJSON(w, map[string]string{})
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Transcribe(context.Background(), domain.AudioArtifact{}, ports.TranscribeOptions{APIKey: "k"})

	assert.ErrorIs(t, err, domain.ErrSubmitFailed)
}

func TestTranscribeServiceErrorStopsPolling(t *testing.T) {
	t.Parallel()

	var pollCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upload":
			writeJSON(w, map[string]string{"upload_url": "u"})
		case "/transcript":
			writeJSON(w, map[string]string{"id": "job-err"})
		default:
			n := pollCount.Add(1)
			if n < 3 {
				writeJSON(w, map[string]string{"status": "queued"})
				return
			}
			writeJSON(w, map[string]string{"status": "error", "error": "audio too noisy"})
		}
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Transcribe(context.Background(), domain.AudioArtifact{}, ports.TranscribeOptions{APIKey: "k"})

	var svcErr *domain.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Contains(t, svcErr.Error(), "audio too noisy")
	assert.Equal(t, int32(3), pollCount.Load(), "polling must stop at the terminal state")
}

func TestTranscribeTimesOutAfterAttemptBudget(t *testing.T) {
	t.Parallel()

	var pollCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upload":
			writeJSON(w, map[string]string{"upload_url": "u"})
		case "/transcript":
			writeJSON(w, map[string]string{"id": "job-slow"})
		default:
			pollCount.Add(1)
			writeJSON(w, map[string]string{"status": "processing"})
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, PollInterval: time.Millisecond, MaxPollAttempts: 5}, nil)
	_, err := client.Transcribe(context.Background(), domain.AudioArtifact{}, ports.TranscribeOptions{APIKey: "k"})

	assert.ErrorIs(t, err, domain.ErrTranscriptionTimeout)
	assert.Equal(t, int32(5), pollCount.Load())
}

func TestTranscribeHonorsContextDuringPollWait(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upload":
			writeJSON(w, map[string]string{"upload_url": "u"})
		case "/transcript":
			writeJSON(w, map[string]string{"id": "job-wait"})
		default:
			writeJSON(w, map[string]string{"status": "processing"})
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, PollInterval: time.Hour, MaxPollAttempts: 40}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Transcribe(ctx, domain.AudioArtifact{}, ports.TranscribeOptions{APIKey: "k"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNormalizeLanguageCode(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":       "en_us",
		"  ":     "en_us",
		"en-US":  "en_us",
		"pt-BR":  "pt_br",
		"de":     "de",
		"ZH-cn":  "zh_cn",
	}
	for input, want := range cases {
		assert.Equal(t, want, normalizeLanguageCode(input), "input %q", input)
	}
}
