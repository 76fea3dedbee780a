package bootstrap

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"voicenote/internal/audio"
	"voicenote/internal/config"
	"voicenote/internal/domain"
	"voicenote/internal/ports"
	"voicenote/internal/providers/assemblyai"
	"voicenote/internal/providers/openai"
	"voicenote/internal/usecase"
	"voicenote/internal/vault"
)

// Services is the assembled runtime graph.
type Services struct {
	Recorder *usecase.Recorder
	Config   config.Config
	Logger   *zap.Logger
}

// Build wires all backend dependencies for the current runtime.
func Build(eventSink ports.EventSink) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return Services{}, err
	}

	store := vault.New(cfg.Vault.Dir, logger)

	transcriber := assemblyai.NewClient(assemblyai.Config{
		BaseURL: cfg.Transcription.BaseURL,
	}, logger)

	summarizer := openai.NewSummarizer(openai.Config{
		APIKey:        cfg.Summary.APIKey,
		BaseURL:       cfg.Summary.BaseURL,
		Model:         cfg.Summary.Model,
		Temperature:   cfg.Summary.Temperature,
		AutoSummarize: cfg.Summary.AutoSummarize,
	}, logger)

	recorder := usecase.NewRecorder(
		audio.NewFFMPEGCapture(cfg.Audio.RecorderCommand),
		transcriber,
		summarizer,
		store,
		eventSink,
		usecase.Config{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
			},
			AudioFolder:      cfg.Vault.AudioFolder,
			TranscriptFolder: cfg.Vault.TranscriptFolder,
			Transcription: usecase.TranscriptionSettings{
				APIKey:       cfg.Transcription.APIKey,
				LanguageCode: cfg.Transcription.LanguageCode,
				Accuracy:     domain.ParseAccuracyMode(cfg.Transcription.Accuracy),
			},
		},
		logger,
	)

	return Services{Recorder: recorder, Config: cfg, Logger: logger}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(parsed)
	return zapCfg.Build()
}
