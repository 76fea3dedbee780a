package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config stores runtime configuration for the recorder and its pipeline.
type Config struct {
	Vault         VaultConfig         `mapstructure:"vault"`
	Audio         AudioConfig         `mapstructure:"audio"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Summary       SummaryConfig       `mapstructure:"summary"`
	Log           LogConfig           `mapstructure:"log"`
}

type VaultConfig struct {
	Dir              string `mapstructure:"dir"`
	AudioFolder      string `mapstructure:"audio_folder"`
	TranscriptFolder string `mapstructure:"transcript_folder"`
}

type AudioConfig struct {
	RecorderCommand string `mapstructure:"recorder_command"`
	InputFormat     string `mapstructure:"input_format"`
	InputDevice     string `mapstructure:"input_device"`
	SampleRate      int    `mapstructure:"sample_rate"`
	Channels        int    `mapstructure:"channels"`
}

type TranscriptionConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	LanguageCode string `mapstructure:"language_code"`
	Accuracy     string `mapstructure:"accuracy"`
}

type SummaryConfig struct {
	APIKey        string  `mapstructure:"api_key"`
	BaseURL       string  `mapstructure:"base_url"`
	Model         string  `mapstructure:"model"`
	Temperature   float64 `mapstructure:"temperature"`
	AutoSummarize bool    `mapstructure:"auto_summarize"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load resolves configuration from an optional config file and VOICENOTE_*
// environment variables, with sensible defaults for everything else. The
// config file lives at ~/.config/voicenote/config.yaml unless
// VOICENOTE_CONFIG_FILE points elsewhere.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, errors.New("could not determine home directory")
	}

	v := viper.New()
	setDefaults(v, home)

	v.SetEnvPrefix("VOICENOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := strings.TrimSpace(os.Getenv("VOICENOTE_CONFIG_FILE"))
	if file == "" {
		file = filepath.Join(home, ".config", "voicenote", "config.yaml")
	}
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Summary.Temperature < 0 || cfg.Summary.Temperature > 2 {
		cfg.Summary.Temperature = 0.3
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("vault.dir", filepath.Join(home, "Notes"))
	v.SetDefault("vault.audio_folder", "Recordings")
	v.SetDefault("vault.transcript_folder", "Transcripts")

	v.SetDefault("audio.recorder_command", "ffmpeg")
	v.SetDefault("audio.input_format", "pulse")
	v.SetDefault("audio.input_device", "default")
	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("audio.channels", 1)

	v.SetDefault("transcription.api_key", "")
	v.SetDefault("transcription.base_url", "https://api.assemblyai.com/v2")
	v.SetDefault("transcription.language_code", "")
	v.SetDefault("transcription.accuracy", "balanced")

	v.SetDefault("summary.api_key", "")
	v.SetDefault("summary.base_url", "")
	v.SetDefault("summary.model", "gpt-4o-mini")
	v.SetDefault("summary.temperature", 0.3)
	v.SetDefault("summary.auto_summarize", true)

	v.SetDefault("log.level", "info")
}
