package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Vault.Dir != filepath.Join(home, "Notes") {
		t.Fatalf("unexpected vault dir: %q", cfg.Vault.Dir)
	}
	if cfg.Vault.AudioFolder != "Recordings" || cfg.Vault.TranscriptFolder != "Transcripts" {
		t.Fatalf("unexpected vault folders: %+v", cfg.Vault)
	}
	if cfg.Audio.RecorderCommand != "ffmpeg" || cfg.Audio.SampleRate != 16000 || cfg.Audio.Channels != 1 {
		t.Fatalf("unexpected audio config: %+v", cfg.Audio)
	}
	if cfg.Transcription.BaseURL != "https://api.assemblyai.com/v2" || cfg.Transcription.Accuracy != "balanced" {
		t.Fatalf("unexpected transcription config: %+v", cfg.Transcription)
	}
	if cfg.Summary.Model != "gpt-4o-mini" || cfg.Summary.Temperature != 0.3 || !cfg.Summary.AutoSummarize {
		t.Fatalf("unexpected summary config: %+v", cfg.Summary)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("unexpected log level: %q", cfg.Log.Level)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VOICENOTE_VAULT_DIR", "/data/vault")
	t.Setenv("VOICENOTE_VAULT_AUDIO_FOLDER", "Audio")
	t.Setenv("VOICENOTE_TRANSCRIPTION_API_KEY", "aai-key")
	t.Setenv("VOICENOTE_TRANSCRIPTION_LANGUAGE_CODE", "en-US")
	t.Setenv("VOICENOTE_TRANSCRIPTION_ACCURACY", "accurate")
	t.Setenv("VOICENOTE_SUMMARY_API_KEY", "oai-key")
	t.Setenv("VOICENOTE_SUMMARY_MODEL", "gpt-4o")
	t.Setenv("VOICENOTE_SUMMARY_AUTO_SUMMARIZE", "false")
	t.Setenv("VOICENOTE_AUDIO_INPUT_DEVICE", "mic0")
	t.Setenv("VOICENOTE_AUDIO_SAMPLE_RATE", "44100")
	t.Setenv("VOICENOTE_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Vault.Dir != "/data/vault" || cfg.Vault.AudioFolder != "Audio" {
		t.Fatalf("unexpected vault config: %+v", cfg.Vault)
	}
	if cfg.Transcription.APIKey != "aai-key" || cfg.Transcription.LanguageCode != "en-US" || cfg.Transcription.Accuracy != "accurate" {
		t.Fatalf("unexpected transcription config: %+v", cfg.Transcription)
	}
	if cfg.Summary.APIKey != "oai-key" || cfg.Summary.Model != "gpt-4o" || cfg.Summary.AutoSummarize {
		t.Fatalf("unexpected summary config: %+v", cfg.Summary)
	}
	if cfg.Audio.InputDevice != "mic0" || cfg.Audio.SampleRate != 44100 {
		t.Fatalf("unexpected audio config: %+v", cfg.Audio)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.Log.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	home := t.TempDir()
	file := filepath.Join(home, "config.yaml")
	contents := "vault:\n  dir: /srv/notes\nsummary:\n  temperature: 0.7\n"
	if err := os.WriteFile(file, []byte(contents), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	t.Setenv("HOME", home)
	t.Setenv("VOICENOTE_CONFIG_FILE", file)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Vault.Dir != "/srv/notes" {
		t.Fatalf("unexpected vault dir: %q", cfg.Vault.Dir)
	}
	if cfg.Summary.Temperature != 0.7 {
		t.Fatalf("unexpected temperature: %v", cfg.Summary.Temperature)
	}
	if cfg.Vault.AudioFolder != "Recordings" {
		t.Fatalf("file should not clear defaults: %+v", cfg.Vault)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VOICENOTE_AUDIO_SAMPLE_RATE", "-5")
	t.Setenv("VOICENOTE_AUDIO_CHANNELS", "0")
	t.Setenv("VOICENOTE_SUMMARY_TEMPERATURE", "9.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Audio.SampleRate != 16000 || cfg.Audio.Channels != 1 {
		t.Fatalf("unexpected audio fallbacks: %+v", cfg.Audio)
	}
	if cfg.Summary.Temperature != 0.3 {
		t.Fatalf("unexpected temperature fallback: %v", cfg.Summary.Temperature)
	}
}
