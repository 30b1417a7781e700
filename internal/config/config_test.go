package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Language != DefaultLanguage {
		t.Errorf("language = %q, want %q", cfg.Language, DefaultLanguage)
	}
	if cfg.CacheSize != DefaultCacheSize {
		t.Errorf("cache_size = %d, want %d", cfg.CacheSize, DefaultCacheSize)
	}
	if cfg.Fetch.Timeout != DefaultFetchTimeout {
		t.Errorf("fetch.timeout = %v, want %v", cfg.Fetch.Timeout, DefaultFetchTimeout)
	}
	if cfg.Transcribe.Provider != "gemini" {
		t.Errorf("transcribe.provider = %q, want gemini", cfg.Transcribe.Provider)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
language: fr
cache_size: 8
yt_dlp:
  path: /opt/bin/yt-dlp
  extra_args: ["--cookies", "cookies.txt"]
fetch:
  timeout: 5s
transcribe:
  provider: " OpenAI "
  model: whisper-1
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Language != "fr" {
		t.Errorf("language = %q, want fr", cfg.Language)
	}
	if cfg.CacheSize != 8 {
		t.Errorf("cache_size = %d, want 8", cfg.CacheSize)
	}
	if cfg.YtDlp.Path != "/opt/bin/yt-dlp" {
		t.Errorf("yt_dlp.path = %q", cfg.YtDlp.Path)
	}
	if len(cfg.YtDlp.ExtraArgs) != 2 {
		t.Errorf("yt_dlp.extra_args = %v", cfg.YtDlp.ExtraArgs)
	}
	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("fetch.timeout = %v, want 5s", cfg.Fetch.Timeout)
	}
	// untouched fields keep defaults
	if cfg.Fetch.MaxBytes != DefaultMaxBytes {
		t.Errorf("fetch.max_bytes = %d, want default", cfg.Fetch.MaxBytes)
	}
	if cfg.Transcribe.Provider != "openai" {
		t.Errorf("transcribe.provider = %q, want openai", cfg.Transcribe.Provider)
	}
	if cfg.Transcribe.Concurrency != 3 {
		t.Errorf("transcribe.concurrency = %d, want 3", cfg.Transcribe.Concurrency)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.YtDlp.Path != DefaultYtDlp {
		t.Errorf("yt_dlp.path = %q, want %q", cfg.YtDlp.Path, DefaultYtDlp)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown provider", "transcribe:\n  provider: whisperx\n", "unsupported transcribe.provider"},
		{"negative cache", "cache_size: -1\n", "cache_size"},
		{"zero concurrency", "transcribe:\n  concurrency: 0\n", "concurrency"},
		{"unknown field", "colour: blue\n", "colour"},
		{"bad duration", "fetch:\n  timeout: soon\n", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
