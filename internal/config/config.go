package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLanguage     = "en"
	DefaultCacheSize    = 100
	DefaultFetchTimeout = 60 * time.Second
	DefaultMaxBytes     = 10_000_000
	DefaultUserAgent    = "capseek/1.0"
	DefaultYtDlp        = "yt-dlp"
)

// capseek settings, read from YAML and overridden by CLI flags
type Config struct {
	Language   string           `yaml:"language"`
	CacheSize  int              `yaml:"cache_size"`
	YtDlp      YtDlpConfig      `yaml:"yt_dlp"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
}

type YtDlpConfig struct {
	Path      string   `yaml:"path"`
	ExtraArgs []string `yaml:"extra_args"`
}

type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	MaxBytes  int64         `yaml:"max_bytes"`
	UserAgent string        `yaml:"user_agent"`
}

// API keys are deliberately absent; they come from flags or the environment
type TranscribeConfig struct {
	Provider     string `yaml:"provider"`
	Model        string `yaml:"model"`
	ChunkMinutes int    `yaml:"chunk_minutes"`
	Concurrency  int    `yaml:"concurrency"`
}

func Default() *Config {
	return &Config{
		Language:  DefaultLanguage,
		CacheSize: DefaultCacheSize,
		YtDlp: YtDlpConfig{
			Path: DefaultYtDlp,
		},
		Fetch: FetchConfig{
			Timeout:   DefaultFetchTimeout,
			MaxBytes:  DefaultMaxBytes,
			UserAgent: DefaultUserAgent,
		},
		Transcribe: TranscribeConfig{
			Provider:     "gemini",
			ChunkMinutes: 1,
			Concurrency:  3,
		},
	}
}

// DefaultPath is <user config dir>/capseek/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "capseek.yaml"
	}
	return filepath.Join(dir, "capseek", "config.yaml")
}

// Load reads the config at path (DefaultPath when empty). A missing file
// yields the defaults; fields absent from the file keep their default value.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.decode(data); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) normalize() {
	c.Language = strings.TrimSpace(c.Language)
	if c.Language == "" {
		c.Language = DefaultLanguage
	}

	c.YtDlp.Path = strings.TrimSpace(c.YtDlp.Path)
	if c.YtDlp.Path == "" {
		c.YtDlp.Path = DefaultYtDlp
	}

	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = DefaultFetchTimeout
	}
	if c.Fetch.MaxBytes <= 0 {
		c.Fetch.MaxBytes = DefaultMaxBytes
	}
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = DefaultUserAgent
	}

	c.Transcribe.Provider = strings.ToLower(strings.TrimSpace(c.Transcribe.Provider))
	if c.Transcribe.Provider == "" {
		c.Transcribe.Provider = "gemini"
	}
	c.Transcribe.Model = strings.TrimSpace(c.Transcribe.Model)
}

func (c *Config) Validate() error {
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}

	switch c.Transcribe.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf(
			"unsupported transcribe.provider %q: use gemini or openai",
			c.Transcribe.Provider,
		)
	}

	if c.Transcribe.ChunkMinutes <= 0 {
		return fmt.Errorf(
			"transcribe.chunk_minutes must be positive, got %d",
			c.Transcribe.ChunkMinutes,
		)
	}
	if c.Transcribe.Concurrency <= 0 {
		return fmt.Errorf(
			"transcribe.concurrency must be positive, got %d",
			c.Transcribe.Concurrency,
		)
	}

	return nil
}
