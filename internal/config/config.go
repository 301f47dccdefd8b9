package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override, e.g.
// DIGEST_WHISPER_MODEL_PATH or DIGEST_SERVER_ADDR.
const EnvPrefix = "DIGEST"

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Paths       PathsConfig       `yaml:"paths"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Attach      AttachConfig      `yaml:"attach"`
	Performance PerformanceConfig `yaml:"performance"`
	Cleanup     CleanupConfig     `yaml:"cleanup"`
	Export      ExportConfig      `yaml:"export"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int64  `yaml:"max_upload_mb" split_words:"true"`
}

type PathsConfig struct {
	Uploads     string `yaml:"uploads"`
	Inbox       string `yaml:"inbox"`
	Converted   string `yaml:"converted"`
	Transcripts string `yaml:"transcripts"`
	Summaries   string `yaml:"summaries"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path" split_words:"true"`
	SampleRate int    `yaml:"sample_rate" split_words:"true"`
	Channels   int    `yaml:"channels"`
}

type WhisperConfig struct {
	BinaryPath  string        `yaml:"binary_path" split_words:"true"`
	ModelPath   string        `yaml:"model_path" split_words:"true"`
	Language    string        `yaml:"language"`
	Threads     int           `yaml:"threads"`
	OutputDelay time.Duration `yaml:"output_delay" split_words:"true"`
}

type SummarizerConfig struct {
	// Backend is "cli" (external executable) or "gemini".
	Backend    string   `yaml:"backend"`
	BinaryPath string   `yaml:"binary_path" split_words:"true"`
	Args       []string `yaml:"args"`
	Model      string   `yaml:"model"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys" split_words:"true"`
}

type AttachConfig struct {
	// Disabled turns the hand-off off; attach is on unless configured otherwise.
	Disabled bool   `yaml:"disabled"`
	System   string `yaml:"system"`
}

type PerformanceConfig struct {
	// MaxConcurrent caps simultaneously running pipelines; 0 means unbounded.
	MaxConcurrent int `yaml:"max_concurrent" split_words:"true"`
	// StageTimeout bounds one adapter invocation; 0 means no timeout.
	StageTimeout time.Duration `yaml:"stage_timeout" split_words:"true"`
}

type CleanupConfig struct {
	Schedule string        `yaml:"schedule"`
	MaxAge   time.Duration `yaml:"max_age" split_words:"true"`
}

type ExportConfig struct {
	Docx bool `yaml:"docx"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML file at path, applies a .env file found next to it
// (or in the working directory) and DIGEST_* environment overrides, then
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env"), ".env"); err != nil {
		return nil, err
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads the first existing file. Variables already present in
// the environment win.
func loadDotEnv(candidates ...string) error {
	for _, p := range candidates {
		err := godotenv.Load(p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Whisper.ModelPath == "" {
		return fmt.Errorf("whisper.model_path is required")
	}

	c.Summarizer.Backend = strings.ToLower(strings.TrimSpace(c.Summarizer.Backend))
	switch c.Summarizer.Backend {
	case "":
		c.Summarizer.Backend = "cli"
	case "cli", "gemini":
	default:
		return fmt.Errorf("summarizer.backend must be cli or gemini, got %q", c.Summarizer.Backend)
	}
	if c.Summarizer.Backend == "gemini" && len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("gemini.api_keys is required when summarizer.backend is gemini")
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":3001"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 500
	}
	if c.Paths.Uploads == "" {
		c.Paths.Uploads = "data/uploads"
	}
	if c.Paths.Converted == "" {
		c.Paths.Converted = "data/converted"
	}
	if c.Paths.Transcripts == "" {
		c.Paths.Transcripts = "data/transcripts"
	}
	if c.Paths.Summaries == "" {
		c.Paths.Summaries = "data/summaries"
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.FFmpeg.Channels == 0 {
		c.FFmpeg.Channels = 1
	}
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.Whisper.OutputDelay == 0 {
		c.Whisper.OutputDelay = time.Second
	}
	if c.Summarizer.BinaryPath == "" {
		c.Summarizer.BinaryPath = "ollama"
	}
	if c.Summarizer.Model == "" {
		c.Summarizer.Model = "llama3.1"
	}
	if len(c.Summarizer.Args) == 0 {
		c.Summarizer.Args = []string{"run", c.Summarizer.Model}
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Attach.System == "" {
		c.Attach.System = "client-records"
	}
	if c.Performance.MaxConcurrent < 0 {
		return fmt.Errorf("performance.max_concurrent must not be negative")
	}
	if c.Cleanup.Schedule == "" {
		c.Cleanup.Schedule = "@every 1h"
	}
	if c.Cleanup.MaxAge == 0 {
		c.Cleanup.MaxAge = 24 * time.Hour
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	return nil
}
