package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Whisper: WhisperConfig{ModelPath: "models/ggml-base.en.bin"},
			},
			wantErr: false,
		},
		{
			name:    "missing model path",
			config:  Config{},
			wantErr: true,
		},
		{
			name: "unknown summarizer backend",
			config: Config{
				Whisper:    WhisperConfig{ModelPath: "m.bin"},
				Summarizer: SummarizerConfig{Backend: "carrier-pigeon"},
			},
			wantErr: true,
		},
		{
			name: "gemini without keys",
			config: Config{
				Whisper:    WhisperConfig{ModelPath: "m.bin"},
				Summarizer: SummarizerConfig{Backend: "Gemini"},
			},
			wantErr: true,
		},
		{
			name: "negative concurrency",
			config: Config{
				Whisper:     WhisperConfig{ModelPath: "m.bin"},
				Performance: PerformanceConfig{MaxConcurrent: -1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{Whisper: WhisperConfig{ModelPath: "m.bin"}}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":3001", cfg.Server.Addr)
	assert.Equal(t, "cli", cfg.Summarizer.Backend)
	assert.Equal(t, []string{"run", "llama3.1"}, cfg.Summarizer.Args)
	assert.Equal(t, time.Second, cfg.Whisper.OutputDelay)
	assert.Equal(t, 16000, cfg.FFmpeg.SampleRate)
	assert.Equal(t, 0, cfg.Performance.MaxConcurrent)
	assert.Equal(t, time.Duration(0), cfg.Performance.StageTimeout)
	assert.Equal(t, "data/converted", cfg.Paths.Converted)
	assert.False(t, cfg.Attach.Disabled)
	assert.Equal(t, "client-records", cfg.Attach.System)
}

func TestLoadAttachSection(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantDisabled bool
	}{
		{name: "section omitted", content: "whisper:\n  model_path: m.bin\n"},
		{name: "explicitly disabled", content: "whisper:\n  model_path: m.bin\nattach:\n  disabled: true\n", wantDisabled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, t.TempDir(), tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.wantDisabled, cfg.Attach.Disabled)
		})
	}
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
whisper:
  model_path: "models/test.bin"
  binary_path: "./whisper"
  output_delay: 250ms

summarizer:
  backend: cli
  binary_path: "llm"
  args: ["-m", "mistral"]

paths:
  transcripts: "out/transcripts"

performance:
  max_concurrent: 3

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "models/test.bin", cfg.Whisper.ModelPath)
	assert.Equal(t, 250*time.Millisecond, cfg.Whisper.OutputDelay)
	assert.Equal(t, []string{"-m", "mistral"}, cfg.Summarizer.Args)
	assert.Equal(t, "out/transcripts", cfg.Paths.Transcripts)
	assert.Equal(t, 3, cfg.Performance.MaxConcurrent)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
whisper:
  model_path: "models/test.bin"
`)
	t.Setenv("DIGEST_WHISPER_MODEL_PATH", "/models/large.bin")
	t.Setenv("DIGEST_SERVER_ADDR", ":9000")
	t.Setenv("DIGEST_PERFORMANCE_STAGE_TIMEOUT", "90s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/models/large.bin", cfg.Whisper.ModelPath)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 90*time.Second, cfg.Performance.StageTimeout)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
whisper:
  model_path: "models/test.bin"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DIGEST_ATTACH_SYSTEM=crm-sandbox\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DIGEST_ATTACH_SYSTEM") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "crm-sandbox", cfg.Attach.System)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
