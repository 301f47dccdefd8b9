package transcriber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/hearing-digest/internal/config"
	"github.com/nguyentantai21042004/hearing-digest/internal/job"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
	"github.com/nguyentantai21042004/hearing-digest/pkg/executor"
)

type fakeExecutor struct {
	run  func(name string, args ...string) (executor.Result, error)
	args []string
}

func (f *fakeExecutor) Execute(_ context.Context, name string, args ...string) (executor.Result, error) {
	f.args = args
	return f.run(name, args...)
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, _ string, name string, args ...string) (executor.Result, error) {
	return f.Execute(ctx, name, args...)
}

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func testConfig() config.WhisperConfig {
	return config.WhisperConfig{
		BinaryPath:  "whisper-custom",
		ModelPath:   "/models/ggml-base.en.bin",
		Language:    "en",
		Threads:     4,
		OutputDelay: time.Millisecond,
	}
}

func TestTranscribe_ReadsAndRemovesRawArtifact(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "job-1.wav")
	exec := &fakeExecutor{run: func(_ string, args ...string) (executor.Result, error) {
		prefix := argValue(args, "-of")
		require.NoError(t, os.WriteFile(prefix+".txt", []byte("  HELLO\n"), 0o644))
		return executor.Result{}, nil
	}}

	text, err := New(testConfig(), exec, logger.NewNop()).Transcribe(context.Background(), audio)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", text)

	assert.Equal(t, audio, argValue(exec.args, "-f"))
	assert.Equal(t, "en", argValue(exec.args, "-l"))
	assert.Equal(t, "/models/ggml-base.en.bin", argValue(exec.args, "-m"))

	_, statErr := os.Stat(filepath.Join(filepath.Dir(audio), "job-1.txt"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "raw whisper output should be removed")
}

func TestTranscribe_AutoLanguageOmitsFlag(t *testing.T) {
	cfg := testConfig()
	cfg.Language = "auto"
	exec := &fakeExecutor{run: func(_ string, args ...string) (executor.Result, error) {
		require.NoError(t, os.WriteFile(argValue(args, "-of")+".txt", []byte("hi"), 0o644))
		return executor.Result{}, nil
	}}

	_, err := New(cfg, exec, logger.NewNop()).Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.wav"))
	require.NoError(t, err)
	assert.NotContains(t, exec.args, "-l")
}

func TestTranscribe_Failures(t *testing.T) {
	tests := []struct {
		name     string
		run      func(name string, args ...string) (executor.Result, error)
		wantKind job.Kind
	}{
		{
			name: "launch failure",
			run: func(name string, _ ...string) (executor.Result, error) {
				return executor.Result{ExitCode: -1}, &executor.LaunchError{Name: name, Err: errors.New("permission denied")}
			},
			wantKind: job.LaunchFailure,
		},
		{
			name: "tool failure",
			run: func(name string, _ ...string) (executor.Result, error) {
				return executor.Result{ExitCode: 2}, &executor.ExitError{Name: name, Code: 2, Stderr: "failed to load model"}
			},
			wantKind: job.ToolFailure,
		},
		{
			name: "missing artifact",
			run: func(_ string, _ ...string) (executor.Result, error) {
				return executor.Result{}, nil
			},
			wantKind: job.ArtifactFailure,
		},
		{
			name: "empty transcript",
			run: func(_ string, args ...string) (executor.Result, error) {
				return executor.Result{}, os.WriteFile(argValue(args, "-of")+".txt", []byte("\n \n"), 0o644)
			},
			wantKind: job.EmptyResultFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audio := filepath.Join(t.TempDir(), "job.wav")
			_, err := New(testConfig(), &fakeExecutor{run: tt.run}, logger.NewNop()).
				Transcribe(context.Background(), audio)
			require.Error(t, err)

			kind, ok := job.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestTranscribe_DelayHonoursContext(t *testing.T) {
	cfg := testConfig()
	cfg.OutputDelay = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	exec := &fakeExecutor{run: func(_ string, _ ...string) (executor.Result, error) {
		cancel()
		return executor.Result{}, nil
	}}

	_, err := New(cfg, exec, logger.NewNop()).Transcribe(ctx, filepath.Join(t.TempDir(), "a.wav"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
