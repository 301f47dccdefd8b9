package summarizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/hearing-digest/internal/config"
	"github.com/nguyentantai21042004/hearing-digest/internal/job"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
	"github.com/nguyentantai21042004/hearing-digest/pkg/executor"
)

type fakeExecutor struct {
	run  func(name string, args ...string) (executor.Result, error)
	name string
	args []string
}

func (f *fakeExecutor) Execute(_ context.Context, name string, args ...string) (executor.Result, error) {
	f.name = name
	f.args = args
	return f.run(name, args...)
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, _ string, name string, args ...string) (executor.Result, error) {
	return f.Execute(ctx, name, args...)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("HELLO from the bench")

	assert.Contains(t, p, "HELLO from the bench")
	assert.Contains(t, p, "300 to 500 words")
	for _, section := range []string{"Case Information", "Key Testimony", "Evidence Presented", "Notable Rulings", "Action Items"} {
		assert.Contains(t, p, section)
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Summarizer.Backend = "cli"
	_, ok := New(cfg, &fakeExecutor{}, logger.NewNop()).(*cliSummarizer)
	assert.True(t, ok)

	cfg.Summarizer.Backend = "gemini"
	cfg.Gemini.APIKeys = []string{"k1"}
	g, ok := New(cfg, &fakeExecutor{}, logger.NewNop()).(*geminiSummarizer)
	require.True(t, ok)
	assert.Equal(t, "gemini-2.5-flash", g.model)
}

func TestCLISummarize(t *testing.T) {
	cfg := config.SummarizerConfig{BinaryPath: "ollama", Args: []string{"run", "llama3.1"}}

	tests := []struct {
		name     string
		run      func(name string, args ...string) (executor.Result, error)
		want     string
		wantKind *job.Kind
	}{
		{
			name: "success",
			run: func(_ string, _ ...string) (executor.Result, error) {
				return executor.Result{Stdout: "\nSUMMARY TEXT\n"}, nil
			},
			want: "SUMMARY TEXT",
		},
		{
			name: "empty stdout",
			run: func(_ string, _ ...string) (executor.Result, error) {
				return executor.Result{Stdout: "  \n"}, nil
			},
			wantKind: kindPtr(job.EmptyResultFailure),
		},
		{
			name: "non-zero exit",
			run: func(name string, _ ...string) (executor.Result, error) {
				return executor.Result{ExitCode: 1}, &executor.ExitError{Name: name, Code: 1, Stderr: "model not pulled"}
			},
			wantKind: kindPtr(job.ToolFailure),
		},
		{
			name: "not installed",
			run: func(name string, _ ...string) (executor.Result, error) {
				return executor.Result{ExitCode: -1}, &executor.LaunchError{Name: name, Err: errors.New("not found")}
			},
			wantKind: kindPtr(job.LaunchFailure),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{run: tt.run}
			got, err := NewCLI(cfg, exec, logger.NewNop()).Summarize(context.Background(), "HELLO")

			assert.Equal(t, "ollama", exec.name)
			require.Len(t, exec.args, 3)
			assert.Equal(t, []string{"run", "llama3.1"}, exec.args[:2])
			assert.Equal(t, BuildPrompt("HELLO"), exec.args[2])

			if tt.wantKind != nil {
				require.Error(t, err)
				kind, ok := job.KindOf(err)
				require.True(t, ok)
				assert.Equal(t, *tt.wantKind, kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGeminiSummarize_RotatesOnRateLimit(t *testing.T) {
	s := NewGemini([]string{"k1", "k2", "k3"}, "", logger.NewNop()).(*geminiSummarizer)

	var used []string
	s.generate = func(_ context.Context, key, model, _ string) (string, error) {
		used = append(used, key)
		assert.Equal(t, "gemini-2.5-flash", model)
		if key != "k3" {
			return "", errors.New("Error 429, RESOURCE_EXHAUSTED")
		}
		return " summary ", nil
	}

	got, err := s.Summarize(context.Background(), "HELLO")
	require.NoError(t, err)
	assert.Equal(t, "summary", got)
	assert.Equal(t, []string{"k1", "k2", "k3"}, used)

	// the working key stays selected for the next job
	used = nil
	_, err = s.Summarize(context.Background(), "HELLO")
	require.NoError(t, err)
	assert.Equal(t, []string{"k3"}, used)
}

func TestGeminiSummarize_Failures(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		generate generateFunc
		wantKind job.Kind
	}{
		{
			name:     "no keys",
			wantKind: job.LaunchFailure,
		},
		{
			name: "all keys exhausted",
			keys: []string{"k1", "k2"},
			generate: func(context.Context, string, string, string) (string, error) {
				return "", errors.New("quota exceeded")
			},
			wantKind: job.ToolFailure,
		},
		{
			name: "hard error",
			keys: []string{"k1", "k2"},
			generate: func(context.Context, string, string, string) (string, error) {
				return "", errors.New("invalid argument")
			},
			wantKind: job.ToolFailure,
		},
		{
			name: "empty response",
			keys: []string{"k1"},
			generate: func(context.Context, string, string, string) (string, error) {
				return "", errEmptyResponse
			},
			wantKind: job.EmptyResultFailure,
		},
		{
			name: "blank text",
			keys: []string{"k1"},
			generate: func(context.Context, string, string, string) (string, error) {
				return "\n", nil
			},
			wantKind: job.EmptyResultFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewGemini(tt.keys, "gemini-test", logger.NewNop()).(*geminiSummarizer)
			s.generate = tt.generate

			_, err := s.Summarize(context.Background(), "HELLO")
			require.Error(t, err)
			kind, ok := job.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func kindPtr(k job.Kind) *job.Kind { return &k }
