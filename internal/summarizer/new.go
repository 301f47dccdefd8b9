package summarizer

import (
	"sync"

	"github.com/nguyentantai21042004/hearing-digest/internal/config"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
	"github.com/nguyentantai21042004/hearing-digest/pkg/executor"
)

// cliSummarizer pipes the prompt to a local LLM runner such as ollama.
type cliSummarizer struct {
	cfg      config.SummarizerConfig
	executor executor.Executor
	logger   logger.Logger
}

// geminiSummarizer calls the Gemini API, rotating through the supplied keys.
type geminiSummarizer struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	logger     logger.Logger
	generate   generateFunc
}

// New creates the Summarizer selected by cfg.Summarizer.Backend.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Summarizer {
	if cfg.Summarizer.Backend == "gemini" {
		return NewGemini(cfg.Gemini.APIKeys, cfg.Gemini.Model, log)
	}
	return NewCLI(cfg.Summarizer, exec, log)
}

// NewCLI creates a Summarizer backed by an external executable.
func NewCLI(cfg config.SummarizerConfig, exec executor.Executor, log logger.Logger) Summarizer {
	return &cliSummarizer{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

// NewGemini creates a Summarizer that rotates through the supplied Gemini API keys.
func NewGemini(apiKeys []string, model string, log logger.Logger) Summarizer {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &geminiSummarizer{
		apiKeys:  apiKeys,
		model:    model,
		logger:   log,
		generate: generateWithGenAI,
	}
}
