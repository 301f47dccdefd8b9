package transcriber

import (
	"os"

	"github.com/nguyentantai21042004/hearing-digest/internal/config"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
	"github.com/nguyentantai21042004/hearing-digest/pkg/executor"
)

type implTranscriber struct {
	cfg      config.WhisperConfig
	executor executor.Executor
	logger   logger.Logger

	readFile func(name string) ([]byte, error)
	remove   func(name string) error
}

// New creates a whisper.cpp backed Transcriber
func New(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) Transcriber {
	return &implTranscriber{
		cfg:      cfg,
		executor: exec,
		logger:   log,
		readFile: os.ReadFile,
		remove:   os.Remove,
	}
}
