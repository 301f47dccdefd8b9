package converter

import (
	"github.com/nguyentantai21042004/hearing-digest/internal/config"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
	"github.com/nguyentantai21042004/hearing-digest/pkg/executor"
)

type implConverter struct {
	cfg      config.FFmpegConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates an ffmpeg backed Converter
func New(cfg config.FFmpegConfig, exec executor.Executor, log logger.Logger) Converter {
	return &implConverter{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
