package attach

import (
	"github.com/nguyentantai21042004/hearing-digest/internal/config"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
)

type implAttacher struct {
	cfg    config.AttachConfig
	logger logger.Logger
}

// New creates an Attacher for the configured client-record system.
func New(cfg config.AttachConfig, log logger.Logger) Attacher {
	return &implAttacher{cfg: cfg, logger: log}
}
