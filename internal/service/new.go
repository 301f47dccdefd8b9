package service

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/nguyentantai21042004/hearing-digest/internal/config"
	"github.com/nguyentantai21042004/hearing-digest/internal/job"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
	"github.com/nguyentantai21042004/hearing-digest/internal/processor"
)

type implService struct {
	cfg       *config.Config
	registry  *job.Registry
	processor processor.Processor
	logger    logger.Logger

	newID    func() string
	attachSF singleflight.Group
	wg       sync.WaitGroup
}

// New creates a Service backed by the given registry and processor.
func New(cfg *config.Config, reg *job.Registry, proc processor.Processor, log logger.Logger) Service {
	return &implService{
		cfg:       cfg,
		registry:  reg,
		processor: proc,
		logger:    log,
		newID:     uuid.NewString,
	}
}
