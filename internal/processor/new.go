package processor

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/hearing-digest/internal/attach"
	"github.com/nguyentantai21042004/hearing-digest/internal/config"
	"github.com/nguyentantai21042004/hearing-digest/internal/converter"
	"github.com/nguyentantai21042004/hearing-digest/internal/job"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
	"github.com/nguyentantai21042004/hearing-digest/internal/summarizer"
	"github.com/nguyentantai21042004/hearing-digest/internal/transcriber"
)

// ArtifactStore persists the durable text artifacts of a job.
type ArtifactStore interface {
	WriteTranscript(ctx context.Context, jobID string, meta job.Metadata, text string) (string, error)
	WriteSummary(ctx context.Context, jobID string, meta job.Metadata, text string) (string, error)
}

// Deps are the collaborators a Processor drives.
type Deps struct {
	Registry    *job.Registry
	Converter   converter.Converter
	Transcriber transcriber.Transcriber
	Summarizer  summarizer.Summarizer
	Attacher    attach.Attacher
	Store       ArtifactStore
	Logger      logger.Logger
	// OnFinish, when set, receives the final snapshot of every job that
	// reaches a terminal state.
	OnFinish func(ctx context.Context, j *job.Job)
}

type implProcessor struct {
	convertedDir string
	stageTimeout time.Duration
	sem          *semaphore.Weighted

	registry    *job.Registry
	converter   converter.Converter
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	attacher    attach.Attacher
	store       ArtifactStore
	logger      logger.Logger
	onFinish    func(ctx context.Context, j *job.Job)
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Deps) Processor {
	p := &implProcessor{
		convertedDir: cfg.Paths.Converted,
		stageTimeout: cfg.Performance.StageTimeout,
		registry:     deps.Registry,
		converter:    deps.Converter,
		transcriber:  deps.Transcriber,
		summarizer:   deps.Summarizer,
		attacher:     deps.Attacher,
		store:        deps.Store,
		logger:       deps.Logger,
		onFinish:     deps.OnFinish,
	}
	if cfg.Performance.MaxConcurrent > 0 {
		p.sem = semaphore.NewWeighted(int64(cfg.Performance.MaxConcurrent))
	}
	return p
}
