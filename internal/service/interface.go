package service

import (
	"context"

	"github.com/nguyentantai21042004/hearing-digest/internal/job"
)

// Service is the submission and status boundary in front of the pipeline.
type Service interface {
	// Submit registers a job for an already stored audio file, starts its
	// pipeline in the background and returns the new job id.
	Submit(ctx context.Context, req SubmitRequest) (string, error)
	// Status returns the client view of a job. ErrNotFound for unknown ids.
	Status(id string) (StatusView, error)
	// Attach re-runs the attach stage of a completed job.
	Attach(ctx context.Context, id string) (StatusView, error)
	// List returns the client view of every job, oldest first.
	List() []StatusView
	Health() HealthReport
	// Wait blocks until every pipeline started by Submit has returned.
	Wait()
}

type SubmitRequest struct {
	SourcePath string
	Metadata   job.Metadata
}
