package processor

import (
	"context"
	"errors"
)

// ErrJobNotFound is returned when the registry has no record for the id.
var ErrJobNotFound = errors.New("job not found")

// ErrNotCompleted is returned by RunAttach for a job that has not completed.
var ErrNotCompleted = errors.New("job is not completed")

// Processor drives a job through conversion, transcription, summary and the
// optional attach stage, recording every transition in the registry.
type Processor interface {
	// Run executes every remaining stage of the job and returns the first
	// stage failure. Attach failures are recorded but not returned.
	Run(ctx context.Context, jobID string) error
	// Step executes exactly one next stage. done is true once the job has
	// no further stage to run.
	Step(ctx context.Context, jobID string) (done bool, err error)
	// RunAttach executes only the attach stage of a completed job.
	RunAttach(ctx context.Context, jobID string) error
}
