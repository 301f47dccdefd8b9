package attach

import (
	"context"

	"github.com/nguyentantai21042004/hearing-digest/internal/job"
)

// Attacher hands a completed job's summary over to the client-record system.
type Attacher interface {
	Attach(ctx context.Context, j *job.Job) error
}
