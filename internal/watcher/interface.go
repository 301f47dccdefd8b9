package watcher

import (
	"context"

	"github.com/nguyentantai21042004/hearing-digest/internal/service"
)

// Watcher defines the interface for inbox folder monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// Submitter accepts a stored recording as a new job.
type Submitter interface {
	Submit(ctx context.Context, req service.SubmitRequest) (string, error)
}
