package watcher

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
)

// defaultSettle is how long a new file is left alone before it is picked up.
const defaultSettle = 500 * time.Millisecond

// New creates a Watcher that moves recordings dropped into inboxDir to
// uploadsDir and submits them.
func New(inboxDir, uploadsDir string, submitter Submitter, log logger.Logger) (Watcher, error) {
	if err := os.MkdirAll(inboxDir, 0755); err != nil {
		return nil, fmt.Errorf("create inbox dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inboxDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inboxDir:   inboxDir,
		uploadsDir: uploadsDir,
		submitter:  submitter,
		logger:     log,
		watcher:    watcher,
		settle:     defaultSettle,
	}, nil
}
