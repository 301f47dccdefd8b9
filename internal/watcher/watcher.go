package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/hearing-digest/internal/job"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
	"github.com/nguyentantai21042004/hearing-digest/internal/service"
)

const nameSeparator = "__"

var supportedFormats = []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".webm", ".mp4", ".aac"}

type implWatcher struct {
	inboxDir   string
	uploadsDir string
	submitter  Submitter
	logger     logger.Logger
	watcher    *fsnotify.Watcher
	settle     time.Duration
	wg         sync.WaitGroup
}

// Start submits recordings already waiting in the inbox, then monitors it
// for new ones until ctx is cancelled.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started. Monitoring: %s", w.inboxDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(supportedFormats, ", "))

	w.scanExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for pending inbox files...")
			w.wg.Wait()
			w.logger.Info(ctx, "Inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Only process CREATE events
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isAudioFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-audio file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New recording detected: %s", event.Name)
			w.wg.Add(1)
			go func(filePath string) {
				defer w.wg.Done()

				// Small delay to ensure file is fully written
				select {
				case <-time.After(w.settle):
				case <-ctx.Done():
					return
				}
				if _, err := w.ingest(ctx, filePath); err != nil {
					w.logger.Error(ctx, "Failed to submit %s: %v", filePath, err)
				}
			}(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) scanExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		w.logger.Warn(ctx, "Failed to scan inbox %s: %v", w.inboxDir, err)
		return
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !isAudioFile(e.Name()) {
			continue
		}
		path := filepath.Join(w.inboxDir, e.Name())
		if _, err := w.ingest(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to submit %s: %v", path, err)
		}
	}
}

// ingest moves the recording out of the inbox so it is picked up once, then
// submits it with metadata parsed from its name.
func (w *implWatcher) ingest(ctx context.Context, path string) (string, error) {
	if err := os.MkdirAll(w.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	name := filepath.Base(path)
	dest := filepath.Join(w.uploadsDir, uuid.NewString()+strings.ToLower(filepath.Ext(name)))
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("move to uploads: %w", err)
	}

	meta := ParseFileName(name)
	meta.UploadedAt = time.Now()

	id, err := w.submitter.Submit(ctx, service.SubmitRequest{SourcePath: dest, Metadata: meta})
	if err != nil {
		os.Remove(dest)
		return "", err
	}
	w.logger.Info(ctx, "Submitted %s as job %s", name, id)
	return id, nil
}

// ParseFileName reads client and case from <client>__<case>__<anything>.ext.
// A name with a single separator yields only the client.
func ParseFileName(name string) job.Metadata {
	meta := job.Metadata{OriginalFileName: name}
	base := strings.TrimSuffix(name, filepath.Ext(name))

	parts := strings.Split(base, nameSeparator)
	if len(parts) < 2 {
		return meta
	}
	meta.ClientName = strings.TrimSpace(parts[0])
	if len(parts) >= 3 {
		meta.CaseNumber = strings.TrimSpace(parts[1])
	}
	return meta
}

// isAudioFile checks if the file has a supported audio extension
func isAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}
