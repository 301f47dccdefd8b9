package processor

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// convertedPath is the deterministic location of a job's converted audio.
func (p *implProcessor) convertedPath(jobID string) string {
	return filepath.Join(p.convertedDir, jobID+".wav")
}

// cleanupConverted removes the transient converted audio, logs warning if fails
func (p *implProcessor) cleanupConverted(ctx context.Context, jobID string) {
	path := p.convertedPath(jobID)
	if err := os.Remove(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn(ctx, "Failed to cleanup converted audio %s: %v", path, err)
		}
		return
	}
	p.logger.Debug(ctx, "Cleaned up converted audio: %s", path)
}

// finish runs once per job after it reached a terminal state.
func (p *implProcessor) finish(ctx context.Context, jobID string) {
	p.cleanupConverted(ctx, jobID)
	if p.onFinish == nil {
		return
	}
	if j, ok := p.registry.Get(jobID); ok {
		p.onFinish(ctx, j)
	}
}
