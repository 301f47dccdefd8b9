package httpapi

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/hearing-digest/internal/job"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
)

// RemoveUpload returns a finish hook that deletes a job's source file once
// the pipeline is done with it. Only files inside uploadsDir are touched.
func RemoveUpload(uploadsDir string, log logger.Logger) func(ctx context.Context, j *job.Job) {
	root, err := filepath.Abs(uploadsDir)
	if err != nil {
		root = filepath.Clean(uploadsDir)
	}
	return func(ctx context.Context, j *job.Job) {
		src, err := filepath.Abs(j.SourceFilePath)
		if err != nil || !strings.HasPrefix(src, root+string(filepath.Separator)) {
			return
		}
		if err := os.Remove(src); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn(ctx, "Failed to remove upload %s: %v", src, err)
			return
		}
		log.Debug(ctx, "Removed upload: %s", src)
	}
}
