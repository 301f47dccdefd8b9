package sweeper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nguyentantai21042004/hearing-digest/internal/config"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
)

// Sweeper periodically removes converted audio that a crashed or killed
// pipeline left behind. Durable artifacts live elsewhere and are never read.
type Sweeper struct {
	dir    string
	maxAge time.Duration
	logger logger.Logger
	cron   *cron.Cron
	now    func() time.Time
}

// New schedules a sweep of convertedDir on cfg.Schedule (standard cron or
// @every descriptors).
func New(cfg config.CleanupConfig, convertedDir string, log logger.Logger) (*Sweeper, error) {
	s := &Sweeper{
		dir:    convertedDir,
		maxAge: cfg.MaxAge,
		logger: log,
		cron:   cron.New(),
		now:    time.Now,
	}

	_, err := s.cron.AddFunc(cfg.Schedule, func() {
		ctx := context.Background()
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Warn(ctx, "Converted audio sweep failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup.schedule %q: %w", cfg.Schedule, err)
	}
	return s, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to return.
func (s *Sweeper) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Sweep removes .wav files in the converted directory older than maxAge and
// returns how many were deleted.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read %s: %w", s.dir, err)
	}

	cutoff := s.now().Add(-s.maxAge)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if err := os.Remove(path); err != nil {
			s.logger.Warn(ctx, "Failed to remove stale converted audio %s: %v", path, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info(ctx, "Removed %d stale converted audio file(s) from %s", removed, s.dir)
	}
	return removed, nil
}
