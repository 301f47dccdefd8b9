package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nguyentantai21042004/hearing-digest/internal/job"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
	"github.com/nguyentantai21042004/hearing-digest/internal/processor"
)

// Submit records the job as started before the pipeline goroutine exists,
// so the returned id always resolves.
func (s *implService) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	if req.SourcePath == "" {
		return "", fmt.Errorf("%w: source path is required", ErrInvalidSubmission)
	}
	info, err := os.Stat(req.SourcePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrInvalidSubmission, req.SourcePath)
	}

	meta := req.Metadata
	if meta.UploadedAt.IsZero() {
		meta.UploadedAt = time.Now()
	}

	id := s.newID()
	s.registry.Put(job.New(id, req.SourcePath, meta))

	runCtx := logger.WithJob(context.WithoutCancel(ctx), id)
	s.logger.Info(runCtx, "Job %s submitted for %s (client=%q case=%q attach=%t)",
		id, meta.OriginalFileName, meta.ClientName, meta.CaseNumber, meta.AttachRequested)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// stage failures are already recorded on the job
		_ = s.processor.Run(runCtx, id)
	}()

	return id, nil
}

func (s *implService) Status(id string) (StatusView, error) {
	j, ok := s.registry.Get(id)
	if !ok {
		return StatusView{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return newStatusView(j), nil
}

// Attach runs the attach stage synchronously. Concurrent calls for the same
// job share a single run, detached from any one caller's cancellation. The
// returned view reflects the outcome even when the attach itself failed.
func (s *implService) Attach(ctx context.Context, id string) (StatusView, error) {
	j, ok := s.registry.Get(id)
	if !ok {
		return StatusView{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if j.Status != job.StatusCompleted {
		return newStatusView(j), fmt.Errorf("%w: %s is %s", ErrPrecondition, id, j.Status)
	}

	_, err, shared := s.attachSF.Do(id, func() (interface{}, error) {
		return nil, s.processor.RunAttach(logger.WithJob(context.WithoutCancel(ctx), id), id)
	})
	if shared {
		s.logger.Debug(ctx, "Attach for %s joined an in-flight call", id)
	}

	view, statusErr := s.Status(id)
	if statusErr != nil {
		return StatusView{}, statusErr
	}

	switch {
	case err == nil:
		return view, nil
	case errors.Is(err, processor.ErrNotCompleted), errors.Is(err, job.ErrStageBusy):
		return view, fmt.Errorf("%w: %v", ErrPrecondition, err)
	case errors.Is(err, processor.ErrJobNotFound):
		return StatusView{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	default:
		return view, fmt.Errorf("%w: %v", ErrAttachFailed, err)
	}
}

func (s *implService) List() []StatusView {
	jobs := s.registry.List()
	views := make([]StatusView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, newStatusView(j))
	}
	return views
}

func (s *implService) Health() HealthReport {
	summarizer := ToolHealth{Binary: s.cfg.Summarizer.BinaryPath, Available: true}
	if s.cfg.Summarizer.Backend == "gemini" {
		summarizer.Binary = "gemini:" + s.cfg.Gemini.Model
	}
	return HealthReport{
		Status: "ok",
		Tools: map[string]ToolHealth{
			"ffmpeg":     {Binary: s.cfg.FFmpeg.BinaryPath, Available: true},
			"whisper":    {Binary: s.cfg.Whisper.BinaryPath, Available: true},
			"summarizer": summarizer,
		},
		Jobs: s.registry.Len(),
	}
}

func (s *implService) Wait() {
	s.wg.Wait()
}
