package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/hearing-digest/internal/job"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
)

// Run orchestrates the entire pipeline of one job
func (p *implProcessor) Run(ctx context.Context, jobID string) error {
	ctx = logger.WithJob(ctx, jobID)
	j, ok := p.registry.Get(jobID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if p.settled(j) {
		return nil
	}

	release, err := p.acquire(ctx)
	if err != nil {
		return fmt.Errorf("wait for pipeline slot: %w", err)
	}
	defer release()
	defer p.finish(ctx, jobID)

	startTime := time.Now()
	p.logger.Info(ctx, "Starting pipeline for job %s", jobID)

	for {
		done, err := p.step(ctx, jobID)
		if err != nil {
			p.logger.Error(ctx, "Pipeline failed after %s: %v", time.Since(startTime), err)
			return err
		}
		if done {
			break
		}
	}

	p.logger.Info(ctx, "Pipeline completed in %s", time.Since(startTime))
	return nil
}

// Step executes the next pending stage of the job. The finish hook fires only
// on the call that brings the job to its end.
func (p *implProcessor) Step(ctx context.Context, jobID string) (bool, error) {
	ctx = logger.WithJob(ctx, jobID)
	j, ok := p.registry.Get(jobID)
	if !ok {
		return true, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if p.settled(j) {
		return true, nil
	}

	done, err := p.step(ctx, jobID)
	if done {
		p.finish(ctx, jobID)
	}
	return done, err
}

// RunAttach re-runs the attach stage of a completed job and returns its error.
func (p *implProcessor) RunAttach(ctx context.Context, jobID string) error {
	ctx = logger.WithJob(ctx, jobID)
	j, ok := p.registry.Get(jobID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if j.Status != job.StatusCompleted {
		return fmt.Errorf("%w: %s is %s", ErrNotCompleted, jobID, j.Status)
	}
	return p.execute(ctx, jobID, stage{name: job.StageAttach, run: p.attach})
}

// step runs at most one stage. A pipeline stage failure ends the job and is
// returned; an attach failure is recorded on the stage only.
func (p *implProcessor) step(ctx context.Context, jobID string) (bool, error) {
	j, ok := p.registry.Get(jobID)
	if !ok {
		return true, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	if j.Status == job.StatusStarted {
		if j, _ = p.update(ctx, jobID, (*job.Job).StartProcessing); j == nil {
			return true, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
		}
	}

	next, ok := p.nextStage(j)
	if !ok {
		return true, nil
	}

	err := p.execute(ctx, jobID, next)
	if err != nil {
		if next.name == job.StageAttach {
			p.logger.Warn(ctx, "Attach failed, job stays completed: %v", err)
			return true, nil
		}
		return true, err
	}

	if next.name == job.StageSummary {
		if _, err := p.update(ctx, jobID, (*job.Job).Complete); err != nil {
			return true, err
		}
		p.logger.Info(ctx, "Job %s completed", jobID)
	}

	latest, ok := p.registry.Get(jobID)
	if !ok {
		return true, nil
	}
	_, more := p.nextStage(latest)
	return !more, nil
}

// settled reports whether the job has nothing left to run.
func (p *implProcessor) settled(j *job.Job) bool {
	if j.Status == job.StatusStarted {
		return false
	}
	_, more := p.nextStage(j)
	return !more
}

// nextStage returns the first pending stage of the plan that the job's
// status allows to run.
func (p *implProcessor) nextStage(j *job.Job) (stage, bool) {
	if j.Status == job.StatusError {
		return stage{}, false
	}
	for _, s := range p.stagePlan(j) {
		if j.Stage(s.name).Status != job.StagePending {
			continue
		}
		if s.name == job.StageAttach && j.Status != job.StatusCompleted {
			return stage{}, false
		}
		return s, true
	}
	return stage{}, false
}

// execute runs one stage, recording begin and outcome in the registry.
func (p *implProcessor) execute(ctx context.Context, jobID string, s stage) error {
	j, err := p.update(ctx, jobID, func(j *job.Job) error { return j.BeginStage(s.name) })
	if err != nil {
		return err
	}

	p.logger.Info(ctx, "Stage %s started", s.name)
	stageStart := time.Now()

	stageCtx := ctx
	if p.stageTimeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, p.stageTimeout)
		defer cancel()
	}

	out, runErr := s.run(stageCtx, j)
	if runErr != nil {
		if errors.Is(stageCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			runErr = job.NewStageError(s.name, job.ToolFailure,
				fmt.Sprintf("stage timed out after %s", p.stageTimeout), runErr)
		}
		stageErr := job.Classify(s.name, runErr)
		if _, err := p.update(ctx, jobID, func(j *job.Job) error { return j.FailStage(s.name, stageErr) }); err != nil {
			return err
		}
		p.logger.Error(ctx, "Stage %s failed after %s: %v", s.name, time.Since(stageStart), stageErr)
		return stageErr
	}

	_, err = p.update(ctx, jobID, func(j *job.Job) error {
		if out.apply != nil {
			out.apply(&j.Results)
		}
		return j.CompleteStage(s.name, out.path)
	})
	if err != nil {
		return err
	}

	p.logger.Info(ctx, "Stage %s completed in %s", s.name, time.Since(stageStart))
	return nil
}

func (p *implProcessor) update(ctx context.Context, jobID string, fn func(*job.Job) error) (*job.Job, error) {
	j, err := p.registry.Update(jobID, fn)
	if err != nil {
		p.logger.Error(ctx, "Failed to update job record: %v", err)
		return j, err
	}
	return j, nil
}
