package job

import (
	"errors"
	"fmt"
	"time"
)

// ErrStageBusy is returned when a stage that is already processing is begun again.
var ErrStageBusy = errors.New("stage already processing")

// New creates a record with status started and every stage pending.
func New(id, sourceFilePath string, meta Metadata) *Job {
	now := time.Now()
	stages := make(map[StageName]StageState, len(Stages()))
	for _, s := range Stages() {
		stages[s] = StageState{Status: StagePending}
	}
	return &Job{
		ID:             id,
		SourceFilePath: sourceFilePath,
		Metadata:       meta,
		Status:         StatusStarted,
		Stages:         stages,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	tmp := *j
	tmp.Stages = make(map[StageName]StageState, len(j.Stages))
	for k, v := range j.Stages {
		tmp.Stages[k] = v.clone()
	}
	return &tmp
}

func (s StageState) clone() StageState {
	if s.StartedAt != nil {
		t := *s.StartedAt
		s.StartedAt = &t
	}
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		s.FinishedAt = &t
	}
	return s
}

// Terminal reports whether the overall status can no longer advance.
func (j *Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusError
}

// Stage returns the state of one stage.
func (j *Job) Stage(name StageName) StageState {
	return j.Stages[name]
}

// StartProcessing moves a started job to processing.
func (j *Job) StartProcessing() error {
	if j.Status != StatusStarted {
		return fmt.Errorf("job %s: cannot start processing from %s", j.ID, j.Status)
	}
	j.Status = StatusProcessing
	j.touch()
	return nil
}

// BeginStage marks a pending stage as processing. The attach stage may be
// re-entered after completion unless it is still running, every other stage
// only while processing.
func (j *Job) BeginStage(name StageName) error {
	if err := j.checkWritable(name); err != nil {
		return err
	}
	st := j.Stages[name]
	if st.Status == StageProcessing {
		return fmt.Errorf("job %s: %w: %s", j.ID, ErrStageBusy, name)
	}
	if name != StageAttach && st.Status != StagePending {
		return fmt.Errorf("job %s: stage %s is %s, not pending", j.ID, name, st.Status)
	}
	now := time.Now()
	j.Stages[name] = StageState{Status: StageProcessing, StartedAt: &now}
	j.touch()
	return nil
}

// CompleteStage marks a processing stage as completed.
func (j *Job) CompleteStage(name StageName, outputPath string) error {
	st, err := j.processingStage(name)
	if err != nil {
		return err
	}
	now := time.Now()
	st.Status = StageCompleted
	st.OutputPath = outputPath
	st.Error = ""
	st.FinishedAt = &now
	j.Stages[name] = st
	j.touch()
	return nil
}

// FailStage marks a processing stage as error. For every stage but attach
// the job itself moves to error and keeps the failure detail.
func (j *Job) FailStage(name StageName, cause error) error {
	st, err := j.processingStage(name)
	if err != nil {
		return err
	}
	detail := "unknown error"
	if cause != nil {
		detail = cause.Error()
	}
	now := time.Now()
	st.Status = StageError
	st.Error = detail
	st.FinishedAt = &now
	j.Stages[name] = st
	if name != StageAttach {
		j.Status = StatusError
		j.ErrorDetail = detail
	}
	j.touch()
	return nil
}

// Complete moves a processing job to completed. Every stage up to summary
// must already be completed.
func (j *Job) Complete() error {
	if j.Status != StatusProcessing {
		return fmt.Errorf("job %s: cannot complete from %s", j.ID, j.Status)
	}
	for _, s := range []StageName{StageConversion, StageTranscription, StageSummary} {
		if j.Stages[s].Status != StageCompleted {
			return fmt.Errorf("job %s: stage %s is %s", j.ID, s, j.Stages[s].Status)
		}
	}
	j.Status = StatusCompleted
	j.touch()
	return nil
}

func (j *Job) checkWritable(name StageName) error {
	switch j.Status {
	case StatusProcessing:
		return nil
	case StatusCompleted:
		if name == StageAttach {
			return nil
		}
	}
	return fmt.Errorf("job %s: stage %s cannot run while job is %s", j.ID, name, j.Status)
}

func (j *Job) processingStage(name StageName) (StageState, error) {
	st, ok := j.Stages[name]
	if !ok || st.Status != StageProcessing {
		return StageState{}, fmt.Errorf("job %s: stage %s is not processing", j.ID, name)
	}
	return st, nil
}

func (j *Job) touch() {
	j.UpdatedAt = time.Now()
}
