package service

import (
	"errors"
	"time"

	"github.com/nguyentantai21042004/hearing-digest/internal/job"
)

var (
	ErrNotFound          = errors.New("job not found")
	ErrPrecondition      = errors.New("job is not completed")
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrAttachFailed      = errors.New("attach failed")
)

// StatusView is what a polling client sees. Transcription and summary are
// only set once the job completed, ErrorDetail only once it failed.
type StatusView struct {
	ID            string                           `json:"id"`
	Status        job.Status                       `json:"overallStatus"`
	Stages        map[job.StageName]job.StageState `json:"stages"`
	Metadata      job.Metadata                     `json:"metadata"`
	Transcription string                           `json:"transcription,omitempty"`
	Summary       string                           `json:"summary,omitempty"`
	Language      string                           `json:"language,omitempty"`
	ErrorDetail   string                           `json:"errorDetail,omitempty"`
	CreatedAt     time.Time                        `json:"createdAt"`
	UpdatedAt     time.Time                        `json:"updatedAt"`
}

type ToolHealth struct {
	Binary    string `json:"binary"`
	Available bool   `json:"available"`
}

// HealthReport carries static availability claims; nothing is probed.
type HealthReport struct {
	Status string                `json:"status"`
	Tools  map[string]ToolHealth `json:"tools"`
	Jobs   int                   `json:"jobs"`
}

func newStatusView(j *job.Job) StatusView {
	v := StatusView{
		ID:        j.ID,
		Status:    j.Status,
		Stages:    j.Stages,
		Metadata:  j.Metadata,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	switch j.Status {
	case job.StatusCompleted:
		v.Transcription = j.Results.Transcription
		v.Summary = j.Results.Summary
		v.Language = j.Results.Language
	case job.StatusError:
		v.ErrorDetail = j.ErrorDetail
	}
	return v
}
