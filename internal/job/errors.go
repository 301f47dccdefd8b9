package job

import (
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/hearing-digest/pkg/executor"
)

// Kind classifies stage failures for diagnostics. Every kind is handled
// the same way: the stage and the job move to error.
type Kind int

const (
	LaunchFailure Kind = iota
	ToolFailure
	ArtifactFailure
	EmptyResultFailure
)

func (k Kind) String() string {
	switch k {
	case LaunchFailure:
		return "LaunchFailure"
	case ToolFailure:
		return "ToolFailure"
	case ArtifactFailure:
		return "ArtifactFailure"
	case EmptyResultFailure:
		return "EmptyResultFailure"
	default:
		return "Unknown"
	}
}

// StageFailure is a stage-aware failure carrying a human readable detail.
type StageFailure struct {
	Stage  StageName
	Kind   Kind
	Detail string
	Err    error
}

func (e *StageFailure) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil && e.Detail == "" {
		return fmt.Sprintf("%s: [%s] %v", e.Stage, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: [%s] %s", e.Stage, e.Kind, e.Detail)
}

func (e *StageFailure) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewStageError builds a StageFailure of an explicit kind.
func NewStageError(stage StageName, kind Kind, detail string, cause error) *StageFailure {
	return &StageFailure{Stage: stage, Kind: kind, Detail: detail, Err: cause}
}

// Classify wraps an executor failure into a StageFailure. Launch errors map to
// LaunchFailure, exit errors to ToolFailure carrying the captured stderr.
func Classify(stage StageName, err error) *StageFailure {
	if err == nil {
		return nil
	}
	var se *StageFailure
	if errors.As(err, &se) {
		return se
	}

	var launchErr *executor.LaunchError
	if errors.As(err, &launchErr) {
		return NewStageError(stage, LaunchFailure, launchErr.Error(), err)
	}
	var exitErr *executor.ExitError
	if errors.As(err, &exitErr) {
		return NewStageError(stage, ToolFailure, exitErr.Error(), err)
	}
	return NewStageError(stage, ToolFailure, err.Error(), err)
}

// KindOf reports the failure kind of err, or false if err carries none.
func KindOf(err error) (Kind, bool) {
	var se *StageFailure
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
