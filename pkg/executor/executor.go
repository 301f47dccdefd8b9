package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result carries the captured streams of one finished process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// LaunchError means the process never started: binary missing, not
// executable, or the fork itself failed.
type LaunchError struct {
	Name string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("command '%s' could not be started: %v", e.Name, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ExitError means the process ran and exited non-zero (or was killed).
type ExitError struct {
	Name   string
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command '%s' failed with exit code %d\nstderr: %s", e.Name, e.Code, e.Stderr)
	}
	return fmt.Sprintf("command '%s' failed with exit code %d", e.Name, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (Result, error) {
	return e.run(ctx, "", name, args...)
}

// ExecuteInDir runs an external command in a specific working directory
func (e *implExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	return e.run(ctx, dir, name, args...)
}

func (e *implExecutor) run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, &LaunchError{Name: name, Err: err}
	}
	err := cmd.Wait()

	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		res.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		return res, &ExitError{
			Name:   name,
			Code:   res.ExitCode,
			Stderr: strings.TrimSpace(res.Stderr),
			Err:    err,
		}
	}

	return res, nil
}

// LookPath reports the resolved path of a binary, or "" when it is not on PATH.
func LookPath(name string) string {
	p, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return p
}
