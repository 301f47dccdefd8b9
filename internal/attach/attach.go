package attach

import (
	"context"

	"github.com/nguyentantai21042004/hearing-digest/internal/job"
)

// Attach records the hand-off of the summary artifact. No external system is
// contacted yet; the call succeeds unless the integration is disabled.
func (a *implAttacher) Attach(ctx context.Context, j *job.Job) error {
	if a.cfg.Disabled {
		return job.NewStageError(job.StageAttach, job.ToolFailure, "attach integration disabled", nil)
	}
	if j.Results.SummaryPath == "" {
		return job.NewStageError(job.StageAttach, job.ArtifactFailure, "job has no summary artifact", nil)
	}

	a.logger.Info(ctx, "Attaching summary %s to %s (client=%q case=%q)",
		j.Results.SummaryPath, a.cfg.System, j.Metadata.ClientName, j.Metadata.CaseNumber)
	return nil
}
