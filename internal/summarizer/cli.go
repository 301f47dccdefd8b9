package summarizer

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/hearing-digest/internal/job"
)

// Summarize runs the configured binary with the prompt as its final
// argument and returns trimmed stdout.
func (s *cliSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	args := make([]string, 0, len(s.cfg.Args)+1)
	args = append(args, s.cfg.Args...)
	args = append(args, BuildPrompt(transcript))

	s.logger.Info(ctx, "Summarizing %d chars with %s %s", len(transcript), s.cfg.BinaryPath, strings.Join(s.cfg.Args, " "))

	res, err := s.executor.Execute(ctx, s.cfg.BinaryPath, args...)
	if err != nil {
		return "", job.Classify(job.StageSummary, err)
	}

	summary := strings.TrimSpace(res.Stdout)
	if summary == "" {
		return "", job.NewStageError(job.StageSummary, job.EmptyResultFailure,
			s.cfg.BinaryPath+" produced no summary", nil)
	}

	s.logger.Info(ctx, "Summary generated in %s (%d chars)", res.Duration, len(summary))
	return summary, nil
}
