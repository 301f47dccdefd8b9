package summarizer

import "context"

// Summarizer turns a hearing transcript into a structured summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}
