package transcriber

import "context"

// Transcriber runs the speech-to-text engine on a converted recording and
// returns the transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
