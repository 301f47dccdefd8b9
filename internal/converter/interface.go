package converter

import "context"

// Converter turns an uploaded recording into the WAV format the
// speech-to-text engine expects.
type Converter interface {
	Convert(ctx context.Context, srcPath, dstPath string) error
}
