package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/nguyentantai21042004/hearing-digest/internal/job"
)

// ffmpeg sometimes exits 0 after printing one of these and writing nothing.
var reInternalError = regexp.MustCompile(`(?m)^.*(Error|Invalid data found|Conversion failed).*$`)

// Convert extracts the audio track of srcPath into a 16-bit PCM WAV at
// dstPath with the configured sample rate and channel count.
func (c *implConverter) Convert(ctx context.Context, srcPath, dstPath string) error {
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return job.NewStageError(job.StageConversion, job.ArtifactFailure,
			fmt.Sprintf("create output dir: %v", err), err)
	}

	c.logger.Info(ctx, "Converting audio: %s -> %s", srcPath, dstPath)

	// -vn: drop any video stream
	// -ar/-ac: sample rate and channels whisper works best with
	// -c:a pcm_s16le: uncompressed 16-bit little-endian
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", srcPath,
		"-vn",
		"-ar", strconv.Itoa(c.cfg.SampleRate),
		"-ac", strconv.Itoa(c.cfg.Channels),
		"-c:a", "pcm_s16le",
		dstPath,
	}

	res, err := c.executor.Execute(ctx, c.cfg.BinaryPath, args...)
	if err != nil {
		return job.Classify(job.StageConversion, err)
	}

	info, statErr := os.Stat(dstPath)
	if statErr != nil || info.Size() == 0 {
		if m := reInternalError.FindString(res.Stderr); m != "" {
			return job.NewStageError(job.StageConversion, job.ToolFailure, m, statErr)
		}
		return job.NewStageError(job.StageConversion, job.ArtifactFailure,
			fmt.Sprintf("ffmpeg exited 0 but %s is missing or empty", dstPath), statErr)
	}

	c.logger.Info(ctx, "Audio converted in %s: %s", res.Duration, dstPath)
	return nil
}
