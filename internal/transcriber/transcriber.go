package transcriber

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/hearing-digest/internal/job"
)

// Transcribe uses whisper.cpp to turn audioPath into plain text. whisper
// writes <prefix>.txt next to the audio; that raw artifact is read after a
// short fixed delay and removed afterwards.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	// Generate output prefix (whisper appends .txt)
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	textPath := outputPrefix + ".txt"

	t.logger.Info(ctx, "Starting transcription with %d threads: %s", t.cfg.Threads, audioPath)

	// -m: model path
	// -f: input audio file
	// -otxt: plain text output
	// -of: output file prefix
	// -l: force language (prevents hallucination)
	// -t: number of threads
	args := []string{
		"-m", t.cfg.ModelPath,
		"-f", audioPath,
		"-otxt",
		"-of", outputPrefix,
		"-t", strconv.Itoa(t.cfg.Threads),
	}
	if lang := normalizeLanguage(t.cfg.Language); lang != "" {
		args = append(args, "-l", lang)
	}

	res, err := t.executor.Execute(ctx, t.cfg.BinaryPath, args...)
	if err != nil {
		return "", job.Classify(job.StageTranscription, err)
	}

	// the text file is not always visible the moment whisper exits
	if err := sleep(ctx, t.cfg.OutputDelay); err != nil {
		return "", job.NewStageError(job.StageTranscription, job.ArtifactFailure, "interrupted waiting for transcript", err)
	}

	content, err := t.readFile(textPath)
	if err != nil {
		return "", job.NewStageError(job.StageTranscription, job.ArtifactFailure,
			fmt.Sprintf("whisper exited 0 but transcript %s is unreadable: %v", textPath, err), err)
	}
	if err := t.remove(textPath); err != nil {
		t.logger.Warn(ctx, "Failed to remove raw transcript %s: %v", textPath, err)
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		return "", job.NewStageError(job.StageTranscription, job.EmptyResultFailure,
			"whisper produced an empty transcript", nil)
	}

	t.logger.Info(ctx, "Transcription completed in %s (%d chars)", res.Duration, len(text))
	return text, nil
}

// normalizeLanguage maps "auto" and empty language to no CLI override.
func normalizeLanguage(raw string) string {
	lang := strings.TrimSpace(raw)
	if lang == "" || strings.EqualFold(lang, "auto") {
		return ""
	}
	return lang
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
