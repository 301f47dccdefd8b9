package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/hearing-digest/internal/config"
	"github.com/nguyentantai21042004/hearing-digest/internal/job"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
)

// Kind is the artifact family and the file name prefix.
type Kind string

const (
	KindTranscript Kind = "transcript"
	KindSummary    Kind = "summary"
)

const shortIDLen = 8

// Store persists transcripts and summaries as durable text files.
type Store struct {
	transcriptsDir string
	summariesDir   string
	docx           bool
	logger         logger.Logger
	now            func() time.Time
}

// New creates a Store writing into the configured artifact directories.
func New(paths config.PathsConfig, export config.ExportConfig, log logger.Logger) *Store {
	return &Store{
		transcriptsDir: paths.Transcripts,
		summariesDir:   paths.Summaries,
		docx:           export.Docx,
		logger:         log,
		now:            time.Now,
	}
}

// FileName builds <kind>_<YYYYMMDD_HHMMSS>[_<client>][_<case>]_<shortid>.txt.
func FileName(kind Kind, jobID string, meta job.Metadata, now time.Time) string {
	parts := []string{string(kind), now.Format("20060102_150405")}
	if c := Sanitize(meta.ClientName); c != "" {
		parts = append(parts, c)
	}
	if c := Sanitize(meta.CaseNumber); c != "" {
		parts = append(parts, c)
	}
	parts = append(parts, shortID(jobID))
	return strings.Join(parts, "_") + ".txt"
}

// WriteTranscript stores the transcript text and returns its path.
func (s *Store) WriteTranscript(ctx context.Context, jobID string, meta job.Metadata, text string) (string, error) {
	return s.write(ctx, KindTranscript, s.transcriptsDir, jobID, meta, text)
}

// WriteSummary stores the summary text and returns its path.
func (s *Store) WriteSummary(ctx context.Context, jobID string, meta job.Metadata, text string) (string, error) {
	return s.write(ctx, KindSummary, s.summariesDir, jobID, meta, text)
}

func (s *Store) write(ctx context.Context, kind Kind, dir, jobID string, meta job.Metadata, text string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s dir: %w", kind, err)
	}

	path := filepath.Join(dir, FileName(kind, jobID, meta, s.now()))
	if err := writeAtomic(path, []byte(text)); err != nil {
		return "", fmt.Errorf("write %s: %w", kind, err)
	}

	if s.docx {
		docxPath := strings.TrimSuffix(path, ".txt") + ".docx"
		if err := writeDocx(kind, title(kind, meta), text, docxPath); err != nil {
			s.logger.Warn(ctx, "Failed to write %s docx %s: %v", kind, docxPath, err)
		} else {
			s.logger.Debug(ctx, "Wrote %s docx: %s", kind, docxPath)
		}
	}

	s.logger.Info(ctx, "Saved %s: %s", kind, path)
	return path, nil
}

// writeAtomic writes into a temp file in the target dir and renames it into
// place so readers never see a partial artifact.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func title(kind Kind, meta job.Metadata) string {
	t := "Hearing Summary"
	if kind == KindTranscript {
		t = "Hearing Transcript"
	}
	var ref []string
	if meta.ClientName != "" {
		ref = append(ref, meta.ClientName)
	}
	if meta.CaseNumber != "" {
		ref = append(ref, "Case "+meta.CaseNumber)
	}
	if len(ref) > 0 {
		t += ": " + strings.Join(ref, ", ")
	}
	return t
}
