package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nguyentantai21042004/hearing-digest/internal/job"
	"github.com/nguyentantai21042004/hearing-digest/internal/service"
)

var allowedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".ogg":  true,
	".flac": true,
	".webm": true,
	".mp4":  true,
	".aac":  true,
}

type submitResponse struct {
	ID     string     `json:"id"`
	Status job.Status `json:"overallStatus"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Health())
}

func (s *Server) handleListJobs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.List())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Status(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAttach(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Attach(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, service.ErrAttachFailed) {
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error(), "job": view})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", s.maxUpload))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type %q", ext))
		return
	}

	path, err := s.saveUpload(file, ext)
	if err != nil {
		s.logger.Error(r.Context(), "Failed to store upload %s: %v", header.Filename, err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	meta := job.Metadata{
		ClientName:       strings.TrimSpace(r.FormValue("clientName")),
		CaseNumber:       strings.TrimSpace(r.FormValue("caseNumber")),
		MeetingNotes:     r.FormValue("meetingNotes"),
		OriginalFileName: header.Filename,
		UploadedAt:       time.Now(),
		AttachRequested:  parseBool(r.FormValue("attach")),
	}

	id, err := s.svc.Submit(r.Context(), service.SubmitRequest{SourcePath: path, Metadata: meta})
	if err != nil {
		os.Remove(path)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, submitResponse{ID: id, Status: job.StatusStarted})
}

func (s *Server) saveUpload(src io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(s.uploadsDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(s.uploadsDir, uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPrecondition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidSubmission):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
