package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nguyentantai21042004/hearing-digest/internal/config"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
	"github.com/nguyentantai21042004/hearing-digest/internal/service"
)

// multipart parts above this size spill to temp files
const multipartMemory = 32 << 20

type Server struct {
	svc        service.Service
	logger     logger.Logger
	uploadsDir string
	maxUpload  int64

	router *mux.Router
	server *http.Server
}

func NewServer(cfg *config.Config, svc service.Service, log logger.Logger) *Server {
	s := &Server{
		svc:        svc,
		logger:     log,
		uploadsDir: cfg.Paths.Uploads,
		maxUpload:  cfg.Server.MaxUploadMB << 20,
		router:     mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	// Routes live on the root router so a method mismatch answers 405.
	s.router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/jobs", s.handleUpload).Methods(http.MethodPost)
	s.router.HandleFunc("/api/jobs", s.handleListJobs).Methods(http.MethodGet)
	s.router.HandleFunc("/api/jobs/{id}", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/api/jobs/{id}/attach", s.handleAttach).Methods(http.MethodPost)
}
