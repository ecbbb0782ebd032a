package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sloghttp "github.com/samber/slog-http"

	"github.com/avolkov/tgarchive/internal/modules/export/domain"
	exportService "github.com/avolkov/tgarchive/internal/modules/export/service"
	"github.com/avolkov/tgarchive/internal/shared/config"
)

const serviceName = "telegram-message-archiver"

// Server handles HTTP requests for batch exports
type Server struct {
	cfg    *config.Config
	export *exportService.Service
	logger *slog.Logger
}

// New creates a new HTTP server
func New(cfg *config.Config, export *exportService.Service) *Server {
	return &Server{
		cfg:    cfg,
		export: export,
		logger: slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("archiver server starting", "addr", addr)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(s.Handler())
	handler = sloghttp.New(s.logger)(handler)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute, // a batch run holds the request open
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// Handler builds the route mux without middleware, for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /process-messages", s.handleProcessMessages)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) handleProcessMessages(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Identifier file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	identifiers, err := exportService.ReadIdentifiers(file)
	if err != nil {
		http.Error(w, "Failed to read identifier file", http.StatusBadRequest)
		return
	}

	summary, err := s.export.Run(r.Context(), identifiers, window)
	if err != nil {
		s.logger.Error("batch run failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, map[string]any{"summary": exportService.Summarize(summary)})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

// parseWindow validates the optional from_date/to_date query parameters
// before any identifier is processed.
func parseWindow(r *http.Request) (domain.Window, error) {
	q := r.URL.Query()
	return domain.NewWindow(q.Get("from_date"), q.Get("to_date"))
}
