package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/station-wind-etl/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReportSource exposes the outcome of the most recent batch.
type ReportSource interface {
	LastReport() (pipeline.Report, bool)
}

// BatchStatus is the JSON view of a batch report.
type BatchStatus struct {
	Started   time.Time    `json:"started"`
	Finished  time.Time    `json:"finished"`
	Files     int          `json:"files"`
	Succeeded int          `json:"succeeded"`
	Failures  []FileStatus `json:"failures,omitempty"`
}

// FileStatus names one failed file and its error.
type FileStatus struct {
	Station string `json:"station"`
	Path    string `json:"path"`
	Error   string `json:"error"`
}

// Server exposes health, readiness, status, and metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /status, and /metrics routes.
func NewServer(addr string, ready ReadinessChecker, reports ReportSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.HandleFunc("GET /status", handleStatus(reports))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func handleStatus(reports ReportSource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		report, ok := reports.LastReport()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"status": "no batch completed"})
			return
		}
		writeJSON(w, http.StatusOK, newBatchStatus(report))
	}
}

func newBatchStatus(r pipeline.Report) BatchStatus {
	status := BatchStatus{
		Started:   r.Started,
		Finished:  r.Finished,
		Files:     len(r.Files),
		Succeeded: r.Succeeded(),
	}
	for _, f := range r.Failed() {
		status.Failures = append(status.Failures, FileStatus{
			Station: f.Station,
			Path:    f.Path,
			Error:   f.Err.Error(),
		})
	}
	return status
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
