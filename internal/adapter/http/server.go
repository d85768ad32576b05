// Package http exposes the sampler's operational surface: health and
// readiness probes, prometheus metrics, and an on-demand report view.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the sampler is producing enriched
// records yet.
type ReadinessChecker interface {
	Ready() bool
}

// ReportSource renders the current report for ad-hoc inspection without
// waiting for the reporter's next cycle. ok is false while no records
// have been sampled.
type ReportSource interface {
	RenderReport() (report string, ok bool)
}

type statusResponse struct {
	Status string `json:"status"`
}

// Server hosts the ops endpoints alongside the sampling workers.
type Server struct {
	inner   *http.Server
	ready   ReadinessChecker
	reports ReportSource
	logger  *slog.Logger
}

// NewServer wires /healthz, /readyz, /metrics, and /report on addr.
func NewServer(addr string, ready ReadinessChecker, reports ReportSource, logger *slog.Logger) *Server {
	s := &Server{
		ready:   ready,
		reports: reports,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /report", s.handleReport)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.inner = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("ops server starting", "addr", s.inner.Addr)
	return s.inner.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.inner.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "healthy"})
}

// Readiness flips once the analyzer has stored its first record, so probes
// hold off until reports can have content behind them.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.ready.Ready() {
		writeJSON(w, http.StatusOK, statusResponse{Status: "ready"})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "not_ready"})
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	text, ok := s.reports.RenderReport()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "no_records_sampled"})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
