package status

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dagnet/noded/internal/status/metrics"
)

// Server provides the HTTP surface for node status.
type Server struct {
	svc    *Service
	server *http.Server
	log    *slog.Logger
}

// NewServer creates a new status server.
func NewServer(svc *Service, port int, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	mux := http.NewServeMux()
	s := &Server{
		svc: svc,
		log: log,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/healthz", s.handleLiveness)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleStatus serves the aggregated status document. The response is
// 200 whether or not the node is healthy; the verdict lives in the
// body. The one exception is a database failure, which surfaces as a
// server error.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Status(r.Context())
	if err != nil {
		metrics.StatusRequestsTotal.WithLabelValues("error").Inc()
		s.log.Error("Status computation failed", "error", err)
		http.Error(w, "status computation failed", http.StatusInternalServerError)
		return
	}

	outcome := "ok"
	if !st.Ok {
		outcome = "degraded"
	}
	metrics.StatusRequestsTotal.WithLabelValues(outcome).Inc()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(st); err != nil {
		s.log.Error("Failed to write status response", "error", err)
	}
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
