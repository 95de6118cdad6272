package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthFunc reports whether the pipeline is ready: a live server handle is
// set and the token entry has loaded at least once.
type HealthFunc func(ctx context.Context) (status string, details map[string]any)

type Server struct {
	addr   string
	health HealthFunc
	server *http.Server
}

func NewServer(addr string, health HealthFunc) *Server {
	return &Server{addr: addr, health: health}
}

func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	slog.Info("observability server starting", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("observability server failed", "error", err)
		}
	}()

	return nil
}

// StatusOK is the healthy sentinel a HealthFunc returns; anything else is
// answered with 503 so load balancers treat the process as not ready.
const StatusOK = "ok"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, details := StatusOK, map[string]any(nil)
	if s.health != nil {
		status, details = s.health(r.Context())
	}
	w.Header().Set("Content-Type", "application/json")
	if status != StatusOK {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"details": details,
	})
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
