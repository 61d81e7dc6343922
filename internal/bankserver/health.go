package bankserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// healthServer exposes /health and /metrics on a separate port from the
// bank protocol listener, mirroring the sidecar HTTP servers the pack's
// data-plane services run alongside their main transport.
type healthServer struct {
	server    *http.Server
	startedAt time.Time
}

// StartHealthServer starts the health/metrics HTTP endpoint in the
// background. Call Stop on the returned value during shutdown.
func (s *Server) StartHealthServer(port int) *healthServer {
	h := &healthServer{startedAt: time.Now()}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealthRequest(h))
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	h.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("health server failed", zap.Error(err))
		}
	}()
	s.logger.Info("health server started", zap.Int("port", port))
	return h
}

func (s *Server) handleHealthRequest(h *healthServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := s.metrics.Snapshot()
		body := map[string]any{
			"status":         "ok",
			"uptime_seconds": time.Since(h.startedAt).Seconds(),
			"clients":        s.store.ClientCount(),
			"accounts":       s.store.TotalAccountsCount(),
		}
		for k, v := range snapshot {
			body[k] = v
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}
}

// Stop shuts down the health server with a bounded grace period.
func (h *healthServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.server.Shutdown(ctx)
}
