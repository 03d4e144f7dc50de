// Package debugapi serves the room state and metrics of a running session
// over HTTP for local inspection.
package debugapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Unnamed1242/mkw-sp/internal/lobby"
	"github.com/Unnamed1242/mkw-sp/internal/logger"
)

// Server exposes /room, /metrics and /healthz.
type Server struct {
	gatherer prometheus.Gatherer
	latest   atomic.Pointer[lobby.RoomSnapshot]
	http     *http.Server
}

// New creates a server that reports metrics from gatherer.
func New(gatherer prometheus.Gatherer) *Server {
	return &Server{gatherer: gatherer}
}

// Publish replaces the snapshot served on /room. Safe to call from the tick loop.
func (s *Server) Publish(snap *lobby.RoomSnapshot) {
	s.latest.Store(snap)
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/room", s.room)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) room(w http.ResponseWriter, r *http.Request) {
	snap := s.latest.Load()
	if snap == nil {
		http.Error(w, "no session", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

// Healthz always answers ok.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

// Start listens on addr in the background.
func (s *Server) Start(addr string) {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.LogInfo("debug api listening on %s", addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError("debug api stopped: %v", err)
		}
	}()
}

// Shutdown stops the listener started by Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
