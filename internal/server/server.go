// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"mergington-activities/internal/common/config"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/enrollment"
	"mergington-activities/internal/handlers/activities"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	cfg        *config.Config
	logger     logger.Logger
	handler    http.Handler
	httpServer *http.Server
	ready      atomic.Bool
}

func New(cfg *config.Config, svc enrollment.Service, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Server{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "http-server"}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.redirectToIndex)
	mux.Handle("GET "+cfg.Server.StaticPrefix, staticHandler(cfg.Server.StaticDir, cfg.Server.StaticPrefix))
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /ready", s.readiness)
	mux.Handle("GET "+cfg.Observability.MetricsPath, promhttp.Handler())
	activities.NewHandler(svc, log).Register(mux)

	s.handler = withRecovery(s.logger, withRequestLogging(s.logger, mux))
	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      s.handler,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	return s
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) Start() error {
	s.ready.Store(true)
	s.logger.Info("http server listening", map[string]interface{}{"address": s.cfg.Server.Address})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.ready.Store(false)
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.ready.Store(false)
	return s.httpServer.Shutdown(ctx)
}

// SetReady toggles the /ready probe.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

func (s *Server) redirectToIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.cfg.Server.IndexURL(), http.StatusTemporaryRedirect)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, "healthy")
}

func (s *Server) readiness(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeStatus(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	writeStatus(w, http.StatusOK, "ready")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}

// staticHandler serves dir under prefix. http.FileServer answers ".../index.html"
// with a redirect to the directory, so those paths are served in place.
func staticHandler(dir, prefix string) http.Handler {
	files := http.StripPrefix(strings.TrimSuffix(prefix, "/"), http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/index.html") {
			r = r.Clone(r.Context())
			r.URL.Path = strings.TrimSuffix(r.URL.Path, "index.html")
			r.URL.RawPath = ""
		}
		files.ServeHTTP(w, r)
	})
}
