// Package api exposes the cost engine over HTTP. Every request carries
// its own batch, so each handler constructs a fresh engine; nothing is
// shared across requests. All caller-data failures map to 400.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/warecost-io/warecost/pkg/config"
)

// Server is the WareCost HTTP API.
type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	version string
	router  chi.Router
}

// New creates a Server wired with its routes.
func New(cfg *config.Config, logger *slog.Logger, version string) *Server {
	s := &Server{
		cfg:     cfg,
		log:     logger,
		version: version,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Post("/v1/analyze", s.handleAnalyze)
	r.Post("/v1/anomalies", s.handleAnomalies)
	r.Post("/v1/breakdown/{dimension}", s.handleBreakdown)
	r.Post("/v1/budget-check", s.handleBudgetCheck)
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the API server with graceful shutdown support.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("warecost api listening", "addr", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}
