// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"provider-visibility/internal/analysis/service"
	apperrors "provider-visibility/internal/common/errors"
	"provider-visibility/internal/common/logger"
	"provider-visibility/internal/common/observability"
)

// maxBodyBytes bounds the transcript upload.
const maxBodyBytes = 5 << 20

// Executor runs one analysis. *service.Handler implements it.
type Executor interface {
	Execute(ctx context.Context, input *service.Input) (*service.Output, error)
}

type Config struct {
	Address         string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	config     *Config
	router     *chi.Mux
	executor   Executor
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
	obs        *observability.Observability
}

func New(config *Config, executor Executor, log logger.Logger, obs *observability.Observability) *Server {
	if obs == nil {
		obs = &observability.Observability{}
	}
	s := &Server{
		config:   config,
		router:   chi.NewRouter(),
		executor: executor,
		logger:   log.With(map[string]interface{}{"component": "gateway"}),
		obs:      obs,
	}
	s.errHandler = apperrors.NewErrorHandler(s.logger)

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(requestID)
	s.router.Use(s.accessLog)
	s.router.Use(middleware.Recoverer)
	if s.config.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.config.RequestTimeout))
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/health", s.handleHealth)
	})
	s.router.Handle("/metrics", promhttp.Handler())
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gateway listening", map[string]interface{}{"address": s.config.Address})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("gateway stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("gateway shutting down", nil)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("gateway shutdown: %w", err)
	}
	return nil
}
