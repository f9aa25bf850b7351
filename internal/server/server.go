// =============================================================================
// IN1888 Report Generator - HTTP Server
// =============================================================================
//
// This module exposes the generator over HTTP. An uploaded spreadsheet is
// converted in memory and both reports come back as one ZIP bundle.
//
// ROUTES:
//   POST /api/in1888   multipart form: file (required), sheet (optional)
//   GET  /healthz      liveness check
//
// MIDDLEWARE (outermost first):
//   1. Request ID   - X-Request-ID header, also used as the run ID
//   2. Access log   - one logrus entry per request
//   3. Rate limit   - token bucket on the API route only
//
// Every request runs its own pipeline; nothing is shared between requests
// except the configuration and the rate limiter.
//
// =============================================================================

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ginjaninja78/in1888-converter/internal/config"
	"github.com/ginjaninja78/in1888-converter/internal/logging"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// shutdownTimeout bounds how long in-flight requests get after the context
// passed to ListenAndServe is cancelled.
const shutdownTimeout = 10 * time.Second

// Server serves the IN1888 endpoint.
type Server struct {
	cfg     *config.Config
	logger  logrus.FieldLogger
	limiter *rate.Limiter
	handler http.Handler
}

// New creates a Server for cfg. A zero or negative requests_per_second
// disables throttling.
func New(cfg *config.Config, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}

	limit := rate.Inf
	if cfg.Server.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.Server.RequestsPerSecond)
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		limiter: rate.NewLimiter(limit, cfg.Server.Burst),
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/in1888", s.rateLimit(http.HandlerFunc(s.handleGenerate)))
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.handler = s.requestID(s.accessLog(mux))
	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. An empty addr uses the configured one.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = s.cfg.Server.Addr
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("address", addr).Info("Server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("Server stopped gracefully")
	return nil
}
