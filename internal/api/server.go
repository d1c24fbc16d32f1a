package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/oldlogancap/logan-screener/internal/api/handlers"
	"github.com/oldlogancap/logan-screener/pkg/config"
	"github.com/oldlogancap/logan-screener/pkg/logger"
)

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

// NewServer creates the API server with its routes wired.
func NewServer(cfg *config.Config, h *handlers.Handler, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      NewRouter(h, log),
			ReadTimeout:  15 * time.Second,
			// Long enough for a full screening run over a large universe.
			WriteTimeout: 10 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		logger: log,
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("api server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("api server shutting down")
	return s.httpServer.Shutdown(ctx)
}
