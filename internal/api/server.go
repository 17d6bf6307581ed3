// Package api exposes the game over HTTP: JSON endpoints for the
// transitions and a server-sent event stream per game.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ServerConfig holds the listen address and timeouts for the HTTP server
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns the server defaults. The write timeout
// must stay well above the 15s SSE keepalive interval or event streams
// get cut mid-game.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Server runs the HTTP listener and drains in-flight requests on shutdown
type Server struct {
	inner           *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// NewServer creates a server around the given handler
func NewServer(handler http.Handler, config ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		inner: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
		},
		logger:          logger,
		shutdownTimeout: config.ShutdownTimeout,
	}
}

// Start listens until the server is shut down or fails
func (s *Server) Start() error {
	s.logger.Info("http server listening", slog.String("addr", s.inner.Addr))

	err := s.inner.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests,
// up to the configured shutdown timeout
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server draining")

	drainCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	if err := s.inner.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.inner.Addr
}
