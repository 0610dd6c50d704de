// Package server hosts the streamable HTTP transport together with health and
// version endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/rag-mcp/internal/common"
	"github.com/bobmcallan/rag-mcp/internal/tools"
)

// Server manages the HTTP server and routes.
type Server struct {
	router   *http.ServeMux
	server   *http.Server
	registry *tools.Registry
	logger   *common.Logger
}

// New creates an HTTP server on port serving mcpHandler at /mcp.
func New(mcpHandler http.Handler, registry *tools.Registry, port int, logger *common.Logger) *Server {
	s := &Server{
		registry: registry,
		logger:   logger,
	}

	s.router = s.setupRoutes(mcpHandler)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.withMiddleware(s.router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// RAG queries may take up to the configured timeout, plus rendering.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start starts the HTTP server. It returns nil once Shutdown has been called.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.server.Addr).Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
