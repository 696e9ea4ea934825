package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"adgen_backend/logging"
)

// ServerConfig configures an API server instance.
type ServerConfig struct {
	// Host to bind to (default: "0.0.0.0")
	Host string

	// Port to listen on
	Port int

	// ReadTimeout for HTTP requests (default: 30s)
	ReadTimeout time.Duration

	// WriteTimeout for HTTP responses (default: 120s, generation can be slow)
	WriteTimeout time.Duration

	// IdleTimeout for keep-alive connections (default: 120s)
	IdleTimeout time.Duration

	// ShutdownTimeout for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration

	// LogSkipPaths are paths served without a request log line
	LogSkipPaths []string
}

// DefaultServerConfig returns a ServerConfig with sensible defaults for the
// given port.
func DefaultServerConfig(port int) ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            port,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    120 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		LogSkipPaths:    []string{"/api/health"},
	}
}

// RouteRegistrar is implemented by handler groups that install their routes
// on a ServeMux.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Server wraps an http.Server with request logging middleware and graceful
// shutdown. The image and ad services each run one Server instance.
type Server struct {
	name       string
	httpServer *http.Server
	config     ServerConfig
	logger     *logging.Logger
}

// NewServer creates a server that serves the given handler group's routes.
// name appears in log lines to tell the two services apart.
func NewServer(name string, config ServerConfig, handlers RouteRegistrar, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux)

	loggingMw := NewLoggingMiddleware(logger.Named(name), config.LogSkipPaths)

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	return &Server{
		name:   name,
		config: config,
		logger: logger,
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      loggingMw.Handler(mux),
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}
}

// Start begins listening for HTTP requests. It blocks until the server is
// shut down; a graceful shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Infow("API server starting",
		"service", s.name,
		"addr", s.httpServer.Addr,
	)

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server error: %w", s.name, err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down API server", "service", s.name)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s shutdown error: %w", s.name, err)
	}

	s.logger.Infow("API server stopped", "service", s.name)
	return nil
}

// Addr returns the server's bind address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
