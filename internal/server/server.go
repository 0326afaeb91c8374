// Package server provides the tracking control HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Controller is the tracking lifecycle exposed over HTTP.
type Controller interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status() bool
}

// Config holds the server configuration.
type Config struct {
	Addr       string
	Controller Controller
	// Events serves /api/events when set.
	Events http.Handler
	// Metrics enables /metrics.
	Metrics bool
	// StopTimeout bounds how long /stop waits for the loop. Zero waits forever.
	StopTimeout time.Duration
	Logger      zerolog.Logger
}

// Server represents the control API server.
type Server struct {
	config     Config
	router     *chi.Mux
	httpServer *http.Server
	logger     zerolog.Logger
	start      time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	r := chi.NewRouter()
	s := &Server{
		config: config,
		router: r,
		logger: config.Logger.With().Str("component", "server").Logger(),
		start:  time.Now(),
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chiMiddleware.Recoverer)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              config.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.router.Get("/api/health", s.handleHealth)

	if s.config.Controller != nil {
		s.router.Post("/start", s.handleStart)
		s.router.Post("/stop", s.handleStop)
		s.router.Get("/status", s.handleStatus)
	}

	if s.config.Events != nil {
		s.router.Handle("/api/events", s.config.Events)
	}

	if s.config.Metrics {
		s.router.Handle("/metrics", promhttp.Handler())
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("control API listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
