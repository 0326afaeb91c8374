// Package dashboard serves the account and tracking dashboard. It keeps
// accounts in the store and reaches the tracking service through the control
// API client.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ayusman/gazectl/internal/i18n"
	"github.com/ayusman/gazectl/internal/store"
)

// DefaultSessionTTL is how long a login lasts.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Tracker is the tracking control API as seen by the dashboard.
type Tracker interface {
	Start(ctx context.Context) (message string, ok bool, err error)
	Stop(ctx context.Context) (message string, ok bool, err error)
	Status(ctx context.Context) (enabled bool, err error)
}

// Config holds the dashboard configuration.
type Config struct {
	Addr    string
	Store   *store.Store
	Tracker Tracker
	// Catalog defaults to the embedded translations.
	Catalog *i18n.Catalog
	// DefaultLanguage is used until a user or the device picks one.
	DefaultLanguage string
	SessionTTL      time.Duration
	// SecureCookie marks the session cookie Secure.
	SecureCookie bool
	// Hasher defaults to bcrypt with the default cost.
	Hasher Hasher
	Logger zerolog.Logger
}

// Server is the dashboard web server.
type Server struct {
	config     Config
	router     *chi.Mux
	httpServer *http.Server
	validate   *validator.Validate
	logger     zerolog.Logger
}

// New creates a dashboard server.
func New(config Config) (*Server, error) {
	if config.Store == nil {
		return nil, errors.New("dashboard requires a store")
	}
	if config.Tracker == nil {
		return nil, errors.New("dashboard requires a tracker")
	}
	if config.Catalog == nil {
		config.Catalog = i18n.Default()
	}
	if config.DefaultLanguage == "" {
		config.DefaultLanguage = i18n.DefaultLanguage
	}
	if !config.Catalog.Has(config.DefaultLanguage) {
		return nil, fmt.Errorf("default language %q has no translations", config.DefaultLanguage)
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = DefaultSessionTTL
	}
	if config.Hasher == nil {
		config.Hasher = NewBcryptHasher(0)
	}

	r := chi.NewRouter()
	s := &Server{
		config:   config,
		router:   r,
		validate: validator.New(),
		logger:   config.Logger.With().Str("component", "dashboard").Logger(),
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              config.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/translations", s.handleTranslations)

		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Get("/profile", s.handleProfile)
			r.Put("/profile/language", s.handleSetLanguage)

			r.Post("/tracking/toggle", s.handleToggle)
			r.Get("/tracking/status", s.handleTrackingStatus)
		})
	})
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("dashboard listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start dashboard: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down dashboard: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
