package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ayusman/gazectl/internal/tracking"
)

// Response messages of the control API.
const (
	MsgStarted        = "Tracking started"
	MsgAlreadyRunning = "Tracking is already running"
	MsgStopped        = "Tracking stopped"
	MsgNotRunning     = "Tracking is not running"
	MsgStopTimeout    = "Timed out waiting for tracking to stop"
)

// MessageResponse is the body of /start and /stop.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusResponse is the body of /status.
type StatusResponse struct {
	TrackingEnabled bool `json:"tracking_enabled"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Message: message})
}

// handleStart handles POST /start.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.lifecycleContext(r.Context())
	defer cancel()

	err := s.config.Controller.Start(ctx)
	switch {
	case err == nil:
		writeMessage(w, http.StatusOK, MsgStarted)
	case errors.Is(err, tracking.ErrAlreadyRunning):
		writeMessage(w, http.StatusBadRequest, MsgAlreadyRunning)
	default:
		s.logger.Error().Err(err).Msg("start tracking")
		writeMessage(w, http.StatusInternalServerError, "Failed to start tracking: "+err.Error())
	}
}

// handleStop handles POST /stop. It replies after the loop has exited.
func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.lifecycleContext(r.Context())
	defer cancel()

	err := s.config.Controller.Stop(ctx)
	switch {
	case err == nil:
		writeMessage(w, http.StatusOK, MsgStopped)
	case errors.Is(err, tracking.ErrNotRunning):
		writeMessage(w, http.StatusBadRequest, MsgNotRunning)
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn().Dur("timeout", s.config.StopTimeout).Msg("tracking loop did not stop in time")
		writeMessage(w, http.StatusGatewayTimeout, MsgStopTimeout)
	default:
		s.logger.Error().Err(err).Msg("stop tracking")
		writeMessage(w, http.StatusInternalServerError, "Failed to stop tracking: "+err.Error())
	}
}

// handleStatus handles GET /status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{TrackingEnabled: s.config.Controller.Status()})
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.start).Round(time.Second).String(),
	})
}

func (s *Server) lifecycleContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.config.StopTimeout > 0 {
		return context.WithTimeout(parent, s.config.StopTimeout)
	}
	return context.WithCancel(parent)
}

// requestLogger logs each request at debug level.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", chiMiddleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
