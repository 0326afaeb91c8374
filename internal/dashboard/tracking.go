package dashboard

import "net/http"

type toggleRequest struct {
	// TrackingEnabled is the state the page currently shows.
	TrackingEnabled *bool `json:"tracking_enabled" validate:"required"`
}

// ToggleResponse is the body of a successful toggle.
type ToggleResponse struct {
	TrackingEnabled bool   `json:"tracking_enabled"`
	Message         string `json:"message"`
}

// TrackingStatusResponse is the body of /api/tracking/status. Known is false
// when the control API could not be reached.
type TrackingStatusResponse struct {
	TrackingEnabled *bool `json:"tracking_enabled,omitempty"`
	Known           bool  `json:"known"`
}

// handleToggle handles POST /api/tracking/toggle. It starts tracking when the
// page shows it off and stops it otherwise. Only the exact success message of
// the control API counts as success; there are no retries.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "fill_fields")
		return
	}
	lang := s.language(r)

	if !*req.TrackingEnabled {
		msg, ok, err := s.config.Tracker.Start(r.Context())
		if err != nil || !ok {
			s.logger.Warn().Err(err).Str("reply", msg).Msg("start tracking failed")
			s.respondError(w, r, http.StatusBadGateway, "failed_start")
			return
		}
		respondJSON(w, http.StatusOK, ToggleResponse{
			TrackingEnabled: true,
			Message:         s.config.Catalog.Translate(lang, "tracking_is_on"),
		})
		return
	}

	msg, ok, err := s.config.Tracker.Stop(r.Context())
	if err != nil || !ok {
		s.logger.Warn().Err(err).Str("reply", msg).Msg("stop tracking failed")
		s.respondError(w, r, http.StatusBadGateway, "failed_stop")
		return
	}
	respondJSON(w, http.StatusOK, ToggleResponse{
		TrackingEnabled: false,
		Message:         s.config.Catalog.Translate(lang, "tracking_is_off"),
	})
}

// handleTrackingStatus handles GET /api/tracking/status.
func (s *Server) handleTrackingStatus(w http.ResponseWriter, r *http.Request) {
	enabled, err := s.config.Tracker.Status(r.Context())
	if err != nil {
		s.logger.Debug().Err(err).Msg("tracking status unavailable")
		respondJSON(w, http.StatusOK, TrackingStatusResponse{Known: false})
		return
	}
	respondJSON(w, http.StatusOK, TrackingStatusResponse{TrackingEnabled: &enabled, Known: true})
}
