package dashboard

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ayusman/gazectl/internal/store"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileResponse describes the logged-in user.
type ProfileResponse struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Language  string   `json:"language"`
	Languages []string `json:"languages"`
}

// validationKey maps a decode or validation failure to a translation key.
func validationKey(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "email" {
				return "invalid_email"
			}
		}
	}
	return "fill_fields"
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, validationKey(err))
		return
	}

	hash, err := s.config.Hasher.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("hash password")
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: "failed to create account"})
		return
	}

	user := &store.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Language:     s.language(r),
	}
	if err := s.config.Store.Users().Create(user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			s.respondError(w, r, http.StatusConflict, "account_exists")
			return
		}
		s.logger.Error().Err(err).Msg("create user")
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: "failed to create account"})
		return
	}

	s.logger.Info().Str("user_id", user.ID).Msg("account created")
	s.startSession(w, user, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "fill_fields")
		return
	}

	user, err := s.config.Store.Users().GetByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error().Err(err).Msg("load user")
		}
		s.respondError(w, r, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if err := s.config.Hasher.ComparePassword(user.PasswordHash, req.Password); err != nil {
		s.respondError(w, r, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	s.startSession(w, user, http.StatusOK)
}

// startSession logs user in, remembers their language on this device and
// replies with the profile.
func (s *Server) startSession(w http.ResponseWriter, user *store.User, status int) {
	sess, err := s.config.Store.Sessions().Create(user.ID, s.config.SessionTTL)
	if err != nil {
		s.logger.Error().Err(err).Msg("create session")
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: "failed to start session"})
		return
	}

	if user.Language != "" {
		s.rememberLanguage(user.Language)
	}

	s.setSessionCookie(w, sess)
	respondJSON(w, status, s.profile(user))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		if err := s.config.Store.Sessions().Delete(cookie.Value); err != nil {
			s.logger.Error().Err(err).Msg("delete session")
		}
	}
	s.clearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]bool{"logged_in": false})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.profile(userFromContext(r.Context())))
}

func (s *Server) profile(user *store.User) ProfileResponse {
	lang := user.Language
	if !s.config.Catalog.Has(lang) {
		lang = s.deviceLanguage()
	}
	return ProfileResponse{
		Name:      user.Name,
		Email:     user.Email,
		Language:  lang,
		Languages: s.config.Catalog.Languages(),
	}
}
