package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/ayusman/gazectl/internal/store"
)

// SessionCookie is the name of the login cookie.
const SessionCookie = "gazectl_session"

type contextKey string

const userContextKey contextKey = "user"

// requireSession rejects requests without a live session and stores the
// logged-in user in the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := s.sessionUser(r)
		if user == nil {
			s.respondError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the user stored by requireSession.
func userFromContext(ctx context.Context) *store.User {
	user, _ := ctx.Value(userContextKey).(*store.User)
	return user
}

// sessionUser resolves the session cookie to a user, or nil.
func (s *Server) sessionUser(r *http.Request) *store.User {
	if user := userFromContext(r.Context()); user != nil {
		return user
	}

	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	sess, err := s.config.Store.Sessions().Get(cookie.Value)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error().Err(err).Msg("load session")
		}
		return nil
	}

	user, err := s.config.Store.Users().GetByID(sess.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error().Err(err).Msg("load session user")
		}
		return nil
	}
	return user
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess *store.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.SecureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.SessionTTL.Seconds()),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.SecureCookie,
		MaxAge:   -1,
	})
}
