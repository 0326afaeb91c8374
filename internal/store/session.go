package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is a login session.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has expired at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionRepository provides operations on login sessions.
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db, now: time.Now}
}

// Create starts a session for userID valid for ttl.
func (r *SessionRepository) Create(userID string, ttl time.Duration) (*Session, error) {
	now := r.now()
	sess := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		sess.Token, sess.UserID, sess.CreatedAt, sess.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns a live session. Expired sessions are deleted and reported as ErrNotFound.
func (r *SessionRepository) Get(token string) (*Session, error) {
	sess := &Session{}
	err := r.db.QueryRow(
		`SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?`,
		token,
	).Scan(&sess.Token, &sess.UserID, &sess.CreatedAt, &sess.ExpiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if sess.Expired(r.now()) {
		r.Delete(token)
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (r *SessionRepository) Delete(token string) error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	return err
}

// DeleteExpired removes all sessions expired at the current time and
// returns how many were removed.
func (r *SessionRepository) DeleteExpired() (int, error) {
	rows, err := r.db.Query(`SELECT token, expires_at FROM sessions`)
	if err != nil {
		return 0, err
	}

	now := r.now()
	var expired []string
	for rows.Next() {
		var token string
		var expiresAt time.Time
		if err := rows.Scan(&token, &expiresAt); err != nil {
			rows.Close()
			return 0, err
		}
		if !now.Before(expiresAt) {
			expired = append(expired, token)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	for _, token := range expired {
		if err := r.Delete(token); err != nil {
			return 0, err
		}
	}
	return len(expired), nil
}
