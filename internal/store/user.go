package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a dashboard account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	// Language is the preferred translation code. Empty means the device default.
	Language  string
	CreatedAt time.Time
}

// UserRepository provides operations on accounts.
type UserRepository struct {
	db *sql.DB
}

// Users returns the user repository for this store.
func (s *Store) Users() *UserRepository {
	return &UserRepository{db: s.db}
}

// Create inserts a new user and assigns its ID. Emails are unique ignoring case.
func (r *UserRepository) Create(u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.TrimSpace(u.Email)
	u.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO users (id, name, email, password_hash, language, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Language, u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

// GetByID retrieves a user by its ID.
func (r *UserRepository) GetByID(id string) (*User, error) {
	return r.get(`WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email, ignoring case.
func (r *UserRepository) GetByEmail(email string) (*User, error) {
	return r.get(`WHERE email = ?`, strings.TrimSpace(email))
}

func (r *UserRepository) get(where string, arg any) (*User, error) {
	u := &User{}
	err := r.db.QueryRow(
		`SELECT id, name, email, password_hash, language, created_at FROM users `+where,
		arg,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Language, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// SetLanguage updates a user's preferred language.
func (r *UserRepository) SetLanguage(id, language string) error {
	result, err := r.db.Exec(`UPDATE users SET language = ? WHERE id = ?`, language, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
