package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"clone-social-client/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// Keys for the persisted client state. These are fixed: the server version
// of the client stores the same entries.
const (
	KeyToken       = "clone_token"
	KeyCurrentUser = "clone_current_user"
	KeyTheme       = "clone_theme"
	KeySnowEnabled = "clone_snow_enabled"
)

// ErrNotFound is returned when a key has no stored value
var ErrNotFound = errors.New("store: key not found")

// Store is the local persistence layer: a small key-value table holding the
// credential, the serialized current user, and display preferences.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the local store at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize local store: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key from the store. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Token returns the persisted bearer credential, or "" when none is stored
func (s *Store) Token() string {
	token, err := s.Get(KeyToken)
	if err != nil {
		return ""
	}
	return token
}

// SetToken persists the bearer credential
func (s *Store) SetToken(token string) error {
	return s.Set(KeyToken, token)
}

// CurrentUser returns the persisted user record
func (s *Store) CurrentUser() (*models.User, error) {
	raw, err := s.Get(KeyCurrentUser)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed to decode stored user: %w", err)
	}
	return &user, nil
}

// SetCurrentUser persists the user record
func (s *Store) SetCurrentUser(user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return s.Set(KeyCurrentUser, string(raw))
}

// ClearSession removes the credential and the stored user record
func (s *Store) ClearSession() error {
	if err := s.Delete(KeyToken); err != nil {
		return err
	}
	return s.Delete(KeyCurrentUser)
}

// Theme returns the persisted theme preference, defaulting to "light"
func (s *Store) Theme() string {
	theme, err := s.Get(KeyTheme)
	if err != nil {
		return "light"
	}
	return theme
}

// SetTheme persists the theme preference
func (s *Store) SetTheme(theme string) error {
	return s.Set(KeyTheme, theme)
}

// SnowEnabled returns whether the decorative snow effect is enabled
func (s *Store) SnowEnabled() bool {
	v, err := s.Get(KeySnowEnabled)
	return err == nil && v == "true"
}

// SetSnowEnabled persists the decorative snow effect toggle
func (s *Store) SetSnowEnabled(enabled bool) error {
	if enabled {
		return s.Set(KeySnowEnabled, "true")
	}
	return s.Set(KeySnowEnabled, "false")
}
