package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"clone-social-client/internal/api"
	"clone-social-client/internal/ident"
	"clone-social-client/internal/models"
	"clone-social-client/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNoSession is returned when no session can be established or restored
	ErrNoSession = errors.New("session: no active session")
	// ErrBanned is returned when the account is banned
	ErrBanned = errors.New("session: account is banned")
	// ErrInvalidName is returned for a display name outside the allowed
	// alphabet (letters and spaces, Latin or Cyrillic)
	ErrInvalidName = errors.New("session: name may only contain letters and spaces")
	// ErrInvalidUsername is returned for a handle outside [A-Za-z0-9_]
	ErrInvalidUsername = errors.New("session: username may only contain letters, numbers and underscores")
)

var (
	nameRe     = regexp.MustCompile(`^[A-Za-zА-Яа-яЁё ]+$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// API is the slice of the remote client the session manager needs
type API interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Register(ctx context.Context, name, username, email, password string) (string, *models.User, error)
	Me(ctx context.Context) (*models.User, error)
	DeleteAccount(ctx context.Context) error
	UpdateProfile(ctx context.Context, name, username, bio string) (*models.User, error)
	UploadAvatar(ctx context.Context, file api.Upload) (string, error)
	RequestVerification(ctx context.Context) (string, error)
	SetToken(token string)
}

// Manager owns the process-wide session: the bearer credential and the
// current user record, persisted to the local store and restored on
// startup. The admin role is read from the credential's claims once, when
// the session is established.
type Manager struct {
	api   API
	store *store.Store

	mu    sync.RWMutex
	token string
	user  *models.User
	admin bool
}

// NewManager creates a new session manager
func NewManager(api API, st *store.Store) *Manager {
	return &Manager{api: api, store: st}
}

// Restore re-establishes a session from the local store. The stored
// credential is verified against the remote API; a banned or rejected
// credential is cleared. When the API is unreachable, a stored user record
// still restores an offline session.
func (m *Manager) Restore(ctx context.Context) error {
	token := m.store.Token()
	if token == "" {
		return m.restoreOffline()
	}

	m.api.SetToken(token)
	user, err := m.api.Me(ctx)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			// credential no longer accepted
			m.api.SetToken("")
			if clearErr := m.store.ClearSession(); clearErr != nil {
				log.Warn().Err(clearErr).Msg("Failed to clear stored session")
			}
			return ErrNoSession
		}
		log.Warn().Err(err).Msg("API unreachable, trying offline restore")
		if offErr := m.restoreOffline(); offErr != nil {
			m.api.SetToken("")
			return offErr
		}
		m.adopt(token, m.Current())
		return nil
	}

	if user.Banned {
		m.api.SetToken("")
		if err := m.store.ClearSession(); err != nil {
			log.Warn().Err(err).Msg("Failed to clear stored session")
		}
		return ErrBanned
	}

	m.adopt(token, user)
	if err := m.store.SetCurrentUser(user); err != nil {
		log.Warn().Err(err).Msg("Failed to persist restored user")
	}
	log.Info().Str("user_id", user.ID).Msg("Session restored")
	return nil
}

func (m *Manager) restoreOffline() error {
	user, err := m.store.CurrentUser()
	if err != nil {
		return ErrNoSession
	}
	if user.Banned {
		_ = m.store.ClearSession()
		return ErrBanned
	}
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return nil
}

// Login authenticates and persists the resulting session
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	token, user, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user.Banned {
		return nil, ErrBanned
	}
	if err := m.persist(token, user); err != nil {
		return nil, err
	}
	m.adopt(token, user)
	log.Info().Str("user_id", user.ID).Msg("Logged in")
	return user, nil
}

// Register creates an account and persists the resulting session
func (m *Manager) Register(ctx context.Context, name, username, email, password string) (*models.User, error) {
	token, user, err := m.api.Register(ctx, name, username, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.persist(token, user); err != nil {
		return nil, err
	}
	m.adopt(token, user)
	log.Info().Str("user_id", user.ID).Msg("Registered")
	return user, nil
}

// Logout destroys the session and the persisted credential
func (m *Manager) Logout() {
	m.clear()
	log.Info().Msg("Logged out")
}

// DeleteAccount deletes the remote account and destroys the session
func (m *Manager) DeleteAccount(ctx context.Context) error {
	if err := m.api.DeleteAccount(ctx); err != nil {
		return err
	}
	m.clear()
	return nil
}

// ForceClear destroys the session without a remote call. Used when the
// push channel delivers a ban notice.
func (m *Manager) ForceClear() {
	m.clear()
	log.Warn().Msg("Session cleared by server notice")
}

// Current returns the current user record, or nil when signed out
func (m *Manager) Current() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// SetCurrent replaces the current user record (after a profile update)
// and persists it
func (m *Manager) SetCurrent(user *models.User) {
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	if err := m.store.SetCurrentUser(user); err != nil {
		log.Warn().Err(err).Msg("Failed to persist user record")
	}
}

// UpdateProfile validates and applies profile changes, adopting the
// updated record as the current user
func (m *Manager) UpdateProfile(ctx context.Context, name, username, bio string) (*models.User, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	if !nameRe.MatchString(name) {
		return nil, ErrInvalidName
	}
	if !usernameRe.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	user, err := m.api.UpdateProfile(ctx, name, username, bio)
	if err != nil {
		return nil, err
	}
	m.SetCurrent(user)
	return user, nil
}

// UploadAvatar uploads a new avatar and records its reference on the
// current user
func (m *Manager) UploadAvatar(ctx context.Context, file api.Upload) (string, error) {
	ref, err := m.api.UploadAvatar(ctx, file)
	if err != nil {
		return "", err
	}
	if current := m.Current(); current != nil {
		updated := *current
		updated.Avatar = ref
		m.SetCurrent(&updated)
	}
	return ref, nil
}

// RequestVerification submits a verification request and marks the current
// user as pending
func (m *Manager) RequestVerification(ctx context.Context) (string, error) {
	message, err := m.api.RequestVerification(ctx)
	if err != nil {
		return "", err
	}
	if current := m.Current(); current != nil {
		updated := *current
		updated.VerificationRequested = true
		m.SetCurrent(&updated)
	}
	return message, nil
}

// UserID returns the normalized identifier of the current user, or ""
func (m *Manager) UserID() string {
	return ident.Resolve(m.Current())
}

// Token returns the current bearer credential
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// IsAdmin reports whether the session credential carries the admin role
func (m *Manager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.admin
}

func (m *Manager) persist(token string, user *models.User) error {
	if err := m.store.SetToken(token); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	if err := m.store.SetCurrentUser(user); err != nil {
		return fmt.Errorf("failed to persist user record: %w", err)
	}
	return nil
}

func (m *Manager) adopt(token string, user *models.User) {
	m.api.SetToken(token)
	admin := roleClaim(token) == "admin"
	m.mu.Lock()
	m.token = token
	m.user = user
	m.admin = admin
	m.mu.Unlock()
}

func (m *Manager) clear() {
	m.api.SetToken("")
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.admin = false
	m.mu.Unlock()
	if err := m.store.ClearSession(); err != nil {
		log.Warn().Err(err).Msg("Failed to clear stored session")
	}
}

// roleClaim extracts the role claim from the bearer credential. The server
// signed the token; the client only mirrors what it was issued, so the
// signature is not re-verified here.
func roleClaim(token string) string {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return ""
	}
	role, ok := claims["role"].(string)
	if !ok {
		return ""
	}
	return role
}
