package admin

import (
	"context"
	"errors"
	"sync"

	"clone-social-client/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrForbidden is returned when the session does not carry the admin role
var ErrForbidden = errors.New("admin: access denied")

// View identifies the active list in the moderation panel
type View string

const (
	ViewAll      View = "all"
	ViewBanned   View = "banned"
	ViewRequests View = "verification_requests"
	ViewVerified View = "verified_users"
)

// API is the slice of the remote client the admin panel needs
type API interface {
	AdminStats(ctx context.Context) (*models.AdminStats, error)
	AdminUsers(ctx context.Context, search string) ([]models.User, error)
	AdminBannedUsers(ctx context.Context, search string) ([]models.User, error)
	BanUser(ctx context.Context, userID string) error
	UnbanUser(ctx context.Context, userID string) error
	AdminDeletePost(ctx context.Context, postID string) error
	VerificationRequests(ctx context.Context) ([]models.User, error)
	VerifiedUsers(ctx context.Context) ([]models.User, error)
	ApproveVerification(ctx context.Context, userID string) error
	RejectVerification(ctx context.Context, userID string) error
	RevokeVerification(ctx context.Context, userID string) error
}

// Session reports whether the current session is privileged
type Session interface {
	IsAdmin() bool
}

// Confirm asks the user to confirm a destructive action. A nil Confirm
// accepts everything.
type Confirm func(prompt string) bool

// Controller drives the moderation panel. Every mutating action re-fetches
// the active list so the panel reflects the new authoritative state.
type Controller struct {
	api     API
	session Session
	confirm Confirm

	mu     sync.Mutex
	view   View
	search string
	users  []models.User
	stats  models.AdminStats
}

// NewController creates an admin controller
func NewController(api API, session Session, confirm Confirm) *Controller {
	if confirm == nil {
		confirm = func(string) bool { return true }
	}
	return &Controller{api: api, session: session, confirm: confirm}
}

func (c *Controller) guard() error {
	if !c.session.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// LoadStats fetches the dashboard counters
func (c *Controller) LoadStats(ctx context.Context) (*models.AdminStats, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	stats, err := c.api.AdminStats(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.stats = *stats
	c.mu.Unlock()
	return stats, nil
}

// ShowUsers switches to the all-users or banned-users list, optionally
// filtered by a search string
func (c *Controller) ShowUsers(ctx context.Context, view View, search string) ([]models.User, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	if view != ViewAll && view != ViewBanned {
		view = ViewAll
	}
	c.mu.Lock()
	c.view = view
	c.search = search
	c.mu.Unlock()
	return c.reloadView(ctx)
}

// ShowVerificationRequests switches to the pending-requests list
func (c *Controller) ShowVerificationRequests(ctx context.Context) ([]models.User, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.view = ViewRequests
	c.search = ""
	c.mu.Unlock()
	return c.reloadView(ctx)
}

// ShowVerifiedUsers switches to the verified-users list
func (c *Controller) ShowVerifiedUsers(ctx context.Context) ([]models.User, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.view = ViewVerified
	c.search = ""
	c.mu.Unlock()
	return c.reloadView(ctx)
}

// reloadView re-fetches the active list from the server
func (c *Controller) reloadView(ctx context.Context) ([]models.User, error) {
	c.mu.Lock()
	view, search := c.view, c.search
	c.mu.Unlock()

	var (
		users []models.User
		err   error
	)
	switch view {
	case ViewBanned:
		users, err = c.api.AdminBannedUsers(ctx, search)
	case ViewRequests:
		users, err = c.api.VerificationRequests(ctx)
	case ViewVerified:
		users, err = c.api.VerifiedUsers(ctx)
	default:
		users, err = c.api.AdminUsers(ctx, search)
	}
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.users = users
	c.mu.Unlock()
	return users, nil
}

// Users returns a snapshot of the active list
func (c *Controller) Users() []models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.User, len(c.users))
	copy(out, c.users)
	return out
}

// Ban bans a user after confirmation, then re-fetches the active list and
// the stats
func (c *Controller) Ban(ctx context.Context, userID string) error {
	return c.moderate(ctx, userID, "Ban this user?", c.api.BanUser)
}

// Unban lifts a ban after confirmation, then re-fetches the active list
// and the stats
func (c *Controller) Unban(ctx context.Context, userID string) error {
	return c.moderate(ctx, userID, "Unban this user?", c.api.UnbanUser)
}

func (c *Controller) moderate(ctx context.Context, userID, prompt string, action func(context.Context, string) error) error {
	if err := c.guard(); err != nil {
		return err
	}
	if !c.confirm(prompt) {
		return nil
	}
	if err := action(ctx, userID); err != nil {
		return err
	}
	if _, err := c.reloadView(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to reload user list")
	}
	if _, err := c.LoadStats(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to reload stats")
	}
	return nil
}

// DeletePost hard-deletes a post after confirmation
func (c *Controller) DeletePost(ctx context.Context, postID string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if !c.confirm("Delete this post?") {
		return nil
	}
	return c.api.AdminDeletePost(ctx, postID)
}

// Approve approves a pending verification request and re-fetches the list
func (c *Controller) Approve(ctx context.Context, userID string) error {
	return c.verification(ctx, userID, "Approve this verification request?", c.api.ApproveVerification)
}

// Reject rejects a pending verification request and re-fetches the list
func (c *Controller) Reject(ctx context.Context, userID string) error {
	return c.verification(ctx, userID, "Reject this verification request?", c.api.RejectVerification)
}

// Revoke removes verification from a user and re-fetches the list
func (c *Controller) Revoke(ctx context.Context, userID string) error {
	return c.verification(ctx, userID, "Revoke verification from this user?", c.api.RevokeVerification)
}

func (c *Controller) verification(ctx context.Context, userID, prompt string, action func(context.Context, string) error) error {
	if err := c.guard(); err != nil {
		return err
	}
	if !c.confirm(prompt) {
		return nil
	}
	if err := action(ctx, userID); err != nil {
		return err
	}
	if _, err := c.reloadView(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to reload verification list")
	}
	return nil
}
