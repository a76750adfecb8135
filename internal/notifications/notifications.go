package notifications

import (
	"context"
	"sync"

	"clone-social-client/internal/models"
)

// API is the slice of the remote client the notifications panel needs
type API interface {
	Notifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationsRead(ctx context.Context) error
}

// Controller owns the notifications panel state: the list is fetched when
// the panel opens and mutated by the mark-all-read bulk action.
type Controller struct {
	api API

	mu    sync.Mutex
	items []models.Notification
}

// NewController creates a notifications controller
func NewController(api API) *Controller {
	return &Controller{api: api}
}

// Load fetches the notification list, replacing the cached copy
func (c *Controller) Load(ctx context.Context) ([]models.Notification, error) {
	items, err := c.api.Notifications(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return items, nil
}

// Items returns a snapshot of the cached list
func (c *Controller) Items() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// UnreadCount returns the number of cached unread notifications
func (c *Controller) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, n := range c.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkAllRead marks every notification as read on the server and flips the
// local read flags on success
func (c *Controller) MarkAllRead(ctx context.Context) error {
	if err := c.api.MarkNotificationsRead(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	for i := range c.items {
		c.items[i].Read = true
	}
	c.mu.Unlock()
	return nil
}
