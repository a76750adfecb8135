package search

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"clone-social-client/internal/ident"
	"clone-social-client/internal/models"
)

// MinQueryLength is the shortest query sent to the server; shorter input
// produces a hint instead of a request.
const MinQueryLength = 2

// HintTooShort is shown for queries below the minimum length
const HintTooShort = "Type at least 2 characters to search"

// API is the slice of the remote client the search controller needs
type API interface {
	Search(ctx context.Context, query string) ([]models.User, error)
	ToggleFollow(ctx context.Context, userID string) (string, error)
}

// Result is the outcome of one search input event
type Result struct {
	Hint  string
	Users []models.User
	// Stale marks a response that was superseded by a newer query and
	// must not overwrite current results
	Stale bool
}

// Controller runs gated user search. Every accepted input issues exactly
// one request; responses carry a generation token and stale ones are
// discarded rather than overwriting newer results.
type Controller struct {
	api API

	mu      sync.Mutex
	gen     uint64
	results []models.User
}

// NewController creates a search controller
func NewController(api API) *Controller {
	return &Controller{api: api}
}

// Query handles one input event. Input shorter than MinQueryLength (after
// trimming) returns a hint without touching the network.
func (c *Controller) Query(ctx context.Context, input string) (Result, error) {
	query := strings.ToLower(strings.TrimSpace(input))
	if utf8.RuneCountInString(query) < MinQueryLength {
		return Result{Hint: HintTooShort}, nil
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	users, err := c.api.Search(ctx, query)
	if err != nil {
		return Result{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return Result{Stale: true}, nil
	}
	c.results = users
	return Result{Users: users}, nil
}

// Results returns the most recent non-stale result list
func (c *Controller) Results() []models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.User, len(c.results))
	copy(out, c.results)
	return out
}

// ToggleFollow follows or unfollows a result row's user. Following
// yourself is rejected locally.
func (c *Controller) ToggleFollow(ctx context.Context, currentUserID string, target interface{}) (string, error) {
	targetID := ident.Resolve(target)
	if targetID == "" {
		return "", ErrUnknownUser
	}
	if currentUserID != "" && currentUserID == targetID {
		return "", ErrSelfFollow
	}
	return c.api.ToggleFollow(ctx, targetID)
}
