package feed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"clone-social-client/internal/api"
	"clone-social-client/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrEmptyPost is returned when a composed post has neither text nor media
var ErrEmptyPost = errors.New("feed: post needs text or media")

// scrollThreshold is the fraction of the page height past which an append
// load is triggered
const scrollThreshold = 0.9

// commentGuardWindow is the re-entrancy window for comment submission:
// a second submit for the same post inside the window is dropped.
const commentGuardWindow = time.Second

// API is the slice of the remote client the feed controller needs
type API interface {
	Feed(ctx context.Context, page, limit int) ([]models.Post, error)
	UserPosts(ctx context.Context, userID string) ([]models.Post, error)
	CreatePost(ctx context.Context, content string, media []api.Upload) error
	ToggleReaction(ctx context.Context, postID, kind string) (map[string][]string, error)
	AddComment(ctx context.Context, postID, text string) (*models.Comment, error)
}

// Sink receives render instructions as the caches mutate. A full reload
// renders from scratch; appends, reaction updates and comment merges only
// touch the affected fragment.
type Sink interface {
	RenderAll(posts []models.Post)
	RenderAppend(posts []models.Post)
	RenderPrepend(post models.Post)
	RenderProfile(posts []models.Post)
	RenderReactions(postID string, reactions map[string][]string)
	RenderComment(postID string, comment models.Comment)
	RemovePost(postID string)
}

// NopSink is a Sink that renders nothing
type NopSink struct{}

func (NopSink) RenderAll([]models.Post)                     {}
func (NopSink) RenderAppend([]models.Post)                  {}
func (NopSink) RenderPrepend(models.Post)                   {}
func (NopSink) RenderProfile([]models.Post)                 {}
func (NopSink) RenderReactions(string, map[string][]string) {}
func (NopSink) RenderComment(string, models.Comment)        {}
func (NopSink) RemovePost(string)                           {}

// Controller owns the feed and profile post caches: pagination state, the
// reaction/comment synchronizer, and the merge paths used by push events.
type Controller struct {
	api      API
	sink     Sink
	pageSize int

	mu        sync.Mutex
	page      int
	inFlight  bool
	exhausted bool
	posts     []models.Post

	profilePosts []models.Post
	profileGen   uint64

	lastCommentAt map[string]time.Time
}

// NewController creates a feed controller with the given page size
func NewController(api API, sink Sink, pageSize int) *Controller {
	if sink == nil {
		sink = NopSink{}
	}
	return &Controller{
		api:           api,
		sink:          sink,
		pageSize:      pageSize,
		page:          1,
		lastCommentAt: make(map[string]time.Time),
	}
}

// Reset returns pagination to its initial state. Called on explicit refresh
// and when the feed is first shown empty.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.page = 1
	c.inFlight = false
	c.exhausted = false
	c.mu.Unlock()
}

// Load fetches one page of the feed. With append false the cached list is
// replaced and fully re-rendered; with append true the new posts are
// concatenated and only the incremental fragment is rendered. The call is a
// no-op while a load is in flight, or when the feed is exhausted and append
// is requested.
func (c *Controller) Load(ctx context.Context, append bool) error {
	c.mu.Lock()
	if c.inFlight || (c.exhausted && append) {
		c.mu.Unlock()
		return nil
	}
	c.inFlight = true
	page := c.page
	c.mu.Unlock()

	posts, err := c.api.Feed(ctx, page, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		return err
	}

	if append {
		c.posts = concat(c.posts, posts)
		c.sink.RenderAppend(posts)
	} else {
		c.posts = posts
		c.sink.RenderAll(posts)
	}

	if len(posts) < c.pageSize {
		c.exhausted = true
	} else {
		c.page++
	}
	log.Debug().Int("count", len(posts)).Int("page", page).Msg("Feed page loaded")
	return nil
}

// Refresh resets pagination and reloads the first page
func (c *Controller) Refresh(ctx context.Context) error {
	c.Reset()
	return c.Load(ctx, false)
}

// OnScroll triggers an append load once the viewport has moved past 90% of
// the page. fraction is scrolled height over total height.
func (c *Controller) OnScroll(ctx context.Context, fraction float64) error {
	if fraction < scrollThreshold {
		return nil
	}
	return c.Load(ctx, true)
}

// Compose publishes a new post. The feed itself is not touched here: the
// server announces the post over the push channel, which prepends it.
func (c *Controller) Compose(ctx context.Context, content string, media []api.Upload) error {
	if strings.TrimSpace(content) == "" && len(media) == 0 {
		return ErrEmptyPost
	}
	return c.api.CreatePost(ctx, content, media)
}

// ToggleReaction sends the reaction action and applies the authoritative
// mapping from the response. The client never adjusts counts locally.
func (c *Controller) ToggleReaction(ctx context.Context, postID, kind string) error {
	reactions, err := c.api.ToggleReaction(ctx, postID, kind)
	if err != nil {
		return err
	}
	c.ApplyReactions(postID, reactions)
	return nil
}

// ApplyReactions replaces the reaction mapping of a post in the feed cache
// and the profile cache, wherever the post is rendered
func (c *Controller) ApplyReactions(postID string, reactions map[string][]string) {
	c.mu.Lock()
	replaced := false
	for i := range c.posts {
		if c.posts[i].ID == postID {
			c.posts[i].Reactions = reactions
			replaced = true
		}
	}
	for i := range c.profilePosts {
		if c.profilePosts[i].ID == postID {
			c.profilePosts[i].Reactions = reactions
			replaced = true
		}
	}
	c.mu.Unlock()
	if replaced {
		c.sink.RenderReactions(postID, reactions)
	}
}

// SubmitComment posts a comment and merges the server-returned record into
// the cached post. Rapid re-submission for the same post inside the guard
// window is dropped.
func (c *Controller) SubmitComment(ctx context.Context, postID, text string) error {
	if text == "" {
		return nil
	}
	c.mu.Lock()
	if last, ok := c.lastCommentAt[postID]; ok && time.Since(last) < commentGuardWindow {
		c.mu.Unlock()
		return nil
	}
	c.lastCommentAt[postID] = time.Now()
	c.mu.Unlock()

	comment, err := c.api.AddComment(ctx, postID, text)
	if err != nil {
		return err
	}
	c.MergeComment(postID, *comment)
	return nil
}

// MergeComment appends a comment to the cached post, deduplicating by
// comment id so the same comment arriving via the direct response and the
// push channel is rendered once. Comments without an id are always merged.
func (c *Controller) MergeComment(postID string, comment models.Comment) {
	c.mu.Lock()
	merged := false
	for _, list := range []*[]models.Post{&c.posts, &c.profilePosts} {
		for i := range *list {
			if (*list)[i].ID != postID {
				continue
			}
			if comment.ID != "" && hasComment((*list)[i].Comments, comment.ID) {
				continue
			}
			(*list)[i].Comments = append((*list)[i].Comments, comment)
			merged = true
		}
	}
	c.mu.Unlock()
	if merged {
		c.sink.RenderComment(postID, comment)
	}
}

// Prepend inserts a post at the head of the feed (push-delivered new post)
func (c *Controller) Prepend(post models.Post) {
	c.mu.Lock()
	c.posts = append([]models.Post{post}, c.posts...)
	c.mu.Unlock()
	c.sink.RenderPrepend(post)
}

// Remove drops a post from both caches (deletion notice)
func (c *Controller) Remove(postID string) {
	c.mu.Lock()
	c.posts = withoutPost(c.posts, postID)
	c.profilePosts = withoutPost(c.profilePosts, postID)
	c.mu.Unlock()
	c.sink.RemovePost(postID)
}

// LoadProfile loads the viewed profile's posts into the profile cache.
// Responses superseded by a newer profile navigation are discarded.
func (c *Controller) LoadProfile(ctx context.Context, userID string) error {
	c.mu.Lock()
	c.profileGen++
	gen := c.profileGen
	c.mu.Unlock()

	posts, err := c.api.UserPosts(ctx, userID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if gen != c.profileGen {
		c.mu.Unlock()
		return nil
	}
	c.profilePosts = posts
	c.mu.Unlock()
	c.sink.RenderProfile(posts)
	return nil
}

// Posts returns a snapshot of the feed cache
func (c *Controller) Posts() []models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshot(c.posts)
}

// ProfilePosts returns a snapshot of the profile cache
func (c *Controller) ProfilePosts() []models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshot(c.profilePosts)
}

// Exhausted reports whether the server confirmed there are no further pages
func (c *Controller) Exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exhausted
}

func hasComment(comments []models.Comment, id string) bool {
	for _, existing := range comments {
		if existing.ID == id {
			return true
		}
	}
	return false
}

func withoutPost(posts []models.Post, postID string) []models.Post {
	kept := posts[:0]
	for _, post := range posts {
		if post.ID != postID {
			kept = append(kept, post)
		}
	}
	return kept
}

func concat(a, b []models.Post) []models.Post {
	out := make([]models.Post, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func snapshot(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)
	return out
}
