package feed

import (
	"context"
	"fmt"
	"testing"

	"clone-social-client/internal/api"
	"clone-social-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	pages     map[int][]models.Post
	feedCalls int

	reactions map[string][]string

	comment      models.Comment
	commentCalls int

	created      []string
	profilePosts []models.Post
}

func (f *fakeAPI) Feed(_ context.Context, page, _ int) ([]models.Post, error) {
	f.feedCalls++
	return f.pages[page], nil
}

func (f *fakeAPI) UserPosts(context.Context, string) ([]models.Post, error) {
	return f.profilePosts, nil
}

func (f *fakeAPI) CreatePost(_ context.Context, content string, _ []api.Upload) error {
	f.created = append(f.created, content)
	return nil
}

func (f *fakeAPI) ToggleReaction(context.Context, string, string) (map[string][]string, error) {
	return f.reactions, nil
}

func (f *fakeAPI) AddComment(context.Context, string, string) (*models.Comment, error) {
	f.commentCalls++
	comment := f.comment
	return &comment, nil
}

type recordingSink struct {
	NopSink
	renderAll     int
	renderAppend  int
	reactionCalls int
	commentCalls  int
	removed       []string
}

func (r *recordingSink) RenderAll([]models.Post)                     { r.renderAll++ }
func (r *recordingSink) RenderAppend([]models.Post)                  { r.renderAppend++ }
func (r *recordingSink) RenderReactions(string, map[string][]string) { r.reactionCalls++ }
func (r *recordingSink) RenderComment(string, models.Comment)        { r.commentCalls++ }
func (r *recordingSink) RemovePost(postID string)                    { r.removed = append(r.removed, postID) }

func makePosts(prefix string, n int) []models.Post {
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post{
			ID:        fmt.Sprintf("%s-%d", prefix, i),
			Reactions: map[string][]string{},
		}
	}
	return posts
}

func TestLoadMarksExhaustedOnShortPage(t *testing.T) {
	fake := &fakeAPI{pages: map[int][]models.Post{1: makePosts("p", 4)}}
	c := NewController(fake, nil, 10)

	require.NoError(t, c.Load(context.Background(), false))
	assert.True(t, c.Exhausted())
	assert.Len(t, c.Posts(), 4)

	// exhausted: an append request issues no network call
	require.NoError(t, c.Load(context.Background(), true))
	assert.Equal(t, 1, fake.feedCalls)
}

func TestLoadAppendConcatenates(t *testing.T) {
	fake := &fakeAPI{pages: map[int][]models.Post{
		1: makePosts("a", 10),
		2: makePosts("b", 10),
		3: makePosts("c", 3),
	}}
	sink := &recordingSink{}
	c := NewController(fake, sink, 10)

	require.NoError(t, c.Load(context.Background(), false))
	require.NoError(t, c.Load(context.Background(), true))
	require.NoError(t, c.Load(context.Background(), true))

	assert.Len(t, c.Posts(), 23)
	assert.True(t, c.Exhausted())
	assert.Equal(t, 1, sink.renderAll)
	assert.Equal(t, 2, sink.renderAppend)
}

func TestLoadReplacesOnReload(t *testing.T) {
	fake := &fakeAPI{pages: map[int][]models.Post{1: makePosts("a", 10), 2: makePosts("b", 10)}}
	c := NewController(fake, nil, 10)

	require.NoError(t, c.Load(context.Background(), false))
	require.NoError(t, c.Load(context.Background(), true))
	require.Len(t, c.Posts(), 20)

	c.Reset()
	require.NoError(t, c.Load(context.Background(), false))
	assert.Len(t, c.Posts(), 10)
}

func TestOnScrollThreshold(t *testing.T) {
	fake := &fakeAPI{pages: map[int][]models.Post{1: makePosts("a", 10), 2: makePosts("b", 10)}}
	c := NewController(fake, nil, 10)
	require.NoError(t, c.Load(context.Background(), false))

	require.NoError(t, c.OnScroll(context.Background(), 0.5))
	assert.Equal(t, 1, fake.feedCalls)

	require.NoError(t, c.OnScroll(context.Background(), 0.95))
	assert.Equal(t, 2, fake.feedCalls)
	assert.Len(t, c.Posts(), 20)
}

func TestApplyReactionsReplacesMapping(t *testing.T) {
	posts := makePosts("p", 2)
	posts[0].Reactions = map[string][]string{"heart": {"u1", "u2"}}
	fake := &fakeAPI{
		pages:     map[int][]models.Post{1: posts},
		reactions: map[string][]string{"heart": {"u2"}},
	}
	sink := &recordingSink{}
	c := NewController(fake, sink, 10)
	require.NoError(t, c.Load(context.Background(), false))

	// the server's mapping wins as-is, twice in a row
	require.NoError(t, c.ToggleReaction(context.Background(), "p-0", "heart"))
	require.NoError(t, c.ToggleReaction(context.Background(), "p-0", "heart"))

	got := c.Posts()[0].Reactions
	assert.Equal(t, map[string][]string{"heart": {"u2"}}, got)
	assert.Equal(t, 2, sink.reactionCalls)
}

func TestMergeCommentDedup(t *testing.T) {
	fake := &fakeAPI{pages: map[int][]models.Post{1: makePosts("p", 1)}}
	sink := &recordingSink{}
	c := NewController(fake, sink, 10)
	require.NoError(t, c.Load(context.Background(), false))

	comment := models.Comment{ID: "c1", AuthorName: "alice", Text: "hi"}
	c.MergeComment("p-0", comment)
	// same comment delivered again via the push channel
	c.MergeComment("p-0", comment)

	assert.Len(t, c.Posts()[0].Comments, 1)
	assert.Equal(t, 1, sink.commentCalls)
}

func TestMergeCommentWithoutIDAlwaysAppends(t *testing.T) {
	fake := &fakeAPI{pages: map[int][]models.Post{1: makePosts("p", 1)}}
	c := NewController(fake, nil, 10)
	require.NoError(t, c.Load(context.Background(), false))

	c.MergeComment("p-0", models.Comment{Text: "one"})
	c.MergeComment("p-0", models.Comment{Text: "two"})
	assert.Len(t, c.Posts()[0].Comments, 2)
}

func TestSubmitCommentGuardsRapidResubmission(t *testing.T) {
	fake := &fakeAPI{
		pages:   map[int][]models.Post{1: makePosts("p", 1)},
		comment: models.Comment{ID: "c1", Text: "hi"},
	}
	c := NewController(fake, nil, 10)
	require.NoError(t, c.Load(context.Background(), false))

	require.NoError(t, c.SubmitComment(context.Background(), "p-0", "hi"))
	require.NoError(t, c.SubmitComment(context.Background(), "p-0", "hi"))
	assert.Equal(t, 1, fake.commentCalls)
}

func TestComposeValidation(t *testing.T) {
	fake := &fakeAPI{}
	c := NewController(fake, nil, 10)

	assert.ErrorIs(t, c.Compose(context.Background(), "   ", nil), ErrEmptyPost)
	assert.Empty(t, fake.created)

	require.NoError(t, c.Compose(context.Background(), "hello", nil))
	require.NoError(t, c.Compose(context.Background(), "", []api.Upload{{Name: "a.png"}}))
	assert.Equal(t, []string{"hello", ""}, fake.created)
}

func TestPrependAndRemove(t *testing.T) {
	fake := &fakeAPI{pages: map[int][]models.Post{1: makePosts("p", 2)}}
	sink := &recordingSink{}
	c := NewController(fake, sink, 10)
	require.NoError(t, c.Load(context.Background(), false))

	c.Prepend(models.Post{ID: "fresh"})
	posts := c.Posts()
	require.Len(t, posts, 3)
	assert.Equal(t, "fresh", posts[0].ID)

	c.Remove("p-1")
	assert.Len(t, c.Posts(), 2)
	assert.Equal(t, []string{"p-1"}, sink.removed)
}
