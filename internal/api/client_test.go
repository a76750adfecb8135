package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 5*time.Second)
}

func TestBearerHeader(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})

	_, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got, "no header before a credential is set")

	c.SetToken("tok")
	_, err = c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", got)
}

func TestErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid credentials"}`))
	})

	_, _, err := c.Login(context.Background(), "a@b.c", "wrong")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestErrorWithoutEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	})

	err := c.DeleteAccount(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "request failed", apiErr.Message)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		w.Write([]byte(`{"token":"tok","user":{"id":"u1","username":"alice","is_verified":true}}`))
	})

	token, user, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "u1", user.ID)
	assert.True(t, user.Verified)
	// the client does not adopt the credential on its own
	assert.Empty(t, c.Token())
}

func TestFeedNormalizesWireShapes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feed", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`[
			{"id":"p1","author":{"_id":"u1","name":"Alice","username":"alice","isVerified":true},
			 "content":"hi","reactions":{"heart":["u2"]},
			 "comments":[{"_id":"c1","author_name":"Bob","text":"yo"}],
			 "createdAt":"2026-08-01T10:00:00Z"},
			{"id":"p2","authorId":"u9","authorName":"Carol","author_username":"carol","content":"flat"},
			{"id":"p3","content":"bare"}
		]`))
	})

	posts, err := c.Feed(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, posts, 3)

	embedded := posts[0]
	assert.Equal(t, "u1", embedded.AuthorID)
	assert.Equal(t, "Alice", embedded.AuthorName)
	assert.True(t, embedded.AuthorVerified)
	assert.Equal(t, map[string][]string{"heart": {"u2"}}, embedded.Reactions)
	require.Len(t, embedded.Comments, 1)
	assert.Equal(t, "c1", embedded.Comments[0].ID)
	assert.Equal(t, "Bob", embedded.Comments[0].AuthorName)
	assert.Equal(t, 2026, embedded.CreatedAt.Year())

	flat := posts[1]
	assert.Equal(t, "u9", flat.AuthorID)
	assert.Equal(t, "Carol", flat.AuthorName)
	assert.Equal(t, "carol", flat.AuthorUsername)

	bare := posts[2]
	assert.Equal(t, "Unnamed", bare.AuthorName)
	assert.Equal(t, "user", bare.AuthorUsername)
	assert.NotNil(t, bare.Reactions)
	assert.NotNil(t, bare.Comments)
}

func TestToggleReactionDefaultsToEmptyMapping(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/p1/reactions", r.URL.Path)
		w.Write([]byte(`{}`))
	})

	reactions, err := c.ToggleReaction(context.Background(), "p1", "heart")
	require.NoError(t, err)
	assert.NotNil(t, reactions)
	assert.Empty(t, reactions)
}

func TestCreatePostMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "hello", r.FormValue("content"))
		require.Len(t, r.MultipartForm.File["media"], 2)
		w.WriteHeader(http.StatusCreated)
	})

	media := []Upload{
		{Name: "a.png", ContentType: "image/png", Reader: strings.NewReader("png-bytes")},
		{Name: "b.mp4", ContentType: "video/mp4", Reader: strings.NewReader("mp4-bytes")},
	}
	require.NoError(t, c.CreatePost(context.Background(), "hello", media))
}

func TestUploadAvatar(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["avatar"]
		require.Len(t, files, 1)
		assert.Equal(t, "me.jpg", files[0].Filename)
		w.Write([]byte(`{"avatar":"/uploads/me.jpg"}`))
	})

	ref, err := c.UploadAvatar(context.Background(), Upload{Name: "me.jpg", Reader: strings.NewReader("jpg")})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/me.jpg", ref)
}
