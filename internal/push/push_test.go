package push

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"clone-social-client/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pushServer upgrades one connection and replays the given frames
func pushServer(t *testing.T, frames []string, gotToken *string) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotToken != nil {
			*gotToken = r.URL.Query().Get("token")
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		for _, frame := range frames {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

type recorder struct {
	mu        sync.Mutex
	posts     []models.Post
	reactions map[string]map[string][]string
	comments  map[string][]models.Comment
	notices   []string
	banned    []string
	deleted   []string
	chats     []string

	disconnected chan struct{}
}

func newRecorder() *recorder {
	return &recorder{
		reactions:    make(map[string]map[string][]string),
		comments:     make(map[string][]models.Comment),
		disconnected: make(chan struct{}),
	}
}

func (r *recorder) handlers() Handlers {
	return Handlers{
		NewPost: func(post models.Post) {
			r.mu.Lock()
			r.posts = append(r.posts, post)
			r.mu.Unlock()
		},
		ReactionUpdate: func(postID string, reactions map[string][]string) {
			r.mu.Lock()
			r.reactions[postID] = reactions
			r.mu.Unlock()
		},
		NewComment: func(postID string, comment models.Comment) {
			r.mu.Lock()
			r.comments[postID] = append(r.comments[postID], comment)
			r.mu.Unlock()
		},
		Notification: func(message string) {
			r.mu.Lock()
			r.notices = append(r.notices, message)
			r.mu.Unlock()
		},
		Banned: func(message string) {
			r.mu.Lock()
			r.banned = append(r.banned, message)
			r.mu.Unlock()
		},
		PostDeleted: func(postID string) {
			r.mu.Lock()
			r.deleted = append(r.deleted, postID)
			r.mu.Unlock()
		},
		NewChatMessage: func(chatID string) {
			r.mu.Lock()
			r.chats = append(r.chats, chatID)
			r.mu.Unlock()
		},
		Disconnected: func(error) { close(r.disconnected) },
	}
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.disconnected:
	case <-time.After(2 * time.Second):
		t.Fatal("push channel never disconnected")
	}
}

func TestConnectSendsToken(t *testing.T) {
	var token string
	url := pushServer(t, nil, &token)
	rec := newRecorder()
	b := NewBridge(url, rec.handlers())

	require.NoError(t, b.Connect(context.Background(), "tok&en"))
	defer b.Close()
	rec.wait(t)
	assert.Equal(t, "tok&en", token)
}

func TestDispatch(t *testing.T) {
	frames := []string{
		`{"type":"new_post","data":{"id":"p1","authorName":"Alice","content":"hi"}}`,
		`{"type":"post_reaction","data":{"postId":"p1","reactions":{"heart":["u1"]}}}`,
		`{"type":"new_comment","data":{"postId":"p1","comment":{"_id":"c1","author_name":"Bob","text":"yo"}}}`,
		`{"type":"notification","data":{"message":"Alice liked your post"}}`,
		`{"type":"post_deleted","data":{"postId":"p2"}}`,
		`{"type":"new_chat_message","data":{"chat_id":"c9"}}`,
		`{"type":"something_else","data":{}}`,
		`not even json`,
	}
	rec := newRecorder()
	b := NewBridge(pushServer(t, frames, nil), rec.handlers())
	require.NoError(t, b.Connect(context.Background(), "tok"))
	defer b.Close()
	rec.wait(t)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	require.Len(t, rec.posts, 1)
	assert.Equal(t, "p1", rec.posts[0].ID)
	assert.Equal(t, "Alice", rec.posts[0].AuthorName)

	assert.Equal(t, map[string][]string{"heart": {"u1"}}, rec.reactions["p1"])

	require.Len(t, rec.comments["p1"], 1)
	assert.Equal(t, models.Comment{ID: "c1", AuthorName: "Bob", Text: "yo"}, rec.comments["p1"][0])

	assert.Equal(t, []string{"Alice liked your post"}, rec.notices)
	assert.Equal(t, []string{"p2"}, rec.deleted)
	assert.Equal(t, []string{"c9"}, rec.chats)
	assert.Empty(t, rec.banned)
}

func TestBannedEvent(t *testing.T) {
	frames := []string{`{"type":"banned","data":{"message":"Your account has been banned"}}`}
	rec := newRecorder()
	b := NewBridge(pushServer(t, frames, nil), rec.handlers())
	require.NoError(t, b.Connect(context.Background(), "tok"))
	defer b.Close()
	rec.wait(t)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{"Your account has been banned"}, rec.banned)
}

func TestUnsetHandlersDropEvents(t *testing.T) {
	frames := []string{`{"type":"new_post","data":{"id":"p1"}}`}
	disconnected := make(chan struct{})
	b := NewBridge(pushServer(t, frames, nil), Handlers{
		Disconnected: func(error) { close(disconnected) },
	})
	require.NoError(t, b.Connect(context.Background(), "tok"))
	defer b.Close()

	select {
	case <-disconnected:
	case <-time.After(2 * time.Second):
		t.Fatal("push channel never disconnected")
	}
}

func TestConnectFailure(t *testing.T) {
	b := NewBridge("ws://127.0.0.1:1/ws", Handlers{})
	err := b.Connect(context.Background(), "tok")
	assert.Error(t, err)
}
