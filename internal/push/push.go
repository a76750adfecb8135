package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"clone-social-client/internal/api"
	"clone-social-client/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event names delivered over the push channel
const (
	EventNewPost        = "new_post"
	EventPostReaction   = "post_reaction"
	EventNewComment     = "new_comment"
	EventNotification   = "notification"
	EventBanned         = "banned"
	EventPostDeleted    = "post_deleted"
	EventNewChatMessage = "new_chat_message"
)

// envelope is the wire shape of a push event
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Handlers are the per-event callbacks applied to the in-memory caches.
// Unset handlers drop their events.
type Handlers struct {
	NewPost        func(post models.Post)
	ReactionUpdate func(postID string, reactions map[string][]string)
	NewComment     func(postID string, comment models.Comment)
	Notification   func(message string)
	Banned         func(message string)
	PostDeleted    func(postID string)
	NewChatMessage func(chatID string)
	// Disconnected is invoked once when the read loop ends. The bridge
	// does not retry or back off.
	Disconnected func(err error)
}

// Bridge maintains the persistent push connection and dispatches incoming
// events to the registered handlers
type Bridge struct {
	wsURL    string
	handlers Handlers

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewBridge creates a push bridge for the given websocket URL
func NewBridge(wsURL string, handlers Handlers) *Bridge {
	return &Bridge{wsURL: wsURL, handlers: handlers}
}

// Connect dials the push channel, authenticating with the bearer
// credential as a query parameter, and starts the read loop
func (b *Bridge) Connect(ctx context.Context, token string) error {
	endpoint := b.wsURL + "?token=" + url.QueryEscape(token)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to connect push channel: %w", err)
	}

	b.mu.Lock()
	if b.conn != nil {
		b.conn.Close()
	}
	b.conn = conn
	b.mu.Unlock()

	log.Info().Msg("Push channel connected")
	go b.readLoop(conn)
	return nil
}

// Close tears down the push connection
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
}

func (b *Bridge) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Msg("Push channel error")
			}
			if b.handlers.Disconnected != nil {
				b.handlers.Disconnected(err)
			}
			return
		}

		var event envelope
		if err := json.Unmarshal(raw, &event); err != nil {
			log.Error().Err(err).Msg("Failed to parse push event")
			continue
		}
		b.dispatch(event)
	}
}

func (b *Bridge) dispatch(event envelope) {
	switch event.Type {
	case EventNewPost:
		if b.handlers.NewPost == nil {
			return
		}
		post, err := api.DecodePost(event.Data)
		if err != nil {
			log.Error().Err(err).Msg("Failed to decode pushed post")
			return
		}
		b.handlers.NewPost(post)

	case EventPostReaction:
		if b.handlers.ReactionUpdate == nil {
			return
		}
		var payload struct {
			PostID    string              `json:"postId"`
			Reactions map[string][]string `json:"reactions"`
		}
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			log.Error().Err(err).Msg("Failed to decode reaction update")
			return
		}
		b.handlers.ReactionUpdate(payload.PostID, payload.Reactions)

	case EventNewComment:
		if b.handlers.NewComment == nil {
			return
		}
		var payload struct {
			PostID  string          `json:"postId"`
			Comment json.RawMessage `json:"comment"`
		}
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			log.Error().Err(err).Msg("Failed to decode comment event")
			return
		}
		comment, err := api.DecodeComment(payload.Comment)
		if err != nil {
			log.Error().Err(err).Msg("Failed to decode pushed comment")
			return
		}
		b.handlers.NewComment(payload.PostID, comment)

	case EventNotification:
		if b.handlers.Notification == nil {
			return
		}
		b.handlers.Notification(messageOf(event.Data))

	case EventBanned:
		if b.handlers.Banned == nil {
			return
		}
		b.handlers.Banned(messageOf(event.Data))

	case EventPostDeleted:
		if b.handlers.PostDeleted == nil {
			return
		}
		var payload struct {
			PostID string `json:"postId"`
		}
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			log.Error().Err(err).Msg("Failed to decode deletion notice")
			return
		}
		b.handlers.PostDeleted(payload.PostID)

	case EventNewChatMessage:
		if b.handlers.NewChatMessage == nil {
			return
		}
		var payload struct {
			ChatID string `json:"chat_id"`
		}
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			log.Error().Err(err).Msg("Failed to decode chat message event")
			return
		}
		b.handlers.NewChatMessage(payload.ChatID)

	default:
		log.Debug().Str("type", event.Type).Msg("Unknown push event")
	}
}

func messageOf(raw json.RawMessage) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return payload.Message
}
