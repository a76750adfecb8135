package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"clone-social-client/internal/api"
	"clone-social-client/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrEmptyMessage is returned when a send carries neither text nor a file
var ErrEmptyMessage = errors.New("chat: message needs text or a file")

// ErrNoActiveChat is returned for message operations without an open chat
var ErrNoActiveChat = errors.New("chat: no active chat")

// API is the slice of the remote client the messenger needs
type API interface {
	Chats(ctx context.Context) ([]models.Chat, error)
	CreateChat(ctx context.Context, username string) (*models.Chat, error)
	DeleteChat(ctx context.Context, chatID string) error
	Messages(ctx context.Context, chatID string) ([]models.Message, error)
	SendMessage(ctx context.Context, chatID, content string, file *api.Upload) (*models.Message, error)
	UnreadCount(ctx context.Context) (int, error)
}

// Sink receives render instructions as messenger state changes
type Sink interface {
	RenderChats(chats []models.Chat)
	RenderMessages(chatID string, messages []models.Message)
	RenderUnread(count int)
}

// NopSink is a Sink that renders nothing
type NopSink struct{}

func (NopSink) RenderChats([]models.Chat)               {}
func (NopSink) RenderMessages(string, []models.Message) {}
func (NopSink) RenderUnread(int)                        {}

// cursor is the change-detection state for the open chat: the id of the
// newest message plus the total count. A refresh re-renders only when the
// cursor moved, so an unchanged poll response costs no render.
type cursor struct {
	newestID string
	count    int
}

func cursorOf(messages []models.Message) cursor {
	c := cursor{count: len(messages)}
	if len(messages) > 0 {
		// the API returns newest first
		c.newestID = messages[0].ID
	}
	return c
}

// Controller owns messenger state: the chat list, the open chat with its
// poll loop, and the unread counter.
type Controller struct {
	api          API
	sink         Sink
	pollInterval time.Duration

	mu         sync.Mutex
	chats      []models.Chat
	openChat   *models.Chat
	lastCursor cursor
	fetched    bool
	stopPoll   context.CancelFunc
}

// NewController creates a messenger controller
func NewController(apiClient API, sink Sink, pollInterval time.Duration) *Controller {
	if sink == nil {
		sink = NopSink{}
	}
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Controller{api: apiClient, sink: sink, pollInterval: pollInterval}
}

// LoadChats fully reloads the chat list
func (c *Controller) LoadChats(ctx context.Context) ([]models.Chat, error) {
	chats, err := c.api.Chats(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.chats = chats
	c.mu.Unlock()
	c.sink.RenderChats(chats)
	return chats, nil
}

// ChatByID returns the cached chat with the given id, or nil
func (c *Controller) ChatByID(chatID string) *models.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.chats {
		if c.chats[i].ID == chatID {
			chat := c.chats[i]
			return &chat
		}
	}
	return nil
}

// StartChat opens (or finds) a chat with the given username, reloads the
// chat list, and opens the conversation
func (c *Controller) StartChat(ctx context.Context, username string) (*models.Chat, error) {
	chat, err := c.api.CreateChat(ctx, username)
	if err != nil {
		return nil, err
	}
	if _, err := c.LoadChats(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to reload chat list")
	}
	if err := c.Open(ctx, *chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// Open makes the given chat the active conversation: any previous poll
// loop is torn down, the message list is loaded once, and a fixed-interval
// refresh runs for as long as the chat stays open.
func (c *Controller) Open(ctx context.Context, chat models.Chat) error {
	c.Close()

	pollCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	opened := chat
	c.openChat = &opened
	c.lastCursor = cursor{}
	c.fetched = false
	c.stopPoll = cancel
	c.mu.Unlock()

	if err := c.refresh(ctx, chat.ID); err != nil {
		return err
	}

	go c.pollLoop(pollCtx, chat.ID)
	log.Debug().Str("chat_id", chat.ID).Msg("Chat opened")
	return nil
}

func (c *Controller) pollLoop(ctx context.Context, chatID string) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.refresh(ctx, chatID); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Str("chat_id", chatID).Msg("Chat refresh failed")
			}
		}
	}
}

// refresh fetches the open chat's messages and re-renders only when the
// cursor moved since the last fetch
func (c *Controller) refresh(ctx context.Context, chatID string) error {
	messages, err := c.api.Messages(ctx, chatID)
	if err != nil {
		return err
	}

	next := cursorOf(messages)

	c.mu.Lock()
	if c.openChat == nil || c.openChat.ID != chatID {
		c.mu.Unlock()
		return nil
	}
	changed := !c.fetched || next != c.lastCursor
	c.lastCursor = next
	c.fetched = true
	c.mu.Unlock()

	if changed {
		c.sink.RenderMessages(chatID, messages)
	}
	return nil
}

// Close tears down the open chat and its poll loop
func (c *Controller) Close() {
	c.mu.Lock()
	stop := c.stopPoll
	c.openChat = nil
	c.lastCursor = cursor{}
	c.fetched = false
	c.stopPoll = nil
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// OpenChatID returns the id of the active chat, or ""
func (c *Controller) OpenChatID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openChat == nil {
		return ""
	}
	return c.openChat.ID
}

// Send delivers a message to the open chat. Text and a file attachment are
// both optional, but at least one must be present.
func (c *Controller) Send(ctx context.Context, content string, file *api.Upload) error {
	if content == "" && file == nil {
		return ErrEmptyMessage
	}
	chatID := c.OpenChatID()
	if chatID == "" {
		return ErrNoActiveChat
	}
	if _, err := c.api.SendMessage(ctx, chatID, content, file); err != nil {
		return err
	}
	return c.refresh(ctx, chatID)
}

// Delete removes the open chat, stops its poll loop and reloads the list
func (c *Controller) Delete(ctx context.Context) error {
	chatID := c.OpenChatID()
	if chatID == "" {
		return ErrNoActiveChat
	}
	if err := c.api.DeleteChat(ctx, chatID); err != nil {
		return err
	}
	c.Close()
	if _, err := c.LoadChats(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to reload chat list")
	}
	return nil
}

// RefreshUnread fetches the unread counter and renders it
func (c *Controller) RefreshUnread(ctx context.Context) (int, error) {
	count, err := c.api.UnreadCount(ctx)
	if err != nil {
		return 0, err
	}
	c.sink.RenderUnread(count)
	return count, nil
}

// HandleIncoming processes a push-delivered new chat message: a message
// for the open chat reloads it, anything else reloads the chat list and
// the unread counter.
func (c *Controller) HandleIncoming(ctx context.Context, chatID string) {
	if open := c.OpenChatID(); open != "" && open == chatID {
		if err := c.refresh(ctx, chatID); err != nil {
			log.Warn().Err(err).Str("chat_id", chatID).Msg("Failed to refresh open chat")
		}
		return
	}
	if _, err := c.LoadChats(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to reload chat list")
	}
	if _, err := c.RefreshUnread(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to refresh unread counter")
	}
}
