package api

import (
	"context"
	"net/url"

	"clone-social-client/internal/models"
)

// Chats returns the chat list for the current user
func (c *Client) Chats(ctx context.Context) ([]models.Chat, error) {
	var wires []wireChat
	if err := c.getJSON(ctx, "/chats", &wires); err != nil {
		return nil, err
	}
	chats := make([]models.Chat, 0, len(wires))
	for _, w := range wires {
		chats = append(chats, w.toModel())
	}
	return chats, nil
}

// CreateChat opens (or returns an existing) chat with the user identified
// by username
func (c *Client) CreateChat(ctx context.Context, username string) (*models.Chat, error) {
	var wire wireChat
	if err := c.postJSON(ctx, "/chats/"+url.PathEscape(username), nil, &wire); err != nil {
		return nil, err
	}
	chat := wire.toModel()
	return &chat, nil
}

// DeleteChat removes a chat and its messages
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.deleteJSON(ctx, "/chats/"+url.PathEscape(chatID), nil)
}

// Messages returns the message list for a chat, newest first
func (c *Client) Messages(ctx context.Context, chatID string) ([]models.Message, error) {
	var wires []wireMessage
	path := "/chats/" + url.PathEscape(chatID) + "/messages"
	if err := c.getJSON(ctx, path, &wires); err != nil {
		return nil, err
	}
	messages := make([]models.Message, 0, len(wires))
	for _, w := range wires {
		messages = append(messages, w.toModel())
	}
	return messages, nil
}

// SendMessage sends a message with text content and/or one file attachment.
// file may be nil.
func (c *Client) SendMessage(ctx context.Context, chatID, content string, file *Upload) (*models.Message, error) {
	var files []Upload
	if file != nil {
		upload := *file
		upload.Field = "file"
		files = append(files, upload)
	}
	var wire wireMessage
	path := "/chats/" + url.PathEscape(chatID) + "/messages"
	err := c.postMultipart(ctx, path, map[string]string{"content": content}, files, &wire)
	if err != nil {
		return nil, err
	}
	message := wire.toModel()
	return &message, nil
}

type unreadCountResponse struct {
	Count int `json:"count"`
}

// UnreadCount returns the number of unread chat messages across all chats
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp unreadCountResponse
	if err := c.getJSON(ctx, "/messages/unread-count", &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}
