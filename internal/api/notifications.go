package api

import (
	"context"

	"clone-social-client/internal/models"
)

// Notifications returns the notifications list for the current user
func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := c.getJSON(ctx, "/notifications", &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationsRead marks every notification as read
func (c *Client) MarkNotificationsRead(ctx context.Context) error {
	return c.postJSON(ctx, "/notifications/read", nil, nil)
}

type messageResponse struct {
	Message string `json:"message"`
}

// RequestVerification submits a verification request for the current user
// and returns the server's confirmation message
func (c *Client) RequestVerification(ctx context.Context) (string, error) {
	var resp messageResponse
	if err := c.postJSON(ctx, "/verification/request", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
