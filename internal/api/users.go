package api

import (
	"context"
	"net/url"

	"clone-social-client/internal/models"
)

// User returns the public record for a user by id
func (c *Client) User(ctx context.Context, userID string) (*models.User, error) {
	var wire wireUser
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(userID), &wire); err != nil {
		return nil, err
	}
	user := wire.toModel()
	return &user, nil
}

type followResponse struct {
	Message string `json:"message"`
}

// ToggleFollow follows or unfollows the given user and returns the
// server's confirmation message
func (c *Client) ToggleFollow(ctx context.Context, userID string) (string, error) {
	var resp followResponse
	path := "/users/" + url.PathEscape(userID) + "/follow"
	if err := c.postJSON(ctx, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Search returns users matching the query
func (c *Client) Search(ctx context.Context, query string) ([]models.User, error) {
	var wires []wireUser
	path := "/search?q=" + url.QueryEscape(query)
	if err := c.getJSON(ctx, path, &wires); err != nil {
		return nil, err
	}
	return usersToModels(wires), nil
}
