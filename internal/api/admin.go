package api

import (
	"context"
	"net/url"

	"clone-social-client/internal/models"
)

// AdminStats returns the moderation dashboard counters
func (c *Client) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := c.getJSON(ctx, "/admin/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) adminUserList(ctx context.Context, endpoint, search string) ([]models.User, error) {
	path := endpoint
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var wires []wireUser
	if err := c.getJSON(ctx, path, &wires); err != nil {
		return nil, err
	}
	return usersToModels(wires), nil
}

// AdminUsers lists all users, optionally filtered by a search string
func (c *Client) AdminUsers(ctx context.Context, search string) ([]models.User, error) {
	return c.adminUserList(ctx, "/admin/users", search)
}

// AdminBannedUsers lists banned users, optionally filtered by a search string
func (c *Client) AdminBannedUsers(ctx context.Context, search string) ([]models.User, error) {
	return c.adminUserList(ctx, "/admin/banned", search)
}

// BanUser bans the given user
func (c *Client) BanUser(ctx context.Context, userID string) error {
	return c.postJSON(ctx, "/admin/ban/"+url.PathEscape(userID), nil, nil)
}

// UnbanUser lifts a ban from the given user
func (c *Client) UnbanUser(ctx context.Context, userID string) error {
	return c.postJSON(ctx, "/admin/unban/"+url.PathEscape(userID), nil, nil)
}

// AdminDeletePost hard-deletes a post
func (c *Client) AdminDeletePost(ctx context.Context, postID string) error {
	return c.deleteJSON(ctx, "/admin/posts/"+url.PathEscape(postID), nil)
}

// VerificationRequests lists users with a pending verification request
func (c *Client) VerificationRequests(ctx context.Context) ([]models.User, error) {
	return c.adminUserList(ctx, "/admin/verification/requests", "")
}

// VerifiedUsers lists verified users
func (c *Client) VerifiedUsers(ctx context.Context) ([]models.User, error) {
	return c.adminUserList(ctx, "/admin/verification/verified", "")
}

// ApproveVerification approves a pending verification request
func (c *Client) ApproveVerification(ctx context.Context, userID string) error {
	return c.postJSON(ctx, "/admin/verification/approve/"+url.PathEscape(userID), nil, nil)
}

// RejectVerification rejects a pending verification request
func (c *Client) RejectVerification(ctx context.Context, userID string) error {
	return c.postJSON(ctx, "/admin/verification/reject/"+url.PathEscape(userID), nil, nil)
}

// RevokeVerification removes verification from a user
func (c *Client) RevokeVerification(ctx context.Context, userID string) error {
	return c.postJSON(ctx, "/admin/verification/revoke/"+url.PathEscape(userID), nil, nil)
}
