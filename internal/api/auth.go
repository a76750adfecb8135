package api

import (
	"context"
	"fmt"

	"clone-social-client/internal/models"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  wireUser `json:"user"`
}

// Login authenticates with email and password, returning the issued bearer
// credential and the user record. The credential is not retained; callers
// decide whether to adopt it.
func (c *Client) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var resp authResponse
	err := c.postJSON(ctx, "/login", credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", nil, err
	}
	user := resp.User.toModel()
	return resp.Token, &user, nil
}

// Register creates an account, returning the issued bearer credential and
// the new user record
func (c *Client) Register(ctx context.Context, name, username, email, password string) (string, *models.User, error) {
	req := registerRequest{Name: name, Username: username, Email: email, Password: password}
	var resp authResponse
	if err := c.postJSON(ctx, "/register", req, &resp); err != nil {
		return "", nil, err
	}
	user := resp.User.toModel()
	return resp.Token, &user, nil
}

// Me returns the user record for the current credential
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var wire wireUser
	if err := c.getJSON(ctx, "/me", &wire); err != nil {
		return nil, err
	}
	user := wire.toModel()
	return &user, nil
}

// DeleteAccount permanently deletes the authenticated account
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.deleteJSON(ctx, "/account", nil)
}

type profileRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
}

type profileResponse struct {
	User wireUser `json:"user"`
}

// UpdateProfile updates the display name, handle and bio of the
// authenticated user, returning the updated record
func (c *Client) UpdateProfile(ctx context.Context, name, username, bio string) (*models.User, error) {
	var resp profileResponse
	err := c.putJSON(ctx, "/profile", profileRequest{Name: name, Username: username, Bio: bio}, &resp)
	if err != nil {
		return nil, err
	}
	user := resp.User.toModel()
	return &user, nil
}

type avatarResponse struct {
	Avatar string `json:"avatar"`
}

// UploadAvatar uploads a new avatar image and returns its reference
func (c *Client) UploadAvatar(ctx context.Context, file Upload) (string, error) {
	file.Field = "avatar"
	var resp avatarResponse
	if err := c.postMultipart(ctx, "/avatar", nil, []Upload{file}, &resp); err != nil {
		return "", fmt.Errorf("avatar upload failed: %w", err)
	}
	return resp.Avatar, nil
}
