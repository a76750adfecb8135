package api

import (
	"context"
	"fmt"
	"net/url"

	"clone-social-client/internal/models"
)

// Feed returns one page of the main feed
func (c *Client) Feed(ctx context.Context, page, limit int) ([]models.Post, error) {
	var wires []wirePost
	path := fmt.Sprintf("/feed?page=%d&limit=%d", page, limit)
	if err := c.getJSON(ctx, path, &wires); err != nil {
		return nil, err
	}
	return postsToModels(wires), nil
}

// UserPosts returns all posts authored by the given user
func (c *Client) UserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	var wires []wirePost
	path := "/users/" + url.PathEscape(userID) + "/posts"
	if err := c.getJSON(ctx, path, &wires); err != nil {
		return nil, err
	}
	return postsToModels(wires), nil
}

// CreatePost publishes a post with optional media attachments
func (c *Client) CreatePost(ctx context.Context, content string, media []Upload) error {
	files := make([]Upload, 0, len(media))
	for _, item := range media {
		item.Field = "media"
		files = append(files, item)
	}
	return c.postMultipart(ctx, "/posts", map[string]string{"content": content}, files, nil)
}

type reactionRequest struct {
	Reaction string `json:"reaction"`
}

type reactionResponse struct {
	Reactions map[string][]string `json:"reactions"`
}

// ToggleReaction toggles the caller's reaction of the given kind on a post
// and returns the authoritative reaction mapping for that post
func (c *Client) ToggleReaction(ctx context.Context, postID, kind string) (map[string][]string, error) {
	var resp reactionResponse
	path := "/posts/" + url.PathEscape(postID) + "/reactions"
	if err := c.postJSON(ctx, path, reactionRequest{Reaction: kind}, &resp); err != nil {
		return nil, err
	}
	if resp.Reactions == nil {
		resp.Reactions = map[string][]string{}
	}
	return resp.Reactions, nil
}

type commentRequest struct {
	Text string `json:"text"`
}

// AddComment posts a comment and returns the server-assigned comment record
func (c *Client) AddComment(ctx context.Context, postID, text string) (*models.Comment, error) {
	var wire wireComment
	path := "/posts/" + url.PathEscape(postID) + "/comments"
	if err := c.postJSON(ctx, path, commentRequest{Text: text}, &wire); err != nil {
		return nil, err
	}
	comment := wire.toModel()
	return &comment, nil
}
