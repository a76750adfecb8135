package api

import (
	"encoding/json"
	"strings"
	"time"

	"clone-social-client/internal/models"
)

// The remote API is not consistent about field naming: ids arrive as id,
// _id or user_id, author data arrives flattened or as an embedded record,
// and casing flips between snake and camel. The wire types below absorb
// every observed variant so the rest of the client only ever sees the
// canonical models.

type wireID struct {
	ID      string `json:"id"`
	MongID  string `json:"_id"`
	UserID  string `json:"user_id"`
	CamelID string `json:"userId"`
}

func (w wireID) resolve() string {
	for _, candidate := range []string{w.ID, w.MongID, w.UserID, w.CamelID} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

type wireUser struct {
	wireID
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`

	IsVerified      bool `json:"is_verified"`
	IsVerifiedCamel bool `json:"isVerified"`

	VerificationRequested bool `json:"verification_requested"`

	Banned bool `json:"banned"`

	FollowersCount      int `json:"followers_count"`
	FollowersCountCamel int `json:"followersCount"`
	FollowingCount      int `json:"following_count"`
	FollowingCountCamel int `json:"followingCount"`

	IsFollowing      bool `json:"is_following"`
	IsFollowingCamel bool `json:"isFollowing"`
}

func (w wireUser) toModel() models.User {
	return models.User{
		ID:                    w.resolve(),
		Name:                  w.Name,
		Username:              w.Username,
		Avatar:                w.Avatar,
		Bio:                   w.Bio,
		Verified:              w.IsVerified || w.IsVerifiedCamel,
		VerificationRequested: w.VerificationRequested,
		Banned:                w.Banned,
		FollowersCount:        firstCount(w.FollowersCount, w.FollowersCountCamel),
		FollowingCount:        firstCount(w.FollowingCount, w.FollowingCountCamel),
		Following:             w.IsFollowing || w.IsFollowingCamel,
	}
}

func firstCount(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}

type wireComment struct {
	ID     string `json:"id"`
	MongID string `json:"_id"`

	AuthorName      string `json:"authorName"`
	AuthorNameSnake string `json:"author_name"`

	Avatar string `json:"avatar"`
	Text   string `json:"text"`
}

func (w wireComment) toModel() models.Comment {
	id := strings.TrimSpace(w.ID)
	if id == "" {
		id = strings.TrimSpace(w.MongID)
	}
	name := w.AuthorName
	if name == "" {
		name = w.AuthorNameSnake
	}
	return models.Comment{
		ID:         id,
		AuthorName: name,
		Avatar:     w.Avatar,
		Text:       w.Text,
	}
}

type wireMedia struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type wirePost struct {
	ID string `json:"id"`

	Author        *wireUser `json:"author"`
	AuthorID      string    `json:"author_id"`
	AuthorIDCamel string    `json:"authorId"`
	UserID        string    `json:"user_id"`
	UserIDCamel   string    `json:"userId"`

	AuthorName      string `json:"author_name"`
	AuthorNameCamel string `json:"authorName"`

	AuthorUsername      string `json:"author_username"`
	AuthorUsernameCamel string `json:"authorUsername"`

	AuthorAvatar      string `json:"author_avatar"`
	AuthorAvatarCamel string `json:"authorAvatar"`

	AuthorVerified bool `json:"author_is_verified"`

	Content   string              `json:"content"`
	Media     []wireMedia         `json:"media"`
	Reactions map[string][]string `json:"reactions"`
	Comments  []wireComment       `json:"comments"`

	CreatedAt      time.Time `json:"created_at"`
	CreatedAtCamel time.Time `json:"createdAt"`
}

func (w wirePost) toModel() models.Post {
	post := models.Post{
		ID:        strings.TrimSpace(w.ID),
		Content:   w.Content,
		Reactions: w.Reactions,
		CreatedAt: w.CreatedAt,
	}
	if post.Reactions == nil {
		post.Reactions = map[string][]string{}
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = w.CreatedAtCamel
	}

	post.AuthorID = firstNonEmpty(w.AuthorID, w.AuthorIDCamel, w.UserID, w.UserIDCamel)
	post.AuthorName = firstNonEmpty(w.AuthorName, w.AuthorNameCamel)
	post.AuthorUsername = firstNonEmpty(w.AuthorUsername, w.AuthorUsernameCamel)
	post.AuthorAvatar = firstNonEmpty(w.AuthorAvatar, w.AuthorAvatarCamel)
	post.AuthorVerified = w.AuthorVerified

	if w.Author != nil {
		author := w.Author.toModel()
		post.AuthorID = firstNonEmpty(post.AuthorID, author.ID)
		post.AuthorName = firstNonEmpty(post.AuthorName, author.Name)
		post.AuthorUsername = firstNonEmpty(post.AuthorUsername, author.Username)
		post.AuthorAvatar = firstNonEmpty(post.AuthorAvatar, author.Avatar)
		post.AuthorVerified = post.AuthorVerified || author.Verified
	}
	if post.AuthorName == "" {
		post.AuthorName = "Unnamed"
	}
	if post.AuthorUsername == "" {
		post.AuthorUsername = "user"
	}

	for _, item := range w.Media {
		kind := models.MediaKind(item.Type)
		if kind != models.MediaImage && kind != models.MediaVideo {
			kind = models.MediaImage
		}
		post.Media = append(post.Media, models.Media{Kind: kind, URL: item.URL})
	}
	for _, comment := range w.Comments {
		post.Comments = append(post.Comments, comment.toModel())
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	return post
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

type wireChat struct {
	ID          string    `json:"id"`
	OtherUser   wireUser  `json:"other_user"`
	LastMessage string    `json:"last_message_content"`
	LastAt      time.Time `json:"last_message_at"`
	UnreadCount int       `json:"unread_count"`
}

func (w wireChat) toModel() models.Chat {
	return models.Chat{
		ID:            w.ID,
		OtherUser:     w.OtherUser.toModel(),
		LastMessage:   w.LastMessage,
		LastMessageAt: w.LastAt,
		UnreadCount:   w.UnreadCount,
	}
}

type wireMessage struct {
	ID        string          `json:"id"`
	SenderID  string          `json:"sender_id"`
	Content   string          `json:"content"`
	FileURL   string          `json:"file_url"`
	FileType  string          `json:"file_type"`
	FileName  string          `json:"file_name"`
	FileSize  json.RawMessage `json:"file_size"`
	CreatedAt time.Time       `json:"created_at"`
}

func (w wireMessage) toModel() models.Message {
	// file_size arrives as either a number of bytes or a preformatted string
	size := strings.Trim(string(w.FileSize), `"`)
	if size == "null" {
		size = ""
	}
	return models.Message{
		ID:        w.ID,
		SenderID:  w.SenderID,
		Content:   w.Content,
		FileURL:   w.FileURL,
		FileType:  w.FileType,
		FileName:  w.FileName,
		FileSize:  size,
		CreatedAt: w.CreatedAt,
	}
}

// DecodePost decodes a raw post payload (push channel or embedded
// response) through the same normalization as HTTP responses
func DecodePost(raw []byte) (models.Post, error) {
	var wire wirePost
	if err := json.Unmarshal(raw, &wire); err != nil {
		return models.Post{}, err
	}
	return wire.toModel(), nil
}

// DecodeComment decodes a raw comment payload through the same
// normalization as HTTP responses
func DecodeComment(raw []byte) (models.Comment, error) {
	var wire wireComment
	if err := json.Unmarshal(raw, &wire); err != nil {
		return models.Comment{}, err
	}
	return wire.toModel(), nil
}

func usersToModels(wires []wireUser) []models.User {
	users := make([]models.User, 0, len(wires))
	for _, w := range wires {
		users = append(users, w.toModel())
	}
	return users
}

func postsToModels(wires []wirePost) []models.Post {
	posts := make([]models.Post, 0, len(wires))
	for _, w := range wires {
		posts = append(posts, w.toModel())
	}
	return posts
}
