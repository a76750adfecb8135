package view

import (
	"net/url"
	"strings"
	"time"

	"clone-social-client/internal/models"
)

// HeartReaction is the only reaction kind surfaced in the UI
const HeartReaction = "heart"

// ReactionView is the displayable state of a post's reaction affordance
type ReactionView struct {
	Kind   string
	Count  int
	Active bool
}

// MediaView is a displayable attachment. When the source reference is
// unusable the attachment is shown as a textual fallback instead of a
// broken element.
type MediaView struct {
	Kind     models.MediaKind
	URL      string
	Broken   bool
	Fallback string
}

// CommentView is a displayable comment
type CommentView struct {
	ID            string
	AuthorName    string
	Avatar        string
	AvatarInitial string
	Text          string
}

// PostView is the displayable unit derived from a post record
type PostView struct {
	ID             string
	AuthorID       string
	AuthorName     string
	AuthorUsername string
	AuthorAvatar   string
	AuthorVerified bool
	Content        string
	Media          []MediaView
	Reaction       ReactionView
	Comments       []CommentView
	CommentsCount  int
	CreatedAt      time.Time
	CanDelete      bool
}

// RenderPost derives the displayable unit for a post. currentUserID drives
// the reaction active flag; isAdmin exposes the delete affordance.
func RenderPost(post models.Post, currentUserID string, isAdmin bool) PostView {
	v := PostView{
		ID:             post.ID,
		AuthorID:       post.AuthorID,
		AuthorName:     post.AuthorName,
		AuthorUsername: post.AuthorUsername,
		AuthorAvatar:   post.AuthorAvatar,
		AuthorVerified: post.AuthorVerified,
		Content:        post.Content,
		Reaction:       RenderReaction(post.Reactions, currentUserID),
		CommentsCount:  len(post.Comments),
		CreatedAt:      post.CreatedAt,
		CanDelete:      isAdmin,
	}
	for _, item := range post.Media {
		v.Media = append(v.Media, renderMedia(item))
	}
	for _, comment := range post.Comments {
		v.Comments = append(v.Comments, RenderComment(comment))
	}
	return v
}

// RenderReaction derives the heart affordance from the authoritative
// reaction mapping
func RenderReaction(reactions map[string][]string, currentUserID string) ReactionView {
	users := reactions[HeartReaction]
	active := false
	for _, id := range users {
		if currentUserID != "" && id == currentUserID {
			active = true
			break
		}
	}
	return ReactionView{Kind: HeartReaction, Count: len(users), Active: active}
}

// RenderComment derives a displayable comment
func RenderComment(comment models.Comment) CommentView {
	return CommentView{
		ID:            comment.ID,
		AuthorName:    comment.AuthorName,
		Avatar:        comment.Avatar,
		AvatarInitial: initial(comment.AuthorName),
		Text:          comment.Text,
	}
}

func renderMedia(item models.Media) MediaView {
	v := MediaView{Kind: item.Kind, URL: item.URL}
	if !usableSource(item.URL) {
		v.Broken = true
		if item.Kind == models.MediaVideo {
			v.Fallback = "Video unavailable"
		} else {
			v.Fallback = "Image unavailable"
		}
	}
	return v
}

// usableSource reports whether a media reference can be rendered at all.
// Relative paths are allowed; empty and unparseable references are not.
func usableSource(src string) bool {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return false
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "data" {
		return false
	}
	return true
}

func initial(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return strings.ToUpper(string([]rune(trimmed)[0]))
}

// TotalHearts sums heart reactions over the given author's posts. Used for
// the likes counter on a profile, derived from the feed cache.
func TotalHearts(posts []models.Post, authorID string) int {
	total := 0
	for _, post := range posts {
		if post.AuthorID != authorID {
			continue
		}
		total += len(post.Reactions[HeartReaction])
	}
	return total
}

// MessageView is a displayable chat message
type MessageView struct {
	ID        string
	Own       bool
	Text      string
	FileURL   string
	FileName  string
	FileSize  string
	IsImage   bool
	CreatedAt time.Time
}

// RenderMessages derives the displayable list for a chat, oldest first
// (the API returns newest first)
func RenderMessages(messages []models.Message, currentUserID string) []MessageView {
	views := make([]MessageView, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		views = append(views, MessageView{
			ID:        m.ID,
			Own:       m.SenderID == currentUserID,
			Text:      m.Content,
			FileURL:   m.FileURL,
			FileName:  m.FileName,
			FileSize:  m.FileSize,
			IsImage:   strings.HasPrefix(m.FileType, "image/"),
			CreatedAt: m.CreatedAt,
		})
	}
	return views
}
