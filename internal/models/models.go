package models

import "time"

// User represents a user of the social service
type User struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Username              string `json:"username"`
	Avatar                string `json:"avatar,omitempty"`
	Bio                   string `json:"bio,omitempty"`
	Verified              bool   `json:"is_verified"`
	VerificationRequested bool   `json:"verification_requested"`
	Banned                bool   `json:"banned"`
	FollowersCount        int    `json:"followers_count"`
	FollowingCount        int    `json:"following_count"`
	Following             bool   `json:"is_following"`
}

// MediaKind is the kind of a post attachment
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media represents a single post attachment
type Media struct {
	Kind MediaKind `json:"type"`
	URL  string    `json:"url"`
}

// Comment represents a comment on a post. ID may be empty when the
// server did not assign one.
type Comment struct {
	ID         string `json:"id,omitempty"`
	AuthorName string `json:"author_name"`
	Avatar     string `json:"avatar,omitempty"`
	Text       string `json:"text"`
}

// Post represents a post in the feed or on a profile.
// Reactions maps a reaction kind to the set of user IDs that applied it;
// the client treats the mapping as authoritative and never derives counts
// locally.
type Post struct {
	ID             string              `json:"id"`
	AuthorID       string              `json:"author_id"`
	AuthorName     string              `json:"author_name"`
	AuthorUsername string              `json:"author_username"`
	AuthorAvatar   string              `json:"author_avatar,omitempty"`
	AuthorVerified bool                `json:"author_is_verified"`
	Content        string              `json:"content"`
	Media          []Media             `json:"media,omitempty"`
	Reactions      map[string][]string `json:"reactions"`
	Comments       []Comment           `json:"comments"`
	CreatedAt      time.Time           `json:"created_at"`
}

// Chat represents a conversation with another user
type Chat struct {
	ID            string    `json:"id"`
	OtherUser     User      `json:"other_user"`
	LastMessage   string    `json:"last_message_content,omitempty"`
	LastMessageAt time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int       `json:"unread_count"`
}

// Message represents a single chat message. Content may be empty when a
// file is attached.
type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content,omitempty"`
	FileURL   string    `json:"file_url,omitempty"`
	FileType  string    `json:"file_type,omitempty"`
	FileName  string    `json:"file_name,omitempty"`
	FileSize  string    `json:"file_size,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification represents an entry in the notifications panel
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminStats represents the moderation dashboard counters
type AdminStats struct {
	TotalUsers  int `json:"totalUsers"`
	BannedUsers int `json:"bannedUsers"`
	ActiveUsers int `json:"activeUsers"`
}
