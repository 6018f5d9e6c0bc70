package domain

import "time"

// MediaType classifies the media payload of a message.
type MediaType string

const (
	MediaNone  MediaType = ""
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// Known reports whether t is one of the supported media types.
func (t MediaType) Known() bool {
	switch t {
	case MediaNone, MediaImage, MediaVideo, MediaAudio:
		return true
	}
	return false
}

// User represents an application user.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Image          string    `json:"image,omitempty"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Profile is the read-only directory projection of a user.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// Profile returns the directory projection of u.
func (u *User) Profile() *Profile {
	return &Profile{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}

// Message is one immutable unit of conversation content. ID and CreatedAt
// are assigned by the message store at append time; the sender's clock is
// never used for ordering.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	SenderName     string    `json:"sender_name"`
	ReceiverName   string    `json:"receiver_name"`
	Text           string    `json:"text"`
	MediaType      MediaType `json:"media_type,omitempty"`
	MediaURL       string    `json:"media_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
