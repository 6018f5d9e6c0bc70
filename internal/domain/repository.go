package domain

import (
	"context"
	"io"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

// MessageRepository defines persistence for the ordered message collection.
// The collection is append-only: records are never updated or deleted.
type MessageRepository interface {
	// Append inserts m, assigning its ID and CreatedAt server-side.
	Append(ctx context.Context, m *Message) error
	// ListForConversation returns up to limit records for the conversation,
	// newest first, ties broken by record ID.
	ListForConversation(ctx context.Context, conversationID string, limit int) ([]*Message, error)
}

// BlobStore defines binary blob storage addressed by upload path.
type BlobStore interface {
	// Put streams a blob to the given path. Paths are unique per upload;
	// collision avoidance is the caller's responsibility.
	Put(ctx context.Context, path string, r io.Reader) error
	// URL resolves the durable fetch URL for a stored path.
	URL(path string) (string, error)
}
