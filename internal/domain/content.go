package domain

import "strings"

// Content is the payload of a message: text, media, or both. The zero value
// is invalid; constructing through TextContent, MediaContent or MixedContent
// makes the both-empty state unrepresentable.
type Content struct {
	text string
	kind MediaType
	url  string
}

// TextContent builds a text-only payload. Whitespace-only text is rejected.
func TextContent(text string) (Content, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Content{}, ErrEmptyMessage
	}
	return Content{text: text}, nil
}

// MediaContent builds a media-only payload referencing a resolved URL.
func MediaContent(kind MediaType, url string) (Content, error) {
	if kind == MediaNone || !kind.Known() {
		return Content{}, ErrInvalidInput
	}
	if url == "" {
		return Content{}, ErrMissingMedia
	}
	return Content{kind: kind, url: url}, nil
}

// MixedContent builds a payload carrying both a caption and media.
func MixedContent(text string, kind MediaType, url string) (Content, error) {
	c, err := MediaContent(kind, url)
	if err != nil {
		return Content{}, err
	}
	c.text = strings.TrimSpace(text)
	return c, nil
}

func (c Content) Text() string { return c.text }

func (c Content) Media() (MediaType, string) { return c.kind, c.url }

// NewMessage assembles an unsent message addressed to the conversation
// shared by sender and receiver. ID and CreatedAt remain zero until the
// store assigns them at append time.
func NewMessage(senderID, receiverID, senderName, receiverName string, content Content) (*Message, error) {
	convID, err := DeriveConversationID(senderID, receiverID)
	if err != nil {
		return nil, err
	}
	return &Message{
		ConversationID: convID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		SenderName:     senderName,
		ReceiverName:   receiverName,
		Text:           content.text,
		MediaType:      content.kind,
		MediaURL:       content.url,
	}, nil
}

// Validate is the boundary check run before any write. The store applies no
// equivalent structural check, so a record that fails here must never reach
// the shared feed.
func (m *Message) Validate() error {
	if !m.MediaType.Known() {
		return ErrInvalidInput
	}
	if m.MediaType == MediaNone {
		if strings.TrimSpace(m.Text) == "" {
			return ErrEmptyMessage
		}
		return nil
	}
	if m.MediaURL == "" {
		return ErrMissingMedia
	}
	return nil
}
