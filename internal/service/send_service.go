package service

import (
	"context"

	"go.uber.org/zap"

	"chitchat/internal/domain"
	"chitchat/internal/feed"
	"chitchat/internal/logger"
)

// SendCoordinator validates and submits new messages. Writes are append-only
// with store-assigned timestamps; on success no local state changes — the
// feed subscription observes the insert. On failure the caller keeps its
// pending input buffer.
type SendCoordinator struct {
	messages domain.MessageRepository
	feed     *feed.Hub
}

func NewSendCoordinator(messages domain.MessageRepository, hub *feed.Hub) *SendCoordinator {
	return &SendCoordinator{messages: messages, feed: hub}
}

// SendInput addresses one message: the acting sender and the receiving peer.
type SendInput struct {
	SenderID     string
	ReceiverID   string
	SenderName   string
	ReceiverName string
}

// SendText submits a text message.
func (s *SendCoordinator) SendText(ctx context.Context, in SendInput, text string) (*domain.Message, error) {
	content, err := domain.TextContent(text)
	if err != nil {
		return nil, err
	}
	return s.send(ctx, in, content)
}

// SendMedia submits a message referencing an already-uploaded media URL.
func (s *SendCoordinator) SendMedia(ctx context.Context, in SendInput, kind domain.MediaType, url string) (*domain.Message, error) {
	content, err := domain.MediaContent(kind, url)
	if err != nil {
		return nil, err
	}
	return s.send(ctx, in, content)
}

// SendMixed submits media with a caption.
func (s *SendCoordinator) SendMixed(ctx context.Context, in SendInput, text string, kind domain.MediaType, url string) (*domain.Message, error) {
	content, err := domain.MixedContent(text, kind, url)
	if err != nil {
		return nil, err
	}
	return s.send(ctx, in, content)
}

func (s *SendCoordinator) send(ctx context.Context, in SendInput, content domain.Content) (*domain.Message, error) {
	msg, err := domain.NewMessage(in.SenderID, in.ReceiverID, in.SenderName, in.ReceiverName, content)
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, &domain.SubmitError{Cause: err}
	}

	// The write is durable; a failed fan-out only delays subscribers until
	// the next publish on this conversation.
	if err := s.feed.Publish(ctx, msg.ConversationID); err != nil {
		logger.Log.Warn("feed publish failed",
			zap.String("conversation_id", msg.ConversationID), zap.Error(err))
	}
	return msg, nil
}
