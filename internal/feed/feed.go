package feed

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"chitchat/internal/domain"
	"chitchat/internal/logger"
)

// Handler receives the full, newest-first snapshot of one conversation.
// Snapshots are authoritative and total; no incremental patching is done.
type Handler func(messages []*domain.Message)

// CancelFunc tears down a subscription. It is idempotent, and after it
// returns the handler is never invoked again. It blocks until any in-flight
// delivery finishes, so it must not be called from inside the subscription's
// own handler.
type CancelFunc func()

// Hub manages live subscriptions to conversation message collections,
// keyed by conversation ID. Every publish re-reads the collection and
// delivers the whole snapshot to each subscriber.
type Hub struct {
	mu       sync.RWMutex
	subs     map[string]map[*subscription]struct{}
	messages domain.MessageRepository
	limit    int
}

type subscription struct {
	mu      sync.Mutex
	closed  bool
	handler Handler
}

// deliver invokes the handler unless the subscription has been cancelled.
// Holding mu keeps delivery serial per subscription and lets cancel block
// out any in-flight delivery before returning.
func (s *subscription) deliver(snapshot []*domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.handler(snapshot)
}

func NewHub(messages domain.MessageRepository, limit int) *Hub {
	return &Hub{
		subs:     make(map[string]map[*subscription]struct{}),
		messages: messages,
		limit:    limit,
	}
}

// Subscribe opens a live view over the conversation and primes the handler
// with the current snapshot before returning. The subscription is registered
// before the priming read, and sub.mu is held across read-and-deliver, so a
// write landing during the window is never lost: a concurrent publish either
// delivers after priming, or delivers first, in which case the priming read
// starts after the append and observes it.
func (h *Hub) Subscribe(ctx context.Context, conversationID string, handler Handler) (CancelFunc, error) {
	sub := &subscription{handler: handler}

	h.mu.Lock()
	if h.subs[conversationID] == nil {
		h.subs[conversationID] = make(map[*subscription]struct{})
	}
	h.subs[conversationID][sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		sub.mu.Lock()
		sub.closed = true
		sub.mu.Unlock()

		h.mu.Lock()
		if set, ok := h.subs[conversationID]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(h.subs, conversationID)
			}
		}
		h.mu.Unlock()
	}

	sub.mu.Lock()
	snapshot, err := h.messages.ListForConversation(ctx, conversationID, h.limit)
	if err != nil {
		sub.mu.Unlock()
		cancel()
		return nil, fmt.Errorf("prime subscription: %w", err)
	}
	sub.handler(snapshot)
	sub.mu.Unlock()

	return cancel, nil
}

// Publish re-reads the conversation and fans the snapshot out to all of its
// subscribers. Call after every successful append.
func (h *Hub) Publish(ctx context.Context, conversationID string) error {
	h.mu.RLock()
	set := h.subs[conversationID]
	targets := make([]*subscription, 0, len(set))
	for sub := range set {
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return nil
	}

	snapshot, err := h.messages.ListForConversation(ctx, conversationID, h.limit)
	if err != nil {
		logger.Log.Error("feed snapshot failed",
			zap.String("conversation_id", conversationID), zap.Error(err))
		return fmt.Errorf("feed snapshot: %w", err)
	}

	for _, sub := range targets {
		sub.deliver(snapshot)
	}
	return nil
}

// Subscribers reports the number of active subscriptions for a conversation.
func (h *Hub) Subscribers(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[conversationID])
}
