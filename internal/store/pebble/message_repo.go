package pebble

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	pebbledb "github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"chitchat/internal/domain"
	"chitchat/internal/logger"
)

// Store is an append-only message collection on a Pebble key-value store.
// Keys are conv:<conversation_id>:msg:<padded_unix_nano>-<seq>, so a prefix
// scan yields one conversation in insertion order; seq breaks ties between
// writes sharing a nanosecond.
type Store struct {
	db  *pebbledb.DB
	seq uint64
}

var _ domain.MessageRepository = (*Store)(nil)

// Open opens (or creates) the store at the given path.
func Open(path string) (*Store, error) {
	db, err := pebbledb.Open(path, &pebbledb.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble: %w", err)
	}
	logger.Log.Info("pebble opened", zap.String("path", path))
	return &Store{db: db}, nil
}

// OpenMem opens an in-memory store, used by tests.
func OpenMem() (*Store, error) {
	db, err := pebbledb.Open("", &pebbledb.Options{FS: vfs.NewMem()})
	if err != nil {
		return nil, fmt.Errorf("open pebble (mem): %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Append(ctx context.Context, m *domain.Message) error {
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().UTC()

	n := atomic.AddUint64(&s.seq, 1)
	key := messageKey(m.ConversationID, m.CreatedAt, n)

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := s.db.Set(key, data, pebbledb.Sync); err != nil {
		return fmt.Errorf("set message: %w", err)
	}
	return nil
}

func (s *Store) ListForConversation(ctx context.Context, conversationID string, limit int) ([]*domain.Message, error) {
	lower := []byte("conv:" + conversationID + ":msg:")
	upper := append(append([]byte{}, lower...), 0xff)

	iter, err := s.db.NewIter(&pebbledb.IterOptions{
		LowerBound: lower,
		UpperBound: upper,
	})
	if err != nil {
		return nil, fmt.Errorf("new iterator: %w", err)
	}
	defer iter.Close()

	// Keys sort oldest-first; walk backwards for the newest-first snapshot.
	var res []*domain.Message
	for ok := iter.Last(); ok && len(res) < limit; ok = iter.Prev() {
		m := &domain.Message{}
		if err := json.Unmarshal(iter.Value(), m); err != nil {
			return nil, fmt.Errorf("unmarshal message at %q: %w", iter.Key(), err)
		}
		res = append(res, m)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return res, nil
}

func messageKey(conversationID string, ts time.Time, seq uint64) []byte {
	return []byte(fmt.Sprintf("conv:%s:msg:%020d-%06d", conversationID, ts.UnixNano(), seq))
}
