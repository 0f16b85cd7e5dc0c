package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"dalal-chat-api/pkg/models"

	"github.com/google/uuid"
)

var errClosed = errors.New("store closed")

// MemoryStore keeps messages in process memory. It backs tests and the
// "memory" driver for local runs without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	messages []models.Message
	closed   bool
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		messages: make([]models.Message, 0),
		now:      time.Now,
	}
}

// WithClock replaces the timestamp source. Used by tests to pin createdAt.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *MemoryStore) Insert(_ context.Context, msg models.Message) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return models.Message{}, errClosed
	}
	msg.ID = uuid.New().String()
	msg.ConversationID = models.NormalizeConversationID(msg.ConversationID)
	msg.CreatedAt = s.now().UTC()
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *MemoryStore) Find(_ context.Context, filter Filter, opts FindOptions) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errClosed
	}
	result := make([]models.Message, 0)
	for _, m := range s.messages {
		if filter.matches(m) {
			result = append(result, m)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if opts.Sort == Descending {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}
	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (s *MemoryStore) DeleteMany(_ context.Context, filter Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, errClosed
	}
	kept := s.messages[:0]
	var deleted int64
	for _, m := range s.messages {
		if filter.matches(m) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	s.messages = kept
	return deleted, nil
}

func (s *MemoryStore) LatestPerConversation(_ context.Context, limit int) ([]models.ConversationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errClosed
	}
	return SummarizeConversations(s.messages, limit), nil
}

func (s *MemoryStore) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return nil
}

func (s *MemoryStore) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (f Filter) matches(m models.Message) bool {
	return f.ConversationID == "" || m.ConversationID == f.ConversationID
}
