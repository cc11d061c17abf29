package chathistory

import (
	"context"
	"sync"
)

// MemoryStore keeps history in process memory, capped at limit messages per
// user (0 means unbounded).
type MemoryStore struct {
	mu    sync.RWMutex
	limit int
	data  map[int64][]Message
}

func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{limit: limit, data: make(map[int64][]Message)}
}

func (s *MemoryStore) Append(_ context.Context, userID int64, msgs ...Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := append(s.data[userID], msgs...)
	if s.limit > 0 && len(h) > s.limit {
		h = append([]Message(nil), h[len(h)-s.limit:]...)
	}
	s.data[userID] = h
	return nil
}

func (s *MemoryStore) List(_ context.Context, userID int64) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.data[userID]))
	copy(out, s.data[userID])
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}
