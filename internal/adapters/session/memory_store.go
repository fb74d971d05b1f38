package session

import (
	"context"
	"errors"
	"goal-route-service/internal/domain"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory, for single-instance runs and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	sess      domain.SearchSession
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Load(ctx context.Context, key string) (domain.SearchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return domain.SearchSession{}, domain.ErrSessionNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return domain.SearchSession{}, domain.ErrSessionNotFound
	}
	return e.sess, nil
}

func (s *MemoryStore) Save(ctx context.Context, sess domain.SearchSession, ttl time.Duration) error {
	if sess.Key == "" {
		return errors.New("save session: key must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var expires time.Time
	if ttl > 0 {
		expires = s.now().Add(ttl)
	}
	s.entries[sess.Key] = memoryEntry{sess: sess, expiresAt: expires}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
