package auth

import (
	"context"
	"sync"
	"time"

	"github.com/pellmont/wardbook/internal/apperror"
)

// memorySessionStore is an in-process SessionStore for development setups
// and tests that run without Redis. Expiry is lazy: stale entries are
// dropped when touched.
type memorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// NewMemorySessionStore creates an in-memory session store.
func NewMemorySessionStore(ttl time.Duration) SessionStore {
	return &memorySessionStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
	}
}

func (s *memorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, apperror.NewNotFound("session not found")
	}

	// Copy so callers never mutate the stored value directly.
	session := entry.session
	return &session, nil
}

func (s *memorySessionStore) Put(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = memoryEntry{
		session:   *session,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *memorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}
