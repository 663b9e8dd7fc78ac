package session

import (
	"context"
	"sync"
	"time"

	"short-link/internal/entities"
)

type memoryEntry struct {
	user      *entities.User
	expiresAt time.Time // zero means no expiry
}

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a process-local store. A ttl of 0 keeps sessions
// until Destroy is called.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, user *entities.User) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}

	entry := memoryEntry{user: snapshot(user)}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.sessions[token] = entry
	s.mu.Unlock()

	return token, nil
}

func (s *MemoryStore) Authenticate(_ context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	return snapshot(entry.user), nil
}

func (s *MemoryStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, including expired ones not yet
// evicted.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
