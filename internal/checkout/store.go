package checkout

import (
	"context"
	"sync"
)

// SessionStore keeps at most one live session per user. Sessions are
// transient: submission and abandon both delete them.
type SessionStore interface {
	Get(ctx context.Context, userID uint) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, userID uint) error
}

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[uint]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uint]Session)}
}

func (m *MemoryStore) Get(_ context.Context, userID uint) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := s
	return &copied, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = *s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}
