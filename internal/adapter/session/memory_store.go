package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/example/aurora-storefront/internal/domain"
)

const tokenPrefix = "sess_"

// MemoryStore — сессии в памяти на всё время жизни процесса, без вытеснения.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	newID    func() string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*domain.Session),
		newID:    func() string { return tokenPrefix + uuid.NewString() },
	}
}

func (s *MemoryStore) Resolve(token string) (*domain.Session, bool) {
	if sess, ok := s.Lookup(token); ok {
		return sess, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// её мог успеть создать параллельный запрос
	if sess, ok := s.sessions[token]; ok && token != "" {
		return sess, false
	}
	id := s.newID()
	for _, taken := s.sessions[id]; taken; _, taken = s.sessions[id] {
		id = s.newID()
	}
	sess := domain.NewSession(id)
	s.sessions[id] = sess
	return sess, true
}

func (s *MemoryStore) Lookup(token string) (*domain.Session, bool) {
	if token == "" {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	return sess, ok
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ domain.SessionStore = (*MemoryStore)(nil)
