package session

import (
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation. Sessions survive process
// restarts only when a durable Store replaces it; the interface is what the
// dialogue machine depends on.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[int64]*Session

	now func() time.Time
}

// NewMemoryStore constructs a MemoryStore. A ttl of zero disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[int64]*Session),
		now:      time.Now,
	}
}

// Get returns a copy of the user's active session. Expired sessions and
// sessions left in StateDone by an interrupted commit are purged.
func (m *MemoryStore) Get(userID int64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, false
	}
	if m.stale(s) {
		delete(m.sessions, userID)
		return nil, false
	}
	return s.clone(), true
}

// Put stores the session for the user.
func (m *MemoryStore) Put(userID int64, s *Session) {
	if s == nil {
		return
	}
	stored := s.clone()
	stored.UpdatedAt = m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = stored
}

// Clear removes the user's session.
func (m *MemoryStore) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// InProgress reports whether the user has an active, non-expired dialogue.
func (m *MemoryStore) InProgress(userID int64) bool {
	_, ok := m.Get(userID)
	return ok
}

func (m *MemoryStore) stale(s *Session) bool {
	if s.State == StateIdle || s.State == StateDone {
		return true
	}
	if m.ttl > 0 && m.now().Sub(s.UpdatedAt) > m.ttl {
		return true
	}
	return false
}
