package session

import "sync"

// Store owns all live sessions, keyed by conversation ID. All work on one
// conversation's session is serialized through a per-entry mutex; different
// conversations never contend with each other beyond the map lookup.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
	}
}

// Put installs the session for a conversation, silently replacing any
// session the conversation already had.
func (s *Store) Put(conversationID string, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[conversationID] = &entry{session: sess}
}

// With runs fn with the conversation's session under its per-key lock.
// Returns false when the conversation has no session.
func (s *Store) With(conversationID string, fn func(*Session)) bool {
	s.mu.RLock()
	e, ok := s.entries[conversationID]
	s.mu.RUnlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
	return true
}

// Remove retires a conversation's session
func (s *Store) Remove(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, conversationID)
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
