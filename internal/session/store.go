// Package session provides an in-memory checkout session store. Appliers
// write follow-up data into a session keyed by the order's checkout session
// ID; the carrier checkout stage reads it back later in the same flow.
package session

import (
	"sync"
	"time"
)

// Store holds checkout sessions with a sliding expiry.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore creates a session store whose sessions expire after ttl of
// inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Session returns the session for id, creating it if needed and extending
// its expiry.
func (s *Store) Session(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{data: make(map[string]any)}
		s.sessions[id] = sess
	}
	sess.touch(time.Now().Add(s.ttl))
	return sess
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Evict drops sessions expired at the given instant and returns how many
// were removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.expired(now) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Session is a single checkout session. It implements the applier
// SessionWriter contract.
type Session struct {
	mu        sync.RWMutex
	data      map[string]any
	expiresAt time.Time
}

// SetData stores a value under key, replacing any previous value.
func (s *Session) SetData(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Data returns the value stored under key.
func (s *Session) Data(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	return value, ok
}

func (s *Session) touch(expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = expiresAt
}

func (s *Session) expired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.After(s.expiresAt)
}
