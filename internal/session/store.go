package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const sweepInterval = time.Minute

// Store owns every live session and evicts the ones idle past the TTL.
type Store struct {
	mu           sync.RWMutex
	sessions     map[string]*Session
	ttl          time.Duration
	historyLimit int

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewStore creates a store sweeping idle sessions in the background.
// A non-positive ttl disables eviction.
func NewStore(ttl time.Duration, historyLimit int) *Store {
	s := &Store{
		sessions:     make(map[string]*Session),
		ttl:          ttl,
		historyLimit: historyLimit,
		stopCh:       make(chan struct{}),
	}
	if ttl > 0 {
		go s.sweepLoop()
	}
	return s
}

// GetOrCreate returns the session for id, creating a fresh one when the id
// is empty or unknown. The second result reports whether a new session was
// created, so the handler knows to set the cookie.
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		s.mu.RLock()
		sess, ok := s.sessions[id]
		s.mu.RUnlock()
		if ok {
			sess.touch()
			return sess, false
		}
	}

	sess := newSession(uuid.NewString(), s.historyLimit)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, true
}

// Get returns the session for id without creating one.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the background sweeper.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *Store) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep(time.Now())
		case <-s.stopCh:
			return
		}
	}
}

func (s *Store) sweep(now time.Time) int {
	cutoff := now.Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
