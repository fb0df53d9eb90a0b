package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/intake/internal/domain"
)

// entry pairs a session with its own lock so updates for one call never
// block updates for another.
type entry struct {
	mu   sync.Mutex
	sess *domain.Session
}

// SessionStore is the in-process implementation of domain.SessionStore.
// The outer lock guards only the map; mutations run under the per-entry lock,
// giving per-call-id linearizability.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

var _ domain.SessionStore = (*SessionStore)(nil)

func NewSessionStore() *SessionStore {
	return &SessionStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// GetOrCreate returns a copy of the session for callID, creating it in
// StateWelcome on first sight.
func (s *SessionStore) GetOrCreate(callID string) *domain.Session {
	e := s.entryFor(callID)

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Clone()
}

// Get returns a copy of the session, or false for unseen call IDs.
func (s *SessionStore) Get(callID string) (*domain.Session, bool) {
	s.mu.RLock()
	e, ok := s.entries[callID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Clone(), true
}

// Update applies fn atomically under the per-entry lock and returns a copy of
// the result. Fields not touched by fn keep their previous values.
func (s *SessionStore) Update(callID string, fn func(*domain.Session)) (*domain.Session, error) {
	s.mu.RLock()
	e, ok := s.entries[callID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	fn(e.sess)
	e.sess.UpdatedAt = s.now()
	return e.sess.Clone(), nil
}

// Delete removes the session. Missing IDs are a no-op.
func (s *SessionStore) Delete(callID string) {
	s.mu.Lock()
	delete(s.entries, callID)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// EvictStale removes sessions whose call status is terminal and whose last
// update is older than ttl, returning the number evicted. Sessions for calls
// still in flight are never touched.
func (s *SessionStore) EvictStale(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.RLock()
	candidates := make(map[string]*entry, len(s.entries))
	for id, e := range s.entries {
		candidates[id] = e
	}
	s.mu.RUnlock()

	var stale []string
	for id, e := range candidates {
		e.mu.Lock()
		if domain.TerminalCallStatus(e.sess.CallStatus) && e.sess.UpdatedAt.Before(cutoff) {
			stale = append(stale, id)
		}
		e.mu.Unlock()
	}

	s.mu.Lock()
	for _, id := range stale {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	return len(stale)
}

// Sweep runs EvictStale on a ticker until ctx is cancelled.
func (s *SessionStore) Sweep(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictStale(ttl); n > 0 {
				log.Debug().Int("evicted", n).Msg("session store sweep")
			}
		}
	}
}

func (s *SessionStore) entryFor(callID string) *entry {
	s.mu.RLock()
	e, ok := s.entries[callID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok = s.entries[callID]; ok {
		return e
	}

	now := s.now()
	e = &entry{sess: &domain.Session{
		CallID:    callID,
		State:     domain.StateWelcome,
		Retries:   make(map[domain.State]int),
		CreatedAt: now,
		UpdatedAt: now,
	}}
	s.entries[callID] = e
	return e
}
