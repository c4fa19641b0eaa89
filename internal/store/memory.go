package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/sensor-dashboard/internal/sensor"
)

var (
	// ErrNotFound is returned when no session exists for a given ID.
	ErrNotFound = errors.New("session not found")
	// ErrExists is returned when creating a session whose ID is taken.
	ErrExists = errors.New("session already exists")
)

// MemoryStore is a concurrency-safe in-memory implementation of a session store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: session ID
	data map[string]*sensor.Session

	// retention configuration
	maxSessions int           // max number of live sessions
	maxAge      time.Duration // max idle time since the last update
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxSessions or maxAge is <= 0, it is treated as unlimited.
func NewMemoryStore(maxSessions int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:        make(map[string]*sensor.Session),
		maxSessions: maxSessions,
		maxAge:      maxAge,
	}
}

// Create adds a new session, evicting the least recently updated sessions
// when the count limit is exceeded.
func (s *MemoryStore) Create(sess *sensor.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[sess.ID]; ok {
		return ErrExists
	}
	s.data[sess.ID] = sess.Clone()

	// Enforce retention by count.
	if s.maxSessions > 0 && len(s.data) > s.maxSessions {
		s.evictOldest(len(s.data)-s.maxSessions, sess.ID)
	}
	return nil
}

// Get returns a copy of the session.
func (s *MemoryStore) Get(id string) (*sensor.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess.Clone(), nil
}

// Update applies fn to the session under the store lock, so mutations of one
// session never interleave. If fn fails the session is left unchanged.
func (s *MemoryStore) Update(id string, fn func(*sensor.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data[id]
	if !ok {
		return ErrNotFound
	}
	work := sess.Clone()
	if err := fn(work); err != nil {
		return err
	}
	s.data[id] = work
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return ErrNotFound
	}
	delete(s.data, id)
	return nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Prune removes sessions idle for longer than maxAge and returns how many
// were removed.
func (s *MemoryStore) Prune(now time.Time) int {
	if s.maxAge <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.maxAge)
	n := 0
	for id, sess := range s.data {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.data, id)
			n++
		}
	}
	return n
}

// evictOldest removes n sessions by ascending UpdatedAt, never keep.
// Caller must hold the write lock.
func (s *MemoryStore) evictOldest(n int, keep string) {
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		if id != keep {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.data[ids[i]], s.data[ids[j]]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
		return ids[i] < ids[j]
	})
	if n > len(ids) {
		n = len(ids)
	}
	for _, id := range ids[:n] {
		delete(s.data, id)
	}
}
