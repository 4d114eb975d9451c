// Package session keeps the widget state of each browser session. Every
// session owns a Workspace of widget instances; the Store hands them out by
// id and evicts the ones left idle.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the cookie carrying the session id.
const CookieName = "widgetkit_session"

// Factory builds the workspace of a new session.
type Factory func(id string) *Workspace

// Store is a concurrency safe set of workspaces.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Workspace

	ttl     time.Duration
	factory Factory
	now     func() time.Time
	onCount func(active int)
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithCountHook registers a function called with the number of sessions
// after every change.
func WithCountHook(fn func(active int)) Option {
	return func(s *Store) { s.onCount = fn }
}

// NewStore creates a store that evicts sessions idle for longer than ttl.
func NewStore(ttl time.Duration, factory Factory, opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*Workspace),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the workspace of id.
func (s *Store) Get(id string) (*Workspace, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.sessions[id]
	return w, ok
}

// GetOrCreate returns the workspace of id, creating a fresh session with a
// new id when id is unknown. created reports whether a session was made.
func (s *Store) GetOrCreate(id string) (w *Workspace, created bool) {
	if id != "" {
		if w, ok := s.Get(id); ok {
			return w, false
		}
	}
	return s.Create(), true
}

// Create starts a session with a random id.
func (s *Store) Create() *Workspace {
	w := s.factory(uuid.NewString())
	w.now = s.now
	w.lastSeen = s.now()

	s.mu.Lock()
	s.sessions[w.ID()] = w
	n := len(s.sessions)
	s.mu.Unlock()

	s.count(n)
	return w
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Each calls fn for every live session.
func (s *Store) Each(fn func(*Workspace)) {
	s.mu.RLock()
	all := make([]*Workspace, 0, len(s.sessions))
	for _, w := range s.sessions {
		all = append(all, w)
	}
	s.mu.RUnlock()

	for _, w := range all {
		fn(w)
	}
}

// Sweep evicts sessions idle for longer than the ttl and returns how many
// were removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	removed := 0
	for id, w := range s.sessions {
		if w.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		s.count(n)
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) count(n int) {
	if s.onCount != nil {
		s.onCount(n)
	}
}
