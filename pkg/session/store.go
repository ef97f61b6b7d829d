package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/goliatone/go-leadform/pkg/intake"
)

const (
	DefaultTTL         = 30 * time.Minute
	DefaultMaxSessions = 10000
	DefaultMaxPending  = 10000
)

// Option configures a Store.
type Option func(*Store)

// WithTTL sets how long an idle session survives. Every Get refreshes it.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxSessions caps the number of engaged sessions, those that applied at
// least one event. The least recently used one is evicted when another session
// would exceed the cap.
func WithMaxSessions(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.size = n
		}
	}
}

// WithMaxPending caps sessions that were created but never received an
// event. They are kept apart from engaged sessions, so a burst of page loads
// only evicts other untouched pages.
func WithMaxPending(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.pendingSize = n
		}
	}
}

// WithEngineOptions forwards options to every engine the store creates.
func WithEngineOptions(options ...intake.Option) Option {
	return func(s *Store) {
		s.engineOptions = append(s.engineOptions, options...)
	}
}

// WithEvictHook registers fn to run whenever the store itself abandons an
// active session: expiry, the size cap, Discard or Close.
func WithEvictHook(fn func(*Session)) Option {
	return func(s *Store) {
		s.onEvict = fn
	}
}

// WithIDGenerator replaces uuid.NewString.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// Store keeps live sessions in two expirable LRUs: pending for sessions that
// have not applied an event yet and engaged for the rest. A session moves to
// engaged on its first accepted event.
type Store struct {
	mu      sync.Mutex
	pending *expirable.LRU[string, *Session]
	engaged *expirable.LRU[string, *Session]

	ttl           time.Duration
	size          int
	pendingSize   int
	engineOptions []intake.Option
	onEvict       func(*Session)
	newID         func() string
	now           func() time.Time
}

// NewStore builds a store.
func NewStore(options ...Option) *Store {
	s := &Store{
		ttl:         DefaultTTL,
		size:        DefaultMaxSessions,
		pendingSize: DefaultMaxPending,
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.engaged = expirable.NewLRU[string, *Session](s.size, s.evicted, s.ttl)
	s.pending = expirable.NewLRU[string, *Session](s.pendingSize, s.evictedPending, s.ttl)
	return s
}

// Create starts a new active session. It stays pending until its first event.
func (s *Store) Create() *Session {
	sess := newSession(s.newID(), s.now, s.engineOptions...)
	sess.onEngage = s.promote

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Add(sess.ID(), sess)
	return sess
}

// Get returns the live session called id and refreshes its expiry.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cache := range []*expirable.LRU[string, *Session]{s.engaged, s.pending} {
		if sess, ok := cache.Get(id); ok {
			cache.Add(id, sess)
			return sess, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
}

// Discard drops id from the store. An active session is abandoned first.
func (s *Store) Discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engaged.Remove(id)
	s.pending.Remove(id)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	return s.engaged.Len() + s.pending.Len()
}

// Close abandons and drops every live session.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Purge()
	s.engaged.Purge()
}

// promote moves sess from pending to engaged. A session the store already
// dropped stays dropped.
func (s *Store) promote(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if held, ok := s.pending.Peek(sess.ID()); !ok || held != sess {
		return
	}
	s.engaged.Add(sess.ID(), sess)
	s.pending.Remove(sess.ID())
}

// evictedPending skips sessions that were just moved to engaged.
func (s *Store) evictedPending(id string, sess *Session) {
	if held, ok := s.engaged.Peek(id); ok && held == sess {
		return
	}
	s.evicted(id, sess)
}

// evicted runs for every entry leaving the cache, explicit removals included.
// Sessions already closed by Submit or Abandon are left alone.
func (s *Store) evicted(_ string, sess *Session) {
	if sess == nil {
		return
	}
	if err := sess.Abandon(context.Background()); err != nil {
		return
	}
	if s.onEvict != nil {
		s.onEvict(sess)
	}
}
