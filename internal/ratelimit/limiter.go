// Package ratelimit throttles callers with one token bucket per key.
//
// Buckets come from golang.org/x/time/rate. Time is read from a Clock and
// buckets live in a Store, both supplied by the caller, so a Limiter holds no
// hidden global state and tests can drive it without sleeping.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Store keeps buckets by key. A single server uses MemoryStore; a shared
// implementation lets several instances enforce one budget.
type Store interface {
	// LoadOrCreate returns the bucket for key, calling newFn when there is
	// none yet. now marks the bucket as recently used.
	LoadOrCreate(key string, now time.Time, newFn func() *rate.Limiter) *rate.Limiter
	// Sweep drops buckets last used before the cutoff and reports how many
	// were removed.
	Sweep(cutoff time.Time) int
}

// Limiter allows or rejects calls per key.
type Limiter struct {
	limit rate.Limit
	burst int
	clock Clock
	store Store
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(l *Limiter) { l.clock = c }
}

// WithStore replaces the in-memory store.
func WithStore(s Store) Option {
	return func(l *Limiter) { l.store = s }
}

// New returns a limiter refilling rps tokens per second up to burst.
// A non-positive rps disables limiting.
func New(rps float64, burst int, opts ...Option) *Limiter {
	l := &Limiter{
		limit: rate.Limit(rps),
		burst: burst,
		clock: SystemClock,
	}
	if rps <= 0 {
		l.limit = rate.Inf
	}
	if l.burst < 1 {
		l.burst = 1
	}
	for _, o := range opts {
		o(l)
	}
	if l.store == nil {
		l.store = NewMemoryStore()
	}
	return l
}

// Allow spends one token from key's bucket.
func (l *Limiter) Allow(key string) bool {
	if l.limit == rate.Inf {
		return true
	}
	now := l.clock.Now()
	b := l.store.LoadOrCreate(key, now, func() *rate.Limiter {
		return rate.NewLimiter(l.limit, l.burst)
	})
	return b.AllowN(now, 1)
}

// Sweep forgets buckets idle for longer than idle.
func (l *Limiter) Sweep(idle time.Duration) int {
	return l.store.Sweep(l.clock.Now().Add(-idle))
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// MemoryStore is a mutex-guarded map of buckets.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]*entry)}
}

func (s *MemoryStore) LoadOrCreate(key string, now time.Time, newFn func() *rate.Limiter) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.buckets[key]
	if !ok {
		e = &entry{lim: newFn()}
		s.buckets[key] = e
	}
	if now.After(e.lastSeen) {
		e.lastSeen = now
	}
	return e.lim
}

func (s *MemoryStore) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, e := range s.buckets {
		if e.lastSeen.Before(cutoff) {
			delete(s.buckets, k)
			n++
		}
	}
	return n
}

// Len reports the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}
