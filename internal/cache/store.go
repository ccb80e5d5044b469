// Package cache is an in-memory key value store with optional per-entry
// expiry. Expired entries are purged lazily on read, entries are otherwise
// only removed explicitly, so the store grows without bound until cleared.
package cache

import (
	"strings"
	"sync"
	"time"

	"bom-dashboard/internal/assert"
	"bom-dashboard/internal/components/chrono"
)

// Entry is a cached value, a zero ExpiresAt never expires.
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

func (e Entry[V]) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

type Store[V any] struct {
	clock chrono.API

	mu      sync.Mutex
	entries map[string]Entry[V]
}

func New[V any](clock chrono.API) *Store[V] {
	assert.NotNil(clock)
	return &Store[V]{
		clock:   clock,
		entries: make(map[string]Entry[V]),
	}
}

// Set stores value under key and returns it, a ttl of 0 never expires.
func (s *Store[V]) Set(key string, value V, ttl time.Duration) V {
	entry := Entry[V]{Value: value}
	if ttl > 0 {
		entry.ExpiresAt = s.clock.Now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	return value
}

// Get returns the value under key, an expired entry is deleted and
// reported as absent.
func (s *Store[V]) Get(key string) (V, bool) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if entry.expired(now) {
		delete(s.entries, key)
		var zero V
		return zero, false
	}
	return entry.Value, true
}

func (s *Store[V]) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

func (s *Store[V]) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Clear removes every key starting with prefix, an empty prefix removes
// everything.
func (s *Store[V]) Clear(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prefix == "" {
		n := len(s.entries)
		s.entries = make(map[string]Entry[V])
		return n
	}

	n := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			n++
		}
	}
	return n
}

func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

type Stats struct {
	Total   int
	Expired int
	Active  int
}

// Stats counts entries without purging the expired ones.
func (s *Store[V]) Stats() Stats {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{Total: len(s.entries)}
	for _, entry := range s.entries {
		if entry.expired(now) {
			stats.Expired++
		}
	}
	stats.Active = stats.Total - stats.Expired
	return stats
}

// Entries returns a copy of every unexpired entry.
func (s *Store[V]) Entries() map[string]Entry[V] {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Entry[V], len(s.entries))
	for key, entry := range s.entries {
		if !entry.expired(now) {
			out[key] = entry
		}
	}
	return out
}

// Restore inserts an entry with an absolute expiry, it is a no-op when the
// entry has already expired.
func (s *Store[V]) Restore(key string, entry Entry[V]) bool {
	if entry.expired(s.clock.Now()) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	return true
}
