package store

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"timedstore/internal/metrics"
)

// Result describes the outcome of a Check lookup.
type Result int

const (
	// Missing means no entry exists for the key.
	Missing Result = iota
	// Live means the entry exists and has not outlived the timeout.
	Live
	// Expired means the entry had outlived the timeout and was removed.
	Expired
)

// Store is a concurrency-safe in-memory key–value store with
// timestamped entries.
//
// Design principles:
// - Safe for concurrent access using a single Mutex shared by all operations
// - Timestamps come from an injected clock so expiry is testable
// - The store itself performs no expiration policy; Check is the one
//   atomic primitive the access gate and the sweeper layer it on
type Store[K comparable, V any] struct {
	mu      sync.Mutex
	data    map[K]Entry[V]
	clock   clockwork.Clock
	metrics *metrics.Registry
}

// New initializes and returns an empty Store.
func New[K comparable, V any](clock clockwork.Clock, reg *metrics.Registry) *Store[K, V] {
	return &Store[K, V]{
		data:    make(map[K]Entry[V]),
		clock:   clock,
		metrics: reg,
	}
}

// Set inserts or overwrites a key.
//
// The entry's InsertedAt is always restamped to the current time, so
// writing an existing key resets its TTL clock.
func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.Inc(metrics.SetsTotal)

	if _, exists := s.data[key]; !exists {
		s.metrics.Inc(metrics.KeysCurrent)
	}

	s.data[key] = Entry[V]{
		Value:      value,
		InsertedAt: s.clock.Now(),
	}
}

// Delete removes a key. Returns true if the key existed.
func (s *Store[K, V]) Delete(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return false
	}

	delete(s.data, key)
	s.metrics.Inc(metrics.DeletesTotal)
	s.metrics.Add(metrics.KeysCurrent, -1)
	return true
}

// Check looks up a key and atomically removes it if it has outlived
// timeout.
//
// Behavior:
// - Absent key: returns (zero, Missing)
// - Age >= timeout: deletes the entry and returns it with Expired
// - Otherwise: returns the entry with Live
//
// The check-age-then-delete sequence happens under the lock, so for a
// given key at most one caller ever observes Expired. Whichever path
// (access gate or sweeper) sees it first wins; the loser finds the key
// already gone and gets Missing. Callback dispatch is the caller's job
// and must happen after this returns, outside the lock.
func (s *Store[K, V]) Check(key K, timeout time.Duration) (Entry[V], Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.data[key]
	if !exists {
		return Entry[V]{}, Missing
	}

	if entry.Age(s.clock.Now()) >= timeout {
		delete(s.data, key)
		s.metrics.Add(metrics.KeysCurrent, -1)
		return entry, Expired
	}

	return entry, Live
}

// Keys returns a point-in-time copy of the current keys.
//
// Sampling iterates this snapshot, never the live map, so a concurrent
// writer can never invalidate a sweep in progress. A snapshotted key
// may already be gone by the time it is inspected; Check treats that
// as Missing.
func (s *Store[K, V]) Keys() []K {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]K, 0, len(s.data))
	for k := range s.data {
		out = append(out, k)
	}
	return out
}

// Len returns the number of entries currently held, including any that
// are logically expired but not yet reaped.
func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.data)
}
