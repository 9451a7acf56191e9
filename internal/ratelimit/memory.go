package ratelimit

import (
	"sync"
	"time"
)

// MemoryWindowStore is an in-process WindowStore keeping attempt timestamps
// in a map guarded by a single mutex. Entries for a key are pruned lazily on
// the next access to that key; there is no background sweep.
//
// Keys are never deleted, so the map grows with the number of distinct
// (operation, caller) pairs seen over the process lifetime. That is an
// accepted limitation of in-process limiting, not something this store
// papers over.
type MemoryWindowStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
}

// NewMemoryWindowStore creates an empty in-memory window store.
func NewMemoryWindowStore() *MemoryWindowStore {
	return &MemoryWindowStore{
		windows: make(map[string][]time.Time),
	}
}

// Allow implements WindowStore. The whole prune-check-record sequence runs
// under the store lock, which serializes decisions across all keys; the
// work per call is a single slice filter, so the lock is never held across
// I/O.
func (s *MemoryWindowStore) Allow(key string, now time.Time, max int, window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Drop attempts that have left the window.
	kept := s.windows[key][:0]
	for _, ts := range s.windows[key] {
		if now.Sub(ts) < window {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= max {
		s.windows[key] = kept
		return false
	}

	s.windows[key] = append(kept, now)
	return true
}

// keyCount reports the number of tracked composite keys. Used by tests to
// document the unbounded-growth limitation.
func (s *MemoryWindowStore) keyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
