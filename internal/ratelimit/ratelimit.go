package ratelimit

import "time"

// WindowStore holds the attempt windows backing a Limiter. Implementations
// must make the prune-check-record sequence atomic per key: concurrent
// callers racing on the same key must never both be admitted past the
// limit, and no attempt may be lost to a concurrent update.
//
// The store abstraction exists so the in-memory implementation can later be
// swapped for a shared backing store without changing limiter call sites.
type WindowStore interface {
	// Allow prunes timestamps older than window from the key's record,
	// rejects without recording if max attempts remain inside the window,
	// and otherwise records now and admits.
	Allow(key string, now time.Time, max int, window time.Duration) bool
}

// Limiter bounds repeated attempts at an operation within a rolling time
// window, keyed by operation and caller. It is safe for concurrent use.
type Limiter struct {
	store WindowStore
	now   func() time.Time
}

// New creates a Limiter backed by the given window store.
func New(store WindowStore) *Limiter {
	return &Limiter{
		store: store,
		now:   time.Now,
	}
}

// Allow reports whether the caller may perform the operation right now.
// The decision is linearizable per composite key; decisions across
// different keys may interleave arbitrarily. A rejected attempt is not
// recorded, so being over the limit does not extend the penalty.
func (l *Limiter) Allow(operation, caller string, max int, window time.Duration) bool {
	return l.store.Allow(operation+":"+caller, l.now(), max, window)
}
