// Package cache implements the client-side request cache: a keyed store of
// fetched query results with staleness tracking, in-flight request
// deduplication, probabilistic sweeping and pattern-based invalidation.
//
// The store is an explicitly constructed, injectable instance. Callers
// never touch the underlying map; all mutation goes through Put, BeginFetch,
// Complete, Abort and Invalidate, which preserves the deduplication
// invariant (at most one in-flight fetch per key) under interleaving.
package cache

import (
	"math/rand/v2"
	"sync"
	"time"
)

// sweepDenominator gates the probabilistic sweep: roughly one Sweep call in
// ten actually walks the map, so no dedicated timer is needed.
const sweepDenominator = 10

type entry struct {
	key       Key
	data      any
	hasData   bool
	fetchedAt time.Time
	flight    *Flight
}

// Snapshot is an immutable view of a cache entry's last committed state.
type Snapshot struct {
	Key       Key
	Data      any
	FetchedAt time.Time
}

// Store is the shared request cache. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry

	// test seams
	now    func() time.Time
	chance func() bool
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
		now:     time.Now,
		chance:  func() bool { return rand.IntN(sweepDenominator) == 0 },
	}
}

// Get returns the last committed data for key. ok is false when the key is
// absent or has never completed a fetch. Pure lookup, no side effects.
func (s *Store) Get(key Key) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key.Identity()]
	if !ok || !e.hasData {
		return Snapshot{}, false
	}
	return Snapshot{Key: key, Data: e.data, FetchedAt: e.fetchedAt}, true
}

// Put replaces the entry for key with data fetched at fetchedAt. Any
// in-flight marker for the key is cleared and its waiters are handed the
// new data. data and fetchedAt are committed atomically.
func (s *Store) Put(key Key, data any, fetchedAt time.Time) {
	s.mu.Lock()
	id := key.Identity()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{key: key}
		s.entries[id] = e
	}
	f := e.flight
	e.data = data
	e.hasData = true
	e.fetchedAt = fetchedAt
	e.flight = nil
	s.mu.Unlock()

	if f != nil {
		f.settle(data, nil)
	}
}

// BeginFetch registers an in-flight fetch for key. When a fetch is already
// outstanding the existing Flight is returned with owner=false and the
// caller must simply Wait on it. With owner=true the caller is responsible
// for running the fetch and finishing it via Complete or Abort.
func (s *Store) BeginFetch(key Key) (f *Flight, owner bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := key.Identity()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{key: key}
		s.entries[id] = e
	}
	if e.flight != nil {
		return e.flight, false
	}
	e.flight = newFlight()
	return e.flight, true
}

// Complete commits a successful fetch owned by f. The data is written only
// while f is still the registered flight for key; if the key was
// invalidated (or force-replaced) in the meantime the cache is left alone,
// but waiters still receive the fetched value. The map mutation happens
// before any waiter wakes, so a query issued after Complete returns always
// observes the new data.
func (s *Store) Complete(key Key, f *Flight, data any) {
	s.mu.Lock()
	id := key.Identity()
	if e, ok := s.entries[id]; ok && e.flight == f {
		e.data = data
		e.hasData = true
		e.fetchedAt = s.now()
		e.flight = nil
	}
	s.mu.Unlock()

	f.settle(data, nil)
}

// Abort finishes a failed fetch owned by f. The in-flight marker is
// dropped so the next query re-fetches instead of replaying the rejection;
// the entry keeps its last known data and fetchedAt (or stays absent). The
// error is propagated only to the callers awaiting this flight.
func (s *Store) Abort(key Key, f *Flight, err error) {
	s.mu.Lock()
	id := key.Identity()
	if e, ok := s.entries[id]; ok && e.flight == f {
		e.flight = nil
		if !e.hasData {
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	f.settle(nil, err)
}

// IsStale reports whether the snapshot's data is outdated for the given
// staleness window. Exactly staleWindow elapsed counts as stale.
func (s *Store) IsStale(snap Snapshot, staleWindow time.Duration) bool {
	return !s.now().Before(snap.FetchedAt.Add(staleWindow))
}

// Sweep removes committed entries older than maxAge, bounding memory. Only
// about one call in ten does any work; in-flight keys are never removed.
func (s *Store) Sweep(maxAge time.Duration) {
	if !s.chance() {
		return
	}
	cutoff := s.now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if e.flight == nil && e.hasData && e.fetchedAt.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}

// Invalidate removes every entry whose key matches any of the patterns
// (see Key.Matches). In-flight fetches for matching keys are detached: the
// outstanding call still settles and hands its result to waiters already
// attached, but the result is not retained, so the next query re-fetches.
// Invalidate with no patterns clears the whole store.
func (s *Store) Invalidate(patterns ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(patterns) == 0 {
		s.entries = make(map[string]*entry)
		return
	}

	for id, e := range s.entries {
		for _, p := range patterns {
			if e.key.Matches(p) {
				delete(s.entries, id)
				break
			}
		}
	}
}

// Evict removes the single entry for key, in-flight marker included. Used
// by forced refetches, which target one identity rather than a pattern.
func (s *Store) Evict(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key.Identity())
}

// Len returns the number of tracked entries, committed or in flight.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
