// Package query wraps arbitrary fetch operations with the request cache:
// fresh entries are served directly, concurrent identical queries share one
// underlying call, and mutations evict entries through the invalidation bus.
package query

import (
	"context"
	"time"

	"github.com/dataport/uplink/internal/client/cache"
	"github.com/dataport/uplink/internal/logging"
)

// Operation is the wrapped asynchronous fetch: typically one REST call.
type Operation[T any] func(ctx context.Context) (T, error)

// Executor mediates between callers and the cache store. It is constructed
// once per application and injected; it carries no hidden global state.
type Executor struct {
	store       *cache.Store
	log         logging.Logger
	sweepMaxAge time.Duration
}

// NewExecutor binds an executor to its store. sweepMaxAge bounds how long
// any entry may survive regardless of its staleness window.
func NewExecutor(store *cache.Store, log logging.Logger, sweepMaxAge time.Duration) *Executor {
	if log == nil {
		log = logging.Discard()
	}
	return &Executor{store: store, log: log, sweepMaxAge: sweepMaxAge}
}

// Store exposes the underlying cache store, mainly for the invalidation bus.
func (ex *Executor) Store() *cache.Store { return ex.store }

// Execute resolves key through the cache:
//
//   - a fresh entry is returned immediately, no fetch happens;
//   - an outstanding fetch for the same key is joined, not duplicated:
//     for N concurrent callers the operation runs exactly once;
//   - otherwise op runs, and on success the result is committed before any
//     waiter wakes, so no caller can observe pre-commit data afterwards.
//
// A failed fetch leaves the cached entry in its prior state and returns the
// error only to the callers attached to that fetch.
func Execute[T any](ctx context.Context, ex *Executor, key cache.Key, staleWindow time.Duration, op Operation[T]) (T, error) {
	ex.store.Sweep(ex.sweepMaxAge)

	if snap, ok := ex.store.Get(key); ok && !ex.store.IsStale(snap, staleWindow) {
		ex.log.Debug(ctx, "cache hit", "key", key.Identity())
		return snap.Data.(T), nil
	}

	flight, owner := ex.store.BeginFetch(key)
	if owner {
		data, err := op(ctx)
		if err != nil {
			ex.log.Debug(ctx, "fetch failed", "key", key.Identity(), "err", err)
			ex.store.Abort(key, flight, err)
		} else {
			ex.store.Complete(key, flight, data)
		}
	} else {
		ex.log.Debug(ctx, "joined in-flight fetch", "key", key.Identity())
	}

	v, err := flight.Wait(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Refetch forces a fresh read: the single key is invalidated first, then
// resolved through Execute.
func Refetch[T any](ctx context.Context, ex *Executor, key cache.Key, staleWindow time.Duration, op Operation[T]) (T, error) {
	ex.store.Evict(key)
	return Execute(ctx, ex, key, staleWindow, op)
}

// Peek returns the cached data for key without fetching, together with its
// staleness. Read models use it to render the last known data instantly
// while a refresh is underway.
func Peek[T any](ex *Executor, key cache.Key, staleWindow time.Duration) (data T, stale bool, ok bool) {
	snap, ok := ex.store.Get(key)
	if !ok {
		var zero T
		return zero, false, false
	}
	return snap.Data.(T), ex.store.IsStale(snap, staleWindow), true
}
