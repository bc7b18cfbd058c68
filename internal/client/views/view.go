// Package views provides the aggregation read models of the client: admin
// statistics, the recent-activity feed and the user's storage destination.
// A view renders its last known data instantly, even when stale, and
// resolves fresh data through the query executor, so it observes cache
// invalidation immediately: the next Load after a matching Notify fetches
// from the backend.
package views

import (
	"context"
	"time"

	"github.com/dataport/uplink/internal/client/cache"
	"github.com/dataport/uplink/internal/client/query"
)

// View is one executor-backed read model.
type View[T any] struct {
	ex     *query.Executor
	key    cache.Key
	window time.Duration
	fetch  query.Operation[T]
}

func newView[T any](ex *query.Executor, key cache.Key, window time.Duration, fetch query.Operation[T]) *View[T] {
	return &View[T]{ex: ex, key: key, window: window, fetch: fetch}
}

// Peek returns the last known data without fetching, with its staleness.
// Callers render it immediately and follow up with Load when stale.
func (v *View[T]) Peek() (data T, stale bool, ok bool) {
	return query.Peek[T](v.ex, v.key, v.window)
}

// Load resolves current data through the cache: served directly while
// fresh, fetched (with concurrent-call deduplication) otherwise.
func (v *View[T]) Load(ctx context.Context) (T, error) {
	return query.Execute(ctx, v.ex, v.key, v.window, v.fetch)
}

// Refresh ignores freshness and refetches.
func (v *View[T]) Refresh(ctx context.Context) (T, error) {
	return query.Refetch(ctx, v.ex, v.key, v.window, v.fetch)
}
