package query

import (
	"context"

	"github.com/dataport/uplink/internal/client/cache"
	"github.com/dataport/uplink/internal/logging"
)

// Bus delivers pattern-based cache eviction for mutating operations. Every
// create/update/delete and every successful upload calls Notify right after
// the backend response is received and before any success feedback reaches
// the user, so a read triggered by that feedback misses the cache and
// fetches authoritative data.
type Bus struct {
	store *cache.Store
	log   logging.Logger
}

func NewBus(store *cache.Store, log logging.Logger) *Bus {
	if log == nil {
		log = logging.Discard()
	}
	return &Bus{store: store, log: log}
}

// Notify evicts every cache entry matching any of the patterns.
func (b *Bus) Notify(ctx context.Context, patterns ...string) {
	b.log.Debug(ctx, "invalidating cache", "patterns", patterns)
	b.store.Invalidate(patterns...)
}

// Reset clears the whole cache. Used on logout and on authentication
// failures, which tear the session down entirely.
func (b *Bus) Reset(ctx context.Context) {
	b.log.Debug(ctx, "clearing cache")
	b.store.Invalidate()
}
