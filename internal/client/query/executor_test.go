package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataport/uplink/internal/client/cache"
)

func newTestExecutor() *Executor {
	return NewExecutor(cache.NewStore(), nil, time.Hour)
}

func TestExecute_MissFetchesAndCaches(t *testing.T) {
	ex := newTestExecutor()
	key := cache.NewKey("files")
	ctx := context.Background()

	var calls atomic.Int64
	op := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "A", nil
	}

	got, err := Execute(ctx, ex, key, 5*time.Second, op)
	require.NoError(t, err)
	assert.Equal(t, "A", got)

	got, err = Execute(ctx, ex, key, 5*time.Second, op)
	require.NoError(t, err)
	assert.Equal(t, "A", got)

	assert.Equal(t, int64(1), calls.Load(), "fresh entry must be served without re-fetching")
}

func TestExecute_ConcurrentIdenticalQueries_RunOnce(t *testing.T) {
	ex := newTestExecutor()
	key := cache.NewKey("admin/stats")
	release := make(chan struct{})

	var calls atomic.Int64
	op := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "stats", nil
	}

	const n = 16
	var wg sync.WaitGroup
	results := make([]string, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Execute(context.Background(), ex, key, time.Minute, op)
		}(i)
	}

	// let every goroutine reach the cache before the fetch settles
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "N concurrent identical queries must run the operation exactly once")
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "stats", results[i])
	}
}

func TestExecute_StaleEntryRefetches(t *testing.T) {
	ex := newTestExecutor()
	key := cache.NewKey("files")
	ctx := context.Background()

	var calls atomic.Int64
	op := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "A", nil
	}

	_, err := Execute(ctx, ex, key, 0, op) // zero window: immediately stale
	require.NoError(t, err)
	_, err = Execute(ctx, ex, key, 0, op)
	require.NoError(t, err)

	assert.Equal(t, int64(2), calls.Load())
}

func TestExecute_ErrorPropagatesAndIsNotCached(t *testing.T) {
	ex := newTestExecutor()
	key := cache.NewKey("files")
	ctx := context.Background()
	boom := errors.New("boom")

	calls := 0
	op := func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", boom
		}
		return "B", nil
	}

	_, err := Execute(ctx, ex, key, time.Minute, op)
	assert.ErrorIs(t, err, boom)

	// the rejection is not replayed: the next attempt re-fetches
	got, err := Execute(ctx, ex, key, time.Minute, op)
	require.NoError(t, err)
	assert.Equal(t, "B", got)
	assert.Equal(t, 2, calls)
}

func TestExecute_InvalidationDefeatsFreshness(t *testing.T) {
	// staleWindow 5000ms, data cached at t=0, invalidated at t=1000:
	// a query at t=1200 must re-fetch even though the entry is fresh by time.
	ex := newTestExecutor()
	bus := NewBus(ex.Store(), nil)
	key := cache.NewKey("files")
	ctx := context.Background()

	var calls atomic.Int64
	op := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "A", nil
		}
		return "B", nil
	}

	got, err := Execute(ctx, ex, key, 5*time.Second, op)
	require.NoError(t, err)
	assert.Equal(t, "A", got)

	bus.Notify(ctx, "files")

	got, err = Execute(ctx, ex, key, 5*time.Second, op)
	require.NoError(t, err)
	assert.Equal(t, "B", got, "invalidated entry must not be served from cache")
	assert.Equal(t, int64(2), calls.Load())
}

func TestRefetch_ForcesSingleKeyOnly(t *testing.T) {
	ex := newTestExecutor()
	ctx := context.Background()

	page1 := cache.NewKey("admin/users", "1")
	page2 := cache.NewKey("admin/users", "2")

	var p1, p2 atomic.Int64
	op1 := func(ctx context.Context) (string, error) { p1.Add(1); return "p1", nil }
	op2 := func(ctx context.Context) (string, error) { p2.Add(1); return "p2", nil }

	_, err := Execute(ctx, ex, page1, time.Minute, op1)
	require.NoError(t, err)
	_, err = Execute(ctx, ex, page2, time.Minute, op2)
	require.NoError(t, err)

	_, err = Refetch(ctx, ex, page1, time.Minute, op1)
	require.NoError(t, err)

	_, err = Execute(ctx, ex, page2, time.Minute, op2)
	require.NoError(t, err)

	assert.Equal(t, int64(2), p1.Load())
	assert.Equal(t, int64(1), p2.Load(), "refetch of one page must not evict its siblings")
}

func TestPeek_ReportsStaleness(t *testing.T) {
	ex := newTestExecutor()
	key := cache.NewKey("admin/stats")
	ctx := context.Background()

	_, _, ok := Peek[string](ex, key, time.Minute)
	assert.False(t, ok)

	_, err := Execute(ctx, ex, key, time.Minute, func(ctx context.Context) (string, error) {
		return "stats", nil
	})
	require.NoError(t, err)

	data, stale, ok := Peek[string](ex, key, time.Minute)
	require.True(t, ok)
	assert.Equal(t, "stats", data)
	assert.False(t, stale)

	data, stale, ok = Peek[string](ex, key, 0)
	require.True(t, ok)
	assert.Equal(t, "stats", data)
	assert.True(t, stale)
}

func TestBus_Reset_ClearsEverything(t *testing.T) {
	ex := newTestExecutor()
	bus := NewBus(ex.Store(), nil)
	ctx := context.Background()

	_, err := Execute(ctx, ex, cache.NewKey("files"), time.Minute, func(ctx context.Context) (string, error) {
		return "f", nil
	})
	require.NoError(t, err)

	bus.Reset(ctx)
	assert.Zero(t, ex.Store().Len())
}
