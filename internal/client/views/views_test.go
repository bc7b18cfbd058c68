package views

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataport/uplink/internal/client/api"
	"github.com/dataport/uplink/internal/client/cache"
	"github.com/dataport/uplink/internal/client/models"
	"github.com/dataport/uplink/internal/client/query"
)

type fakeAPI struct {
	api.Client

	stats         *models.AdminStats
	activity      []models.ActivityEntry
	storage       *models.StorageInfo
	statsCalls    int
	activityCalls int
	storageCalls  int
}

func (f *fakeAPI) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	f.statsCalls++
	return f.stats, nil
}

func (f *fakeAPI) RecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	f.activityCalls++
	if limit < len(f.activity) {
		return f.activity[:limit], nil
	}
	return f.activity, nil
}

func (f *fakeAPI) StorageInfo(ctx context.Context) (*models.StorageInfo, error) {
	f.storageCalls++
	return f.storage, nil
}

func newStack() (*cache.Store, *query.Executor, *query.Bus) {
	store := cache.NewStore()
	return store, query.NewExecutor(store, nil, time.Hour), query.NewBus(store, nil)
}

func TestStatsView_LoadCaches(t *testing.T) {
	_, ex, _ := newStack()
	fc := &fakeAPI{stats: &models.AdminStats{TotalUploads: 7}}
	v := NewStatsView(fc, ex, time.Minute)

	s1, err := v.Load(context.Background())
	require.NoError(t, err)
	s2, err := v.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, s1.TotalUploads)
	assert.Equal(t, s1, s2)
	assert.Equal(t, 1, fc.statsCalls)
}

func TestStatsView_Peek(t *testing.T) {
	_, ex, _ := newStack()
	fc := &fakeAPI{stats: &models.AdminStats{TotalUploads: 7}}
	v := NewStatsView(fc, ex, time.Minute)

	_, _, ok := v.Peek()
	assert.False(t, ok)

	_, err := v.Load(context.Background())
	require.NoError(t, err)

	got, stale, ok := v.Peek()
	require.True(t, ok)
	assert.False(t, stale)
	assert.Equal(t, 7, got.TotalUploads)
}

func TestViews_UploadInvalidationReachesAggregates(t *testing.T) {
	_, ex, bus := newStack()
	fc := &fakeAPI{
		stats:    &models.AdminStats{TotalUploads: 1},
		activity: []models.ActivityEntry{{Action: "File Upload"}},
		storage:  &models.StorageInfo{AccountName: "acc"},
	}
	stats := NewStatsView(fc, ex, time.Minute)
	activity := NewActivityView(fc, ex, time.Minute, 20)
	storage := NewStorageInfoView(fc, ex, time.Hour)
	ctx := context.Background()

	_, err := stats.Load(ctx)
	require.NoError(t, err)
	_, err = activity.Load(ctx)
	require.NoError(t, err)
	_, err = storage.Load(ctx)
	require.NoError(t, err)

	// The patterns an upload success publishes.
	bus.Notify(ctx, "files", "admin/stats", "admin/activity")

	_, err = stats.Load(ctx)
	require.NoError(t, err)
	_, err = activity.Load(ctx)
	require.NoError(t, err)
	_, err = storage.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, fc.statsCalls)
	assert.Equal(t, 2, fc.activityCalls)
	// Storage destination is untouched by uploads.
	assert.Equal(t, 1, fc.storageCalls)
}

func TestActivityView_LimitIsPartOfKey(t *testing.T) {
	_, ex, _ := newStack()
	fc := &fakeAPI{activity: []models.ActivityEntry{{Action: "Login"}, {Action: "File Upload"}}}

	v10 := NewActivityView(fc, ex, time.Minute, 10)
	v1 := NewActivityView(fc, ex, time.Minute, 1)
	ctx := context.Background()

	_, err := v10.Load(ctx)
	require.NoError(t, err)
	one, err := v1.Load(ctx)
	require.NoError(t, err)

	assert.Len(t, one, 1)
	assert.Equal(t, 2, fc.activityCalls)
}
