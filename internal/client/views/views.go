package views

import (
	"context"
	"strconv"
	"time"

	"github.com/dataport/uplink/internal/client/api"
	"github.com/dataport/uplink/internal/client/cache"
	"github.com/dataport/uplink/internal/client/models"
	"github.com/dataport/uplink/internal/client/query"
)

// The key op tags mirror the invalidation patterns used by the upload
// manager and the admin mutations, so a successful upload or user change
// makes the matching views refetch on their next Load.

// StatsView is the admin dashboard aggregate. Stats change with every
// upload and every user mutation, hence the short staleness window.
type StatsView = View[*models.AdminStats]

func NewStatsView(client api.Client, ex *query.Executor, window time.Duration) *StatsView {
	return newView(ex, cache.Key{Op: "admin/stats"}, window, client.AdminStats)
}

// ActivityView is the recent-activity feed, limited to a fixed number of
// rows. The limit is part of the cache key.
type ActivityView = View[[]models.ActivityEntry]

func NewActivityView(client api.Client, ex *query.Executor, window time.Duration, limit int) *ActivityView {
	key := cache.Key{Op: "admin/activity", Args: []string{strconv.Itoa(limit)}}
	return newView(ex, key, window, func(ctx context.Context) ([]models.ActivityEntry, error) {
		return client.RecentActivity(ctx, limit)
	})
}

// StorageInfoView is the user's assigned storage destination. Only an
// administrator can change it, hence the long staleness window.
type StorageInfoView = View[*models.StorageInfo]

func NewStorageInfoView(client api.Client, ex *query.Executor, window time.Duration) *StorageInfoView {
	return newView(ex, cache.Key{Op: "user/storage-info"}, window, client.StorageInfo)
}
