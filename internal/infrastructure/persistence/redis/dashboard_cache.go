package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/codepulse-hub/codepulse-stats/internal/application/query"
)

// DashboardCache implements query.SummaryCache using the generic Redis Cache.
type DashboardCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewDashboardCache creates a new DashboardCache. A non-positive ttl falls
// back to TTLDashboardCache.
func NewDashboardCache(cache *Cache, ttl time.Duration) *DashboardCache {
	if ttl <= 0 {
		ttl = TTLDashboardCache
	}
	return &DashboardCache{
		cache: cache,
		ttl:   ttl,
	}
}

// GetDashboard gets a cached dashboard summary.
// Returns query.ErrSummaryMiss when no summary is cached.
func (d *DashboardCache) GetDashboard(ctx context.Context, userID uuid.UUID) (*query.DashboardResult, error) {
	var result query.DashboardResult
	err := d.cache.Get(ctx, DashboardKey(userID.String()), &result)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, query.ErrSummaryMiss
		}
		return nil, err
	}
	return &result, nil
}

// SetDashboard caches a dashboard summary.
func (d *DashboardCache) SetDashboard(ctx context.Context, userID uuid.UUID, result *query.DashboardResult) error {
	if result == nil {
		return nil
	}
	return d.cache.Set(ctx, DashboardKey(userID.String()), result, d.ttl)
}

// InvalidateDashboard drops the cached summary for a user. Called after a
// successful platform refresh so the next dashboard read recomputes.
func (d *DashboardCache) InvalidateDashboard(ctx context.Context, userID uuid.UUID) error {
	return d.cache.Delete(ctx, DashboardKey(userID.String()))
}
