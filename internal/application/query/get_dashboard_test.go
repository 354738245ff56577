package query

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepulse-hub/codepulse-stats/internal/domain/stats"
)

type fakeSummaryCache struct {
	summaries map[uuid.UUID]*DashboardResult
	gets      int
	sets      int
}

func newFakeSummaryCache() *fakeSummaryCache {
	return &fakeSummaryCache{summaries: make(map[uuid.UUID]*DashboardResult)}
}

func (c *fakeSummaryCache) GetDashboard(ctx context.Context, userID uuid.UUID) (*DashboardResult, error) {
	c.gets++
	if summary, ok := c.summaries[userID]; ok {
		return summary, nil
	}
	return nil, ErrSummaryMiss
}

func (c *fakeSummaryCache) SetDashboard(ctx context.Context, userID uuid.UUID, result *DashboardResult) error {
	c.sets++
	c.summaries[userID] = result
	return nil
}

func (c *fakeSummaryCache) InvalidateDashboard(ctx context.Context, userID uuid.UUID) error {
	delete(c.summaries, userID)
	return nil
}

func seedSuccessRow(repo *fakeRepo, userID uuid.UUID, platform stats.Platform, solved int, split stats.DifficultySplit, rating int) {
	updated := time.Now()
	repo.rows[key(userID, platform)] = &stats.PlatformStats{
		ID:          uuid.New(),
		UserID:      userID,
		Platform:    platform,
		Rating:      rating,
		SolvedCount: solved,
		Difficulty:  split,
		Status:      stats.StatusSuccess,
		LastUpdated: &updated,
	}
}

func TestDashboard_RollsUpAllPlatforms(t *testing.T) {
	userID := uuid.New()
	repo := newFakeRepo()
	seedSuccessRow(repo, userID, stats.PlatformCodeforces, 40, stats.DifficultySplit{Easy: 20, Medium: 15, Hard: 5}, 1700)
	seedSuccessRow(repo, userID, stats.PlatformLeetCode, 160, stats.DifficultySplit{Easy: 100, Medium: 50, Hard: 10}, 1900)

	handler := NewGetDashboardHandler(repo, nil, nil)

	result, err := handler.Handle(context.Background(), GetDashboardQuery{UserID: userID})
	require.NoError(t, err)

	assert.Equal(t, 200, result.TotalSolved)
	assert.Equal(t, stats.DifficultySplit{Easy: 120, Medium: 65, Hard: 15}, result.Difficulty)
	assert.Equal(t, 40, result.Platforms["codeforces"].SolvedCount)
	assert.Equal(t, 160, result.Platforms["leetcode"].SolvedCount)
}

func TestDashboard_EmptyWhenNoPlatformsLinked(t *testing.T) {
	handler := NewGetDashboardHandler(newFakeRepo(), nil, nil)

	result, err := handler.Handle(context.Background(), GetDashboardQuery{UserID: uuid.New()})
	require.NoError(t, err)

	assert.Zero(t, result.TotalSolved)
	assert.Empty(t, result.Platforms)
}

func TestDashboard_CacheHitSkipsRepository(t *testing.T) {
	userID := uuid.New()
	repo := newFakeRepo()
	cache := newFakeSummaryCache()
	cache.summaries[userID] = &DashboardResult{TotalSolved: 99}

	handler := NewGetDashboardHandler(repo, cache, nil)

	result, err := handler.Handle(context.Background(), GetDashboardQuery{UserID: userID})
	require.NoError(t, err)

	assert.Equal(t, 99, result.TotalSolved)
	assert.Zero(t, cache.sets)
}

func TestDashboard_CacheMissComputesAndStores(t *testing.T) {
	userID := uuid.New()
	repo := newFakeRepo()
	seedSuccessRow(repo, userID, stats.PlatformCodeforces, 40, stats.DifficultySplit{Easy: 40}, 1500)
	cache := newFakeSummaryCache()

	handler := NewGetDashboardHandler(repo, cache, nil)

	result, err := handler.Handle(context.Background(), GetDashboardQuery{UserID: userID})
	require.NoError(t, err)

	assert.Equal(t, 40, result.TotalSolved)
	assert.Equal(t, 1, cache.sets)

	// Second read is served from cache.
	_, err = handler.Handle(context.Background(), GetDashboardQuery{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
}

func TestDashboard_InvalidationDropsCachedSummary(t *testing.T) {
	userID := uuid.New()
	cache := newFakeSummaryCache()
	cache.summaries[userID] = &DashboardResult{TotalSolved: 99}

	require.NoError(t, cache.InvalidateDashboard(context.Background(), userID))

	_, err := cache.GetDashboard(context.Background(), userID)
	assert.ErrorIs(t, err, ErrSummaryMiss)
}
