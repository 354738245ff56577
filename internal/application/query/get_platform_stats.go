// Package query contains the read operations of the stats service.
// Reads are the only refresh trigger: there is no background sync job, a
// stale row is refreshed by whichever request observes the staleness.
package query

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/codepulse-hub/codepulse-stats/internal/domain/shared"
	"github.com/codepulse-hub/codepulse-stats/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PLATFORM STATS QUERY
// The aggregation/caching core: serve the cached PlatformStats row while it
// is fresh, otherwise fetch from the upstream platform, normalize, and
// replace the row. A failed refresh never erases the last-known-good
// snapshot - it only flips the row's status and error message.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultCacheTTL is how long a snapshot stays fresh.
const DefaultCacheTTL = 6 * time.Hour

// GetPlatformStatsQuery contains the parameters of a stats read.
type GetPlatformStatsQuery struct {
	// UserID is the owning user.
	UserID uuid.UUID

	// Handle is the user's identifier on the platform.
	Handle stats.Handle

	// ForceRefresh bypasses the freshness check and always hits the
	// upstream API.
	ForceRefresh bool
}

// Validate validates the query parameters.
func (q GetPlatformStatsQuery) Validate() error {
	if q.UserID == uuid.Nil {
		return shared.NewDomainError("stats", "GetPlatformStats", shared.ErrInvalidID,
			"user id must be provided")
	}
	if !q.Handle.IsValid() {
		return shared.NewDomainError("stats", "GetPlatformStats", shared.ErrInvalidInput,
			"platform handle is missing or malformed")
	}
	return nil
}

// PlatformStatsResult is the uniform result returned to the caller.
type PlatformStatsResult struct {
	// Stats is the stored row, freshly written on a refresh.
	Stats *stats.PlatformStats

	// RecentSolved is the recent-activity list produced by this refresh.
	// Cache hits return it empty: recent activity is not persisted.
	RecentSolved []stats.RecentSolved
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// UpstreamSource fetches and normalizes one platform's statistics.
// Implementations live in infrastructure/external.
type UpstreamSource interface {
	// Platform identifies which platform the source serves.
	Platform() stats.Platform

	// FetchSnapshot fetches the handle's statistics from the platform API.
	// Failures are classified into shared.ErrUpstreamUnavailable,
	// shared.ErrUpstreamMalformed or shared.ErrInvalidHandle.
	FetchSnapshot(ctx context.Context, handle string) (*stats.Snapshot, error)
}

// DashboardInvalidator drops derived dashboard caches after a refresh.
type DashboardInvalidator interface {
	InvalidateDashboard(ctx context.Context, userID uuid.UUID) error
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetPlatformStatsHandler serves stats reads for one platform. Instantiate
// one handler per platform, all sharing the repository.
type GetPlatformStatsHandler struct {
	repo        stats.Repository
	source      UpstreamSource
	invalidator DashboardInvalidator
	cacheTTL    time.Duration
	logger      *slog.Logger

	// now is injected for tests.
	now func() time.Time
}

// GetPlatformStatsHandlerConfig contains handler configuration.
type GetPlatformStatsHandlerConfig struct {
	// CacheTTL is the snapshot freshness window. Default: DefaultCacheTTL.
	CacheTTL time.Duration

	// Invalidator is optional; when set, successful refreshes drop the
	// user's dashboard cache.
	Invalidator DashboardInvalidator

	// Logger for structured logging.
	Logger *slog.Logger
}

// NewGetPlatformStatsHandler creates a handler bound to one platform source.
func NewGetPlatformStatsHandler(repo stats.Repository, source UpstreamSource, cfg GetPlatformStatsHandlerConfig) *GetPlatformStatsHandler {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &GetPlatformStatsHandler{
		repo:        repo,
		source:      source,
		invalidator: cfg.Invalidator,
		cacheTTL:    cfg.CacheTTL,
		logger:      cfg.Logger,
		now:         time.Now,
	}
}

// Handle executes the query.
//
// Fast path: a fresh row and no force flag means no network I/O at all.
// Slow path: fetch, normalize, upsert. Two concurrent slow paths for the
// same (user, platform) pair may both hit the upstream; the store's unique
// key guarantees they still converge on a single row, last commit wins.
func (h *GetPlatformStatsHandler) Handle(ctx context.Context, q GetPlatformStatsQuery) (*PlatformStatsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	platform := h.source.Platform()

	cached, err := h.repo.Find(ctx, q.UserID, platform)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		// No fallback data source exists; a broken store is fatal.
		return nil, err
	}

	if !q.ForceRefresh && cached.IsFresh(h.cacheTTL, h.now()) {
		return &PlatformStatsResult{
			Stats:        cached,
			RecentSolved: []stats.RecentSolved{},
		}, nil
	}

	snap, fetchErr := h.source.FetchSnapshot(ctx, q.Handle.String())
	if fetchErr != nil {
		h.logger.Warn("platform refresh failed",
			"platform", platform,
			"user_id", q.UserID,
			"error", fetchErr,
		)

		// Record the failure without touching the previous counters, then
		// surface the fetch error - the caller decides whether to show the
		// stale row or an error state.
		if _, markErr := h.repo.MarkFailed(ctx, q.UserID, platform, fetchErr.Error()); markErr != nil {
			return nil, markErr
		}
		return nil, fetchErr
	}

	row, err := h.repo.UpsertSnapshot(ctx, q.UserID, platform, snap)
	if err != nil {
		return nil, err
	}

	if h.invalidator != nil {
		if err := h.invalidator.InvalidateDashboard(ctx, q.UserID); err != nil {
			// The dashboard cache has its own TTL; stale reads self-heal.
			h.logger.Warn("dashboard invalidation failed", "user_id", q.UserID, "error", err)
		}
	}

	h.logger.Info("platform stats refreshed",
		"platform", platform,
		"user_id", q.UserID,
		"solved", row.SolvedCount,
	)

	return &PlatformStatsResult{
		Stats:        row,
		RecentSolved: snap.RecentSolved,
	}, nil
}
