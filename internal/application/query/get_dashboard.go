package query

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/codepulse-hub/codepulse-stats/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// Rolls every platform row a user has into one summary: total solved,
// combined difficulty split, per-platform counts. The roll-up is cheap but
// read on every dashboard load, so it sits behind a short-TTL cache that a
// successful refresh invalidates.
// ══════════════════════════════════════════════════════════════════════════════

// GetDashboardQuery contains the parameters of a dashboard read.
type GetDashboardQuery struct {
	// UserID is the owning user.
	UserID uuid.UUID
}

// PlatformSummary is the per-platform slice of the dashboard.
type PlatformSummary struct {
	SolvedCount int          `json:"solved_count"`
	Rating      int          `json:"rating"`
	Status      stats.Status `json:"status"`
}

// DashboardResult is the cross-platform roll-up.
type DashboardResult struct {
	TotalSolved int                        `json:"total_solved"`
	Difficulty  stats.DifficultySplit      `json:"difficulty"`
	Platforms   map[string]PlatformSummary `json:"platforms"`
}

// SummaryCache caches computed dashboard summaries. Implementations live in
// infrastructure/persistence/redis. ErrSummaryMiss signals a cache miss.
type SummaryCache interface {
	GetDashboard(ctx context.Context, userID uuid.UUID) (*DashboardResult, error)
	SetDashboard(ctx context.Context, userID uuid.UUID, result *DashboardResult) error
	DashboardInvalidator
}

// ErrSummaryMiss is returned by SummaryCache when no summary is cached.
var ErrSummaryMiss = errors.New("dashboard summary not cached")

// GetDashboardHandler serves dashboard reads.
type GetDashboardHandler struct {
	repo   stats.Repository
	cache  SummaryCache // optional
	logger *slog.Logger
}

// NewGetDashboardHandler creates a dashboard query handler. The cache may be
// nil, in which case every read recomputes the roll-up.
func NewGetDashboardHandler(repo stats.Repository, cache SummaryCache, logger *slog.Logger) *GetDashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetDashboardHandler{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Handle executes the query. A user with no linked platforms gets an empty
// summary, not an error.
func (h *GetDashboardHandler) Handle(ctx context.Context, q GetDashboardQuery) (*DashboardResult, error) {
	if h.cache != nil {
		cached, err := h.cache.GetDashboard(ctx, q.UserID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrSummaryMiss) {
			// Degrade to direct reads when the cache is down.
			h.logger.Warn("dashboard cache read failed", "user_id", q.UserID, "error", err)
		}
	}

	rows, err := h.repo.FindAllForUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	result := &DashboardResult{
		Platforms: make(map[string]PlatformSummary, len(rows)),
	}
	for _, row := range rows {
		result.TotalSolved += row.SolvedCount
		result.Difficulty = result.Difficulty.Add(row.Difficulty)
		result.Platforms[row.Platform.String()] = PlatformSummary{
			SolvedCount: row.SolvedCount,
			Rating:      row.Rating,
			Status:      row.Status,
		}
	}

	if h.cache != nil {
		if err := h.cache.SetDashboard(ctx, q.UserID, result); err != nil {
			h.logger.Warn("dashboard cache write failed", "user_id", q.UserID, "error", err)
		}
	}

	return result, nil
}
