package stats

import (
	"context"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// The contract for the stats cache store. Implementations live in
// infrastructure/persistence and must enforce the (user_id, platform)
// uniqueness invariant at the storage layer so that concurrent upserts race
// safely to a single row.
// ══════════════════════════════════════════════════════════════════════════════

// Repository persists PlatformStats rows keyed by (user, platform).
type Repository interface {
	// Find returns the row for the (user, platform) pair.
	// Returns shared.ErrNotFound when no row exists.
	Find(ctx context.Context, userID uuid.UUID, platform Platform) (*PlatformStats, error)

	// FindAllForUser returns every platform row the user has.
	FindAllForUser(ctx context.Context, userID uuid.UUID) ([]*PlatformStats, error)

	// UpsertSnapshot atomically inserts or replaces the row's counters with
	// the freshly fetched snapshot, marking the refresh successful and
	// stamping LastUpdated. Returns the stored row.
	UpsertSnapshot(ctx context.Context, userID uuid.UUID, platform Platform, snap *Snapshot) (*PlatformStats, error)

	// MarkFailed atomically records a failed refresh attempt. On an existing
	// row only Status and ErrorMessage change - counters and LastUpdated
	// keep the last-known-good snapshot. On a missing row it creates one
	// with zero counters and no LastUpdated. Returns the stored row.
	MarkFailed(ctx context.Context, userID uuid.UUID, platform Platform, message string) (*PlatformStats, error)
}
