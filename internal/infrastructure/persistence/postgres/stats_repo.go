package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/codepulse-hub/codepulse-stats/internal/domain/shared"
	"github.com/codepulse-hub/codepulse-stats/internal/domain/stats"
)

// StatsRepository implements stats.Repository for PostgreSQL.
//
// Both write paths are single INSERT ... ON CONFLICT statements so that
// concurrent refreshes for the same (user, platform) pair race safely: the
// unique_user_platform constraint guarantees one row, and last-writer-wins is
// acceptable because every writer carries a complete snapshot.
type StatsRepository struct {
	conn *Connection
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(conn *Connection) *StatsRepository {
	return &StatsRepository{conn: conn}
}

const statsColumns = `
	id, user_id, platform, rating, rank, solved_count,
	easy_count, medium_count, hard_count,
	status, error_message, last_updated, created_at, updated_at
`

// Find returns the row for the (user, platform) pair.
func (r *StatsRepository) Find(ctx context.Context, userID uuid.UUID, platform stats.Platform) (*stats.PlatformStats, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM platform_stats
		WHERE user_id = $1 AND platform = $2
	`, statsColumns)

	row := r.conn.QueryRow(ctx, query, userID, string(platform))

	s, err := scanPlatformStats(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find platform stats: %w", err)
	}

	return s, nil
}

// FindAllForUser returns every platform row the user has.
func (r *StatsRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]*stats.PlatformStats, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM platform_stats
		WHERE user_id = $1
		ORDER BY platform
	`, statsColumns)

	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query platform stats: %w", err)
	}
	defer rows.Close()

	var result []*stats.PlatformStats
	for rows.Next() {
		s, err := scanPlatformStats(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan platform stats: %w", err)
		}
		result = append(result, s)
	}

	return result, rows.Err()
}

// UpsertSnapshot inserts or replaces the row's counters with a freshly
// fetched snapshot and stamps last_updated.
func (r *StatsRepository) UpsertSnapshot(ctx context.Context, userID uuid.UUID, platform stats.Platform, snap *stats.Snapshot) (*stats.PlatformStats, error) {
	query := fmt.Sprintf(`
		INSERT INTO platform_stats (
			user_id, platform, rating, rank, solved_count,
			easy_count, medium_count, hard_count,
			status, error_message, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'success', '', NOW())
		ON CONFLICT(user_id, platform) DO UPDATE SET
			rating = EXCLUDED.rating,
			rank = EXCLUDED.rank,
			solved_count = EXCLUDED.solved_count,
			easy_count = EXCLUDED.easy_count,
			medium_count = EXCLUDED.medium_count,
			hard_count = EXCLUDED.hard_count,
			status = 'success',
			error_message = '',
			last_updated = NOW(),
			updated_at = NOW()
		RETURNING %s
	`, statsColumns)

	row := r.conn.QueryRow(ctx, query,
		userID,
		string(platform),
		snap.Rating,
		snap.Rank,
		snap.SolvedCount,
		snap.Difficulty.Easy,
		snap.Difficulty.Medium,
		snap.Difficulty.Hard,
	)

	s, err := scanPlatformStats(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert platform stats: %w", err)
	}

	return s, nil
}

// MarkFailed records a failed refresh attempt. The ON CONFLICT branch touches
// only status, error_message and updated_at - counters and last_updated keep
// the last-known-good snapshot.
func (r *StatsRepository) MarkFailed(ctx context.Context, userID uuid.UUID, platform stats.Platform, message string) (*stats.PlatformStats, error) {
	query := fmt.Sprintf(`
		INSERT INTO platform_stats (user_id, platform, status, error_message)
		VALUES ($1, $2, 'failed', $3)
		ON CONFLICT(user_id, platform) DO UPDATE SET
			status = 'failed',
			error_message = EXCLUDED.error_message,
			updated_at = NOW()
		RETURNING %s
	`, statsColumns)

	row := r.conn.QueryRow(ctx, query, userID, string(platform), message)

	s, err := scanPlatformStats(row)
	if err != nil {
		return nil, fmt.Errorf("failed to mark platform stats failed: %w", err)
	}

	return s, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlatformStats(row rowScanner) (*stats.PlatformStats, error) {
	var s stats.PlatformStats
	var platform, status string

	err := row.Scan(
		&s.ID,
		&s.UserID,
		&platform,
		&s.Rating,
		&s.Rank,
		&s.SolvedCount,
		&s.Difficulty.Easy,
		&s.Difficulty.Medium,
		&s.Difficulty.Hard,
		&status,
		&s.ErrorMessage,
		&s.LastUpdated,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Platform = stats.Platform(platform)
	s.Status = stats.Status(status)
	return &s, nil
}
