// Package postgres implements the PostgreSQL persistence layer for CodePulse.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE PLATFORM STATS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create platform_stats table
-- Version: 001

-- One row per (user, platform). Refreshes upsert into the same row instead of
-- appending history.
CREATE TABLE IF NOT EXISTS platform_stats (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL,
    platform VARCHAR(20) NOT NULL,
    rating INTEGER NOT NULL DEFAULT 0,
    rank VARCHAR(64) NOT NULL DEFAULT '',
    solved_count INTEGER NOT NULL DEFAULT 0,
    easy_count INTEGER NOT NULL DEFAULT 0,
    medium_count INTEGER NOT NULL DEFAULT 0,
    hard_count INTEGER NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    error_message TEXT NOT NULL DEFAULT '',
    last_updated TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- Constraints for data integrity
    CONSTRAINT valid_platform CHECK (platform IN ('codeforces', 'leetcode', 'codechef', 'gfg')),
    CONSTRAINT valid_stats_status CHECK (status IN ('success', 'failed', 'pending')),
    CONSTRAINT valid_solved_count CHECK (solved_count >= 0),
    CONSTRAINT unique_user_platform UNIQUE (user_id, platform)
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_platform_stats_user_id ON platform_stats(user_id);
CREATE INDEX IF NOT EXISTS idx_platform_stats_platform ON platform_stats(platform);
CREATE INDEX IF NOT EXISTS idx_platform_stats_last_updated ON platform_stats(last_updated);
`

const migration001Down = `
DROP TABLE IF EXISTS platform_stats;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_platform_stats",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
	}
}
