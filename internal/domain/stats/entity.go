// Package stats contains the domain model for per-platform solved-problem
// statistics. This is the core of the business logic - no external
// dependencies beyond UUID identifiers.
package stats

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Handle represents a user's identifier on an external platform
// (Codeforces handle, LeetCode username).
type Handle string

// IsValid checks that the handle is plausible for any supported platform.
func (h Handle) IsValid() bool {
	s := string(h)
	return len(s) >= 1 && len(s) <= 64 && !strings.ContainsAny(s, " \t\n\r/")
}

// String returns the string representation of the handle.
func (h Handle) String() string {
	return string(h)
}

// DifficultySplit holds per-bucket solved counters.
// The sum need not equal SolvedCount: problems without a classifiable
// difficulty signal count toward SolvedCount but no bucket.
type DifficultySplit struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// Total returns the number of solved problems that were classifiable.
func (d DifficultySplit) Total() int {
	return d.Easy + d.Medium + d.Hard
}

// Add returns the element-wise sum of two splits.
func (d DifficultySplit) Add(other DifficultySplit) DifficultySplit {
	return DifficultySplit{
		Easy:   d.Easy + other.Easy,
		Medium: d.Medium + other.Medium,
		Hard:   d.Hard + other.Hard,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Platform identifies an external competitive-programming platform.
type Platform string

const (
	PlatformCodeforces Platform = "codeforces"
	PlatformLeetCode   Platform = "leetcode"
	PlatformCodeChef   Platform = "codechef"
	PlatformGFG        Platform = "gfg"
)

// IsValid checks that the platform is part of the closed enumeration.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformCodeforces, PlatformLeetCode, PlatformCodeChef, PlatformGFG:
		return true
	default:
		return false
	}
}

// String returns the string representation of the platform.
func (p Platform) String() string {
	return string(p)
}

// ParsePlatform parses a platform name, case-insensitively.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	return p, p.IsValid()
}

// Status reflects the outcome of the most recent refresh attempt.
type Status string

const (
	// StatusSuccess - the last refresh completed and the counters are current.
	StatusSuccess Status = "success"
	// StatusFailed - the last refresh attempt failed; counters hold the
	// previous snapshot and ErrorMessage holds the cause.
	StatusFailed Status = "failed"
	// StatusPending - a row exists but no refresh has completed yet.
	StatusPending Status = "pending"
)

// IsValid checks that the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusPending:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// PlatformStats is the cached statistics snapshot for one (user, platform)
// pair. Exactly one row exists per pair at any time - it is a cache slot
// keyed by a natural key, not a log. The row is mutated in place on every
// refresh, never versioned.
type PlatformStats struct {
	// ID is the internal row identifier.
	ID uuid.UUID

	// UserID references the owning user.
	UserID uuid.UUID

	// Platform the snapshot belongs to.
	Platform Platform

	// Rating is the current platform rating (0 if unknown/unrated).
	Rating int

	// Rank is the platform-specific rank label (e.g. "expert") or a numeric
	// ranking serialized as a string; empty if unknown.
	Rank string

	// SolvedCount is the total number of distinct problems solved as of
	// LastUpdated.
	SolvedCount int

	// Difficulty holds the per-bucket split of SolvedCount.
	Difficulty DifficultySplit

	// Status of the most recent refresh attempt.
	Status Status

	// ErrorMessage is populated only when Status is StatusFailed.
	ErrorMessage string

	// LastUpdated is the time of the most recent successful refresh.
	// Nil means the pair has never been fetched successfully.
	LastUpdated *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFresh reports whether the snapshot is still within its TTL at the given
// instant. A row that was never successfully refreshed is never fresh.
func (s *PlatformStats) IsFresh(ttl time.Duration, now time.Time) bool {
	if s == nil || s.LastUpdated == nil {
		return false
	}
	return now.Sub(*s.LastUpdated) < ttl
}

// RecentSolved is one recently solved problem in canonical shape.
// Recent activity is ephemeral: it is produced fresh on every refresh and is
// never persisted, so cache hits return an empty list.
type RecentSolved struct {
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	SolvedAt time.Time `json:"solved_at"`
}

// Snapshot is the normalized result of one upstream fetch, ready to be
// written into a PlatformStats row.
type Snapshot struct {
	Rating       int
	Rank         string
	SolvedCount  int
	Difficulty   DifficultySplit
	RecentSolved []RecentSolved
}
