package codeforces

import (
	"time"

	"github.com/codepulse-hub/codepulse-stats/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER - DTO to domain transformations
// ══════════════════════════════════════════════════════════════════════════════

// Mapper transforms Codeforces API DTOs into the domain snapshot. It is the
// anti-corruption layer that keeps upstream schema drift out of the domain.
type Mapper struct{}

// NewMapper creates a new Mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Snapshot builds a statistics snapshot from a profile and the submission
// history. Only accepted submissions count; duplicates collapse to the first
// occurrence in upstream order, which for user.status means the most recent
// accepted attempt leads the recent-solved list.
func (m *Mapper) Snapshot(user *UserInfoDTO, submissions []SubmissionDTO) *stats.Snapshot {
	accepted := make([]stats.Accepted, 0, len(submissions))
	for _, sub := range submissions {
		if !sub.IsAccepted() {
			continue
		}
		accepted = append(accepted, stats.Accepted{
			ID:       sub.Problem.CanonicalID(),
			Title:    sub.Problem.Name,
			URL:      sub.Problem.URL(),
			Bucket:   stats.ClassifyRating(sub.Problem.Rating),
			SolvedAt: time.Unix(sub.CreationTimeSeconds, 0).UTC(),
		})
	}

	normalized := stats.Normalize(accepted, stats.RecentSolvedLimit)

	snap := &stats.Snapshot{
		SolvedCount:  normalized.SolvedCount,
		Difficulty:   normalized.Difficulty,
		RecentSolved: normalized.RecentSolved,
	}
	if user != nil {
		snap.Rating = user.Rating
		snap.Rank = user.Rank
	}

	return snap
}
