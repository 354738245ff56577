package stats

import "time"

// ══════════════════════════════════════════════════════════════════════════════
// SUBMISSION NORMALIZER
// Collapses a platform's raw submission history into a deduplicated solved
// count, a difficulty tally and a capped recent-solved list. Platform mappers
// translate their wire formats into Accepted records; the upstream ordering
// is preserved.
// ══════════════════════════════════════════════════════════════════════════════

// RecentSolvedLimit caps the recent-solved list produced on refresh.
const RecentSolvedLimit = 10

// Accepted is one accepted submission in canonical shape.
type Accepted struct {
	// ID is the platform-specific canonical problem id, stable and
	// collision-free within a platform ("1500A" for Codeforces,
	// the title slug for LeetCode).
	ID string

	// Title is the human-readable problem title.
	Title string

	// URL points at the problem on the platform.
	URL string

	// Bucket is the classified difficulty (BucketNone when the problem had
	// no usable signal).
	Bucket Bucket

	// SolvedAt is when the accepted submission was made.
	SolvedAt time.Time
}

// NormalizedResult is the output of Normalize.
type NormalizedResult struct {
	// SolvedCount is the number of distinct problems solved.
	SolvedCount int

	// Difficulty tallies the classifiable subset of solved problems.
	Difficulty DifficultySplit

	// RecentSolved holds the first recentLimit unique accepted problems in
	// input order.
	RecentSolved []RecentSolved
}

// Normalize deduplicates accepted submissions by canonical problem id.
// Submission history may contain multiple accepted attempts for the same
// problem; only the first instance contributes to the count, the tally and
// the recent list.
func Normalize(accepted []Accepted, recentLimit int) NormalizedResult {
	if recentLimit <= 0 {
		recentLimit = RecentSolvedLimit
	}

	seen := make(map[string]struct{}, len(accepted))
	result := NormalizedResult{
		RecentSolved: make([]RecentSolved, 0, recentLimit),
	}

	for _, sub := range accepted {
		if sub.ID == "" {
			continue
		}
		if _, dup := seen[sub.ID]; dup {
			continue
		}
		seen[sub.ID] = struct{}{}

		result.SolvedCount++
		result.Difficulty.Tally(sub.Bucket)

		if len(result.RecentSolved) < recentLimit {
			result.RecentSolved = append(result.RecentSolved, RecentSolved{
				Title:    sub.Title,
				URL:      sub.URL,
				SolvedAt: sub.SolvedAt,
			})
		}
	}

	return result
}
