package leetcode

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/codepulse-hub/codepulse-stats/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER - GraphQL payloads to domain snapshot
// Both historical payload shapes converge here: whichever one the schema
// served, the resulting snapshot is identical for the same underlying data.
// ══════════════════════════════════════════════════════════════════════════════

// Mapper transforms LeetCode payloads into the domain snapshot.
type Mapper struct{}

// NewMapper creates a new Mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// problemURL builds the public problem URL from a title slug.
func problemURL(slug string) string {
	return "https://leetcode.com/problems/" + slug
}

// SnapshotFromProgress builds a snapshot from the canonical contract:
// question progress + contest ranking + recent accepted submissions.
func (m *Mapper) SnapshotFromProgress(progress *QuestionProgressDTO, contest *ContestRankingDTO, recent *RecentAcListDTO) *stats.Snapshot {
	snap := &stats.Snapshot{}

	if progress != nil && progress.Progress != nil {
		for _, item := range progress.Progress.NumAcceptedQuestions {
			snap.SolvedCount += item.Count
			switch stats.ClassifyLabel(item.Difficulty) {
			case stats.BucketEasy:
				snap.Difficulty.Easy = item.Count
			case stats.BucketMedium:
				snap.Difficulty.Medium = item.Count
			case stats.BucketHard:
				snap.Difficulty.Hard = item.Count
			}
		}
	}

	m.applyContestRanking(snap, contest, 0)

	if recent != nil {
		// The recent-AC list is already accepted-only; the normalizer still
		// dedups repeat accepts of the same problem and enforces the cap.
		accepted := make([]stats.Accepted, 0, len(recent.RecentAcSubmissionList))
		for _, sub := range recent.RecentAcSubmissionList {
			accepted = append(accepted, stats.Accepted{
				ID:       sub.TitleSlug,
				Title:    sub.Title,
				URL:      problemURL(sub.TitleSlug),
				SolvedAt: parseTimestamp(sub.Timestamp),
			})
		}
		snap.RecentSolved = stats.Normalize(accepted, stats.RecentSolvedLimit).RecentSolved
	}

	return snap
}

// SnapshotFromLegacy builds a snapshot from the deprecated getUserProfile
// bundle: matchedUser.submitStats.acSubmissionNum plus recentSubmissionList.
func (m *Mapper) SnapshotFromLegacy(profile *LegacyProfileDTO, contest *ContestRankingDTO) *stats.Snapshot {
	snap := &stats.Snapshot{}
	if profile == nil || profile.MatchedUser == nil {
		return snap
	}

	// acSubmissionNum carries an "All" roll-up plus the three buckets.
	var sawTotal bool
	for _, item := range profile.MatchedUser.SubmitStats.AcSubmissionNum {
		if strings.EqualFold(item.Difficulty, "All") {
			snap.SolvedCount = item.Count
			sawTotal = true
			continue
		}
		switch stats.ClassifyLabel(item.Difficulty) {
		case stats.BucketEasy:
			snap.Difficulty.Easy = item.Count
		case stats.BucketMedium:
			snap.Difficulty.Medium = item.Count
		case stats.BucketHard:
			snap.Difficulty.Hard = item.Count
		}
	}
	if !sawTotal {
		snap.SolvedCount = snap.Difficulty.Total()
	}

	m.applyContestRanking(snap, contest, profile.MatchedUser.Profile.Ranking)

	// The legacy list mixes verdicts, so filter before normalizing.
	accepted := make([]stats.Accepted, 0, len(profile.RecentSubmissionList))
	for _, sub := range profile.RecentSubmissionList {
		if !isLegacyAccepted(sub.Status) {
			continue
		}
		accepted = append(accepted, stats.Accepted{
			ID:       sub.TitleSlug,
			Title:    sub.Title,
			URL:      problemURL(sub.TitleSlug),
			Bucket:   stats.ClassifyLabel(sub.Difficulty),
			SolvedAt: time.Unix(sub.SubmitTime, 0).UTC(),
		})
	}
	snap.RecentSolved = stats.Normalize(accepted, stats.RecentSolvedLimit).RecentSolved

	return snap
}

// applyContestRanking fills rating and rank from the contest payload, falling
// back to the profile's global ranking when the user never attended a contest.
func (m *Mapper) applyContestRanking(snap *stats.Snapshot, contest *ContestRankingDTO, profileRanking int) {
	if contest != nil && contest.Ranking != nil {
		snap.Rating = int(math.Round(contest.Ranking.Rating))
		snap.Rank = strconv.Itoa(contest.Ranking.GlobalRanking)
		return
	}
	if profileRanking > 0 {
		snap.Rank = strconv.Itoa(profileRanking)
	}
}

// isLegacyAccepted matches the accepted verdict across the spellings the
// legacy schema has used.
func isLegacyAccepted(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "ac", "accepted", "10":
		return true
	default:
		return false
	}
}

// parseTimestamp parses the string-encoded unix time the canonical recent-AC
// list uses. Unparseable values yield the zero time rather than an error;
// the entry is still worth listing.
func parseTimestamp(ts string) time.Time {
	seconds, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}
