package leetcode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/codepulse-hub/codepulse-stats/internal/domain/stats"
)

func contestRanking(rating float64, globalRanking int) *ContestRankingDTO {
	dto := &ContestRankingDTO{}
	dto.Ranking = &struct {
		Rating               float64 `json:"rating"`
		GlobalRanking        int     `json:"globalRanking"`
		AttendedContestCount int     `json:"attendedContestCount"`
	}{Rating: rating, GlobalRanking: globalRanking}
	return dto
}

func questionProgress(easy, medium, hard int) *QuestionProgressDTO {
	dto := &QuestionProgressDTO{}
	dto.Progress = &struct {
		NumAcceptedQuestions []DifficultyCountDTO `json:"numAcceptedQuestions"`
	}{NumAcceptedQuestions: []DifficultyCountDTO{
		{Difficulty: "EASY", Count: easy},
		{Difficulty: "MEDIUM", Count: medium},
		{Difficulty: "HARD", Count: hard},
	}}
	return dto
}

func legacyProfile(ranking, easy, medium, hard int, recent []LegacySubmissionDTO) *LegacyProfileDTO {
	dto := &LegacyProfileDTO{RecentSubmissionList: recent}
	dto.MatchedUser = &struct {
		Profile struct {
			Ranking  int    `json:"ranking"`
			Username string `json:"username"`
		} `json:"profile"`
		SubmitStats struct {
			AcSubmissionNum []DifficultyCountDTO `json:"acSubmissionNum"`
		} `json:"submitStats"`
	}{}
	dto.MatchedUser.Profile.Ranking = ranking
	dto.MatchedUser.SubmitStats.AcSubmissionNum = []DifficultyCountDTO{
		{Difficulty: "All", Count: easy + medium + hard},
		{Difficulty: "Easy", Count: easy},
		{Difficulty: "Medium", Count: medium},
		{Difficulty: "Hard", Count: hard},
	}
	return dto
}

func TestMapper_SnapshotFromProgress(t *testing.T) {
	mapper := NewMapper()

	recent := &RecentAcListDTO{RecentAcSubmissionList: []RecentAcSubmissionDTO{
		{Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700000000"},
		{Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1699990000"},
		{Title: "Add Two Numbers", TitleSlug: "add-two-numbers", Timestamp: "1699980000"},
	}}

	snap := mapper.SnapshotFromProgress(questionProgress(120, 80, 20), contestRanking(1855.7, 12345), recent)

	assert.Equal(t, 220, snap.SolvedCount)
	assert.Equal(t, stats.DifficultySplit{Easy: 120, Medium: 80, Hard: 20}, snap.Difficulty)
	assert.Equal(t, 1856, snap.Rating)
	assert.Equal(t, "12345", snap.Rank)

	// Repeat accepts of the same problem collapse.
	assert.Len(t, snap.RecentSolved, 2)
	assert.Equal(t, "Two Sum", snap.RecentSolved[0].Title)
	assert.Equal(t, "https://leetcode.com/problems/two-sum", snap.RecentSolved[0].URL)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), snap.RecentSolved[0].SolvedAt)
}

func TestMapper_SnapshotFromLegacy(t *testing.T) {
	mapper := NewMapper()

	recent := []LegacySubmissionDTO{
		{Title: "Two Sum", TitleSlug: "two-sum", Status: "ac", Difficulty: "Easy", SubmitTime: 1700000000},
		{Title: "Hard One", TitleSlug: "hard-one", Status: "wrong_answer", Difficulty: "Hard", SubmitTime: 1699990000},
		{Title: "Add Two Numbers", TitleSlug: "add-two-numbers", Status: "Accepted", Difficulty: "Medium", SubmitTime: 1699980000},
	}

	snap := mapper.SnapshotFromLegacy(legacyProfile(54321, 120, 80, 20, recent), contestRanking(1855.7, 12345))

	assert.Equal(t, 220, snap.SolvedCount)
	assert.Equal(t, stats.DifficultySplit{Easy: 120, Medium: 80, Hard: 20}, snap.Difficulty)
	assert.Equal(t, 1856, snap.Rating)
	assert.Equal(t, "12345", snap.Rank)

	// Rejected submissions are filtered out.
	assert.Len(t, snap.RecentSolved, 2)
	assert.Equal(t, "Two Sum", snap.RecentSolved[0].Title)
	assert.Equal(t, "Add Two Numbers", snap.RecentSolved[1].Title)
}

func TestMapper_BothShapesProduceEqualSnapshots(t *testing.T) {
	mapper := NewMapper()
	contest := contestRanking(2100.2, 777)

	modern := mapper.SnapshotFromProgress(questionProgress(10, 5, 1), contest, &RecentAcListDTO{
		RecentAcSubmissionList: []RecentAcSubmissionDTO{
			{Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700000000"},
		},
	})
	legacy := mapper.SnapshotFromLegacy(legacyProfile(999, 10, 5, 1, []LegacySubmissionDTO{
		{Title: "Two Sum", TitleSlug: "two-sum", Status: "ac", Difficulty: "Easy", SubmitTime: 1700000000},
	}), contest)

	// Legacy carries the classified bucket on recent entries but that field
	// is not part of RecentSolved, so the snapshots must match exactly.
	assert.Equal(t, modern.SolvedCount, legacy.SolvedCount)
	assert.Equal(t, modern.Difficulty, legacy.Difficulty)
	assert.Equal(t, modern.Rating, legacy.Rating)
	assert.Equal(t, modern.Rank, legacy.Rank)
	assert.Equal(t, modern.RecentSolved, legacy.RecentSolved)
}

func TestMapper_NoContestRankingFallsBackToProfileRanking(t *testing.T) {
	mapper := NewMapper()

	snap := mapper.SnapshotFromLegacy(legacyProfile(54321, 1, 0, 0, nil), &ContestRankingDTO{})

	assert.Zero(t, snap.Rating)
	assert.Equal(t, "54321", snap.Rank)
}

func TestMapper_NilPayloads(t *testing.T) {
	mapper := NewMapper()

	snap := mapper.SnapshotFromProgress(nil, nil, nil)

	assert.Zero(t, snap.SolvedCount)
	assert.Empty(t, snap.RecentSolved)
	assert.Zero(t, snap.Rating)
}

func TestParseTimestamp(t *testing.T) {
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), parseTimestamp("1700000000"))
	assert.True(t, parseTimestamp("garbage").IsZero())
}
