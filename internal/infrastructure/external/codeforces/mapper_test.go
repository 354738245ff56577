package codeforces

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/codepulse-hub/codepulse-stats/internal/domain/stats"
)

func TestMapper_Snapshot(t *testing.T) {
	mapper := NewMapper()

	user := &UserInfoDTO{Handle: "gennady", Rating: 3757, Rank: "legendary grandmaster"}
	submissions := []SubmissionDTO{
		{Verdict: "OK", Problem: ProblemDTO{ContestID: 1500, Index: "A", Name: "Going Home", Rating: 800}, CreationTimeSeconds: 1700000300},
		{Verdict: "OK", Problem: ProblemDTO{ContestID: 1500, Index: "A", Name: "Going Home", Rating: 800}, CreationTimeSeconds: 1700000200},
		{Verdict: "OK", Problem: ProblemDTO{ContestID: 1500, Index: "B", Name: "Two chandeliers", Rating: 1700}, CreationTimeSeconds: 1700000100},
		{Verdict: "WRONG_ANSWER", Problem: ProblemDTO{ContestID: 1500, Index: "C", Name: "Matrix Sorting", Rating: 2500}, CreationTimeSeconds: 1700000000},
	}

	snap := mapper.Snapshot(user, submissions)

	assert.Equal(t, 3757, snap.Rating)
	assert.Equal(t, "legendary grandmaster", snap.Rank)
	assert.Equal(t, 2, snap.SolvedCount)
	assert.Equal(t, stats.DifficultySplit{Easy: 1, Medium: 0, Hard: 1}, snap.Difficulty)

	assert.Len(t, snap.RecentSolved, 2)
	assert.Equal(t, "Going Home", snap.RecentSolved[0].Title)
	assert.Equal(t, "https://codeforces.com/problemset/problem/1500/A", snap.RecentSolved[0].URL)
	assert.Equal(t, time.Unix(1700000300, 0).UTC(), snap.RecentSolved[0].SolvedAt)
}

func TestMapper_Snapshot_UnratedProblemSkipsTally(t *testing.T) {
	mapper := NewMapper()

	submissions := []SubmissionDTO{
		{Verdict: "OK", Problem: ProblemDTO{ContestID: 1, Index: "A", Name: "Theatre Square"}},
	}

	snap := mapper.Snapshot(&UserInfoDTO{Handle: "newbie"}, submissions)

	assert.Equal(t, 1, snap.SolvedCount)
	assert.Equal(t, stats.DifficultySplit{}, snap.Difficulty)
}

func TestMapper_Snapshot_RecentCap(t *testing.T) {
	mapper := NewMapper()

	var submissions []SubmissionDTO
	for i := 0; i < 100; i++ {
		submissions = append(submissions, SubmissionDTO{
			Verdict: "OK",
			Problem: ProblemDTO{ContestID: 1000 + i, Index: "A", Name: "P", Rating: 900},
		})
	}

	snap := mapper.Snapshot(nil, submissions)

	assert.Equal(t, 100, snap.SolvedCount)
	assert.Len(t, snap.RecentSolved, stats.RecentSolvedLimit)
}

func TestProblemDTO_CanonicalID(t *testing.T) {
	p := ProblemDTO{ContestID: 1500, Index: "A"}
	assert.Equal(t, "1500A", p.CanonicalID())
}
