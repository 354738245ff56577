package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_DeduplicatesByProblemID(t *testing.T) {
	solvedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// The same problem accepted three times counts once, regardless of N.
	accepted := []Accepted{
		{ID: "1500A", Title: "Going Home", Bucket: BucketEasy, SolvedAt: solvedAt},
		{ID: "1500A", Title: "Going Home", Bucket: BucketEasy, SolvedAt: solvedAt},
		{ID: "1500A", Title: "Going Home", Bucket: BucketEasy, SolvedAt: solvedAt},
	}

	result := Normalize(accepted, RecentSolvedLimit)

	assert.Equal(t, 1, result.SolvedCount)
	assert.Equal(t, DifficultySplit{Easy: 1}, result.Difficulty)
	assert.Len(t, result.RecentSolved, 1)
}

func TestNormalize_CodeforcesExample(t *testing.T) {
	// Two accepts for 1500A (rating 800) plus one for 1500B (rating 1700).
	accepted := []Accepted{
		{ID: "1500A", Title: "Going Home", Bucket: ClassifyRating(800)},
		{ID: "1500A", Title: "Going Home", Bucket: ClassifyRating(800)},
		{ID: "1500B", Title: "Two chandeliers", Bucket: ClassifyRating(1700)},
	}

	result := Normalize(accepted, RecentSolvedLimit)

	assert.Equal(t, 2, result.SolvedCount)
	assert.Equal(t, DifficultySplit{Easy: 1, Medium: 0, Hard: 1}, result.Difficulty)
}

func TestNormalize_UnclassifiedCountsTowardSolvedOnly(t *testing.T) {
	accepted := []Accepted{
		{ID: "a", Bucket: BucketEasy},
		{ID: "b", Bucket: BucketNone}, // no rating on the problem
		{ID: "c", Bucket: BucketHard},
	}

	result := Normalize(accepted, RecentSolvedLimit)

	assert.Equal(t, 3, result.SolvedCount)
	assert.Equal(t, 2, result.Difficulty.Total())
}

func TestNormalize_RecentListCapped(t *testing.T) {
	var accepted []Accepted
	for i := 0; i < 500; i++ {
		accepted = append(accepted, Accepted{
			ID:    fmt.Sprintf("p%d", i),
			Title: fmt.Sprintf("Problem %d", i),
		})
	}

	result := Normalize(accepted, RecentSolvedLimit)

	assert.Equal(t, 500, result.SolvedCount)
	assert.Len(t, result.RecentSolved, RecentSolvedLimit)
	// Input order preserved: the first unique entries win.
	assert.Equal(t, "Problem 0", result.RecentSolved[0].Title)
	assert.Equal(t, "Problem 9", result.RecentSolved[9].Title)
}

func TestNormalize_DuplicateDoesNotOccupyRecentSlot(t *testing.T) {
	accepted := []Accepted{
		{ID: "x", Title: "X"},
		{ID: "x", Title: "X"},
		{ID: "y", Title: "Y"},
	}

	result := Normalize(accepted, 2)

	assert.Len(t, result.RecentSolved, 2)
	assert.Equal(t, "X", result.RecentSolved[0].Title)
	assert.Equal(t, "Y", result.RecentSolved[1].Title)
}

func TestNormalize_SkipsEmptyIDs(t *testing.T) {
	accepted := []Accepted{
		{ID: "", Title: "broken upstream row"},
		{ID: "ok", Title: "OK"},
	}

	result := Normalize(accepted, RecentSolvedLimit)

	assert.Equal(t, 1, result.SolvedCount)
}

func TestNormalize_Empty(t *testing.T) {
	result := Normalize(nil, RecentSolvedLimit)

	assert.Zero(t, result.SolvedCount)
	assert.Empty(t, result.RecentSolved)
	assert.Equal(t, DifficultySplit{}, result.Difficulty)
}
