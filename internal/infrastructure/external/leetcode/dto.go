// Package leetcode implements the LeetCode GraphQL API client.
// The upstream schema has shipped at least two distinct shapes for
// solved-question statistics over the years; this package normalizes either
// into the canonical snapshot.
package leetcode

import "encoding/json"

// ══════════════════════════════════════════════════════════════════════════════
// GRAPHQL WRAPPERS
// ══════════════════════════════════════════════════════════════════════════════

// graphqlRequest is the POST body of every GraphQL call.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse is the standard GraphQL response envelope.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors,omitempty"`
}

// graphqlError is one entry of the errors array.
type graphqlError struct {
	Message string `json:"message"`
}

// ══════════════════════════════════════════════════════════════════════════════
// CANONICAL SHAPE (question progress + contest ranking + recent AC list)
// ══════════════════════════════════════════════════════════════════════════════

// DifficultyCountDTO pairs a difficulty label with a solved count.
// Labels arrive as "EASY"/"MEDIUM"/"HARD" on the progress contract and as
// "All"/"Easy"/"Medium"/"Hard" on the legacy one.
type DifficultyCountDTO struct {
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

// QuestionProgressDTO is the data payload of the question-progress query.
// A nil Progress means the user slug does not exist.
type QuestionProgressDTO struct {
	Progress *struct {
		NumAcceptedQuestions []DifficultyCountDTO `json:"numAcceptedQuestions"`
	} `json:"userProfileUserQuestionProgressV2"`
}

// ContestRankingDTO is the data payload of the contest-ranking query.
// Ranking is nil for users who never attended a contest.
type ContestRankingDTO struct {
	Ranking *struct {
		Rating               float64 `json:"rating"`
		GlobalRanking        int     `json:"globalRanking"`
		AttendedContestCount int     `json:"attendedContestCount"`
	} `json:"userContestRanking"`
}

// RecentAcSubmissionDTO is one entry of recentAcSubmissionList.
// Timestamp arrives as a string-encoded unix time.
type RecentAcSubmissionDTO struct {
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
	Timestamp string `json:"timestamp"`
}

// RecentAcListDTO is the data payload of the recent-AC query.
type RecentAcListDTO struct {
	RecentAcSubmissionList []RecentAcSubmissionDTO `json:"recentAcSubmissionList"`
}

// ══════════════════════════════════════════════════════════════════════════════
// LEGACY SHAPE (single getUserProfile bundle)
// ══════════════════════════════════════════════════════════════════════════════

// LegacySubmissionDTO is one entry of the legacy recentSubmissionList.
// Unlike the canonical list it includes rejected submissions, so Status must
// be checked.
type LegacySubmissionDTO struct {
	Title      string `json:"title"`
	TitleSlug  string `json:"titleSlug"`
	Status     string `json:"status"`
	Difficulty string `json:"difficulty"`
	SubmitTime int64  `json:"submitTime"`
}

// LegacyProfileDTO is the data payload of the legacy getUserProfile query.
// A nil MatchedUser means the username does not exist.
type LegacyProfileDTO struct {
	MatchedUser *struct {
		Profile struct {
			Ranking  int    `json:"ranking"`
			Username string `json:"username"`
		} `json:"profile"`
		SubmitStats struct {
			AcSubmissionNum []DifficultyCountDTO `json:"acSubmissionNum"`
		} `json:"submitStats"`
	} `json:"matchedUser"`
	RecentSubmissionList []LegacySubmissionDTO `json:"recentSubmissionList"`
}
