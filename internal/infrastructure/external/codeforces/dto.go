// Package codeforces implements the Codeforces REST API client.
// It fetches a handle's profile and submission history and normalizes them
// into the canonical statistics snapshot.
package codeforces

import (
	"encoding/json"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// API RESPONSE WRAPPERS
// ══════════════════════════════════════════════════════════════════════════════

// Codeforces envelope status values.
const (
	statusOK     = "OK"
	statusFailed = "FAILED"
)

// apiEnvelope is the wrapper every Codeforces API response uses.
// On failure Status is "FAILED" and Comment carries the cause.
type apiEnvelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DTOs
// ══════════════════════════════════════════════════════════════════════════════

// UserInfoDTO is one element of the user.info result list.
type UserInfoDTO struct {
	// Handle is the user's Codeforces handle.
	Handle string `json:"handle"`

	// Rating is the current contest rating (absent for unrated users).
	Rating int `json:"rating,omitempty"`

	// Rank is the current rank title, e.g. "expert".
	Rank string `json:"rank,omitempty"`

	// MaxRating is the highest rating ever reached.
	MaxRating int `json:"maxRating,omitempty"`

	// MaxRank is the rank title at MaxRating.
	MaxRank string `json:"maxRank,omitempty"`
}

// ProblemDTO describes the problem a submission was made against.
type ProblemDTO struct {
	// ContestID is the contest the problem appeared in.
	ContestID int `json:"contestId"`

	// Index is the problem letter within the contest ("A", "B1", ...).
	Index string `json:"index"`

	// Name is the problem title.
	Name string `json:"name"`

	// Rating is the problem difficulty rating (absent for unrated problems).
	Rating int `json:"rating,omitempty"`
}

// CanonicalID returns the collision-free problem identifier used for
// deduplication, e.g. "1500A".
func (p ProblemDTO) CanonicalID() string {
	return fmt.Sprintf("%d%s", p.ContestID, p.Index)
}

// URL returns the public problemset URL for the problem.
func (p ProblemDTO) URL() string {
	return fmt.Sprintf("https://codeforces.com/problemset/problem/%d/%s", p.ContestID, p.Index)
}

// SubmissionDTO is one element of the user.status result list.
// Submissions arrive newest first.
type SubmissionDTO struct {
	// ID is the submission identifier.
	ID int64 `json:"id"`

	// Verdict is the judging verdict; "OK" means accepted.
	Verdict string `json:"verdict,omitempty"`

	// Problem the submission was made against.
	Problem ProblemDTO `json:"problem"`

	// CreationTimeSeconds is the unix timestamp of the submission.
	CreationTimeSeconds int64 `json:"creationTimeSeconds"`
}

// IsAccepted reports whether the submission passed all tests.
func (s SubmissionDTO) IsAccepted() bool {
	return s.Verdict == "OK"
}
