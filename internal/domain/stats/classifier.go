package stats

import "strings"

// ══════════════════════════════════════════════════════════════════════════════
// DIFFICULTY CLASSIFIER
// Pure, stateless mapping from a platform difficulty signal to a canonical
// bucket. Codeforces reports a numeric problem rating; LeetCode reports an
// enumerated label.
// ══════════════════════════════════════════════════════════════════════════════

// Bucket is a canonical difficulty bucket.
type Bucket string

const (
	BucketEasy   Bucket = "easy"
	BucketMedium Bucket = "medium"
	BucketHard   Bucket = "hard"
	// BucketNone means the problem carried no classifiable difficulty signal.
	// Such problems count toward SolvedCount but no tally bucket.
	BucketNone Bucket = ""
)

// Rating thresholds for numeric classification. 1000 itself is easy,
// 1600 itself is medium.
const (
	easyMaxRating   = 1000
	mediumMaxRating = 1600
)

// ClassifyRating maps a numeric problem rating to a bucket.
// An absent or zero rating yields BucketNone.
func ClassifyRating(rating int) Bucket {
	switch {
	case rating <= 0:
		return BucketNone
	case rating <= easyMaxRating:
		return BucketEasy
	case rating <= mediumMaxRating:
		return BucketMedium
	default:
		return BucketHard
	}
}

// ClassifyLabel maps an enumerated difficulty label to a bucket.
// Matching is case-insensitive; unrecognized labels yield BucketNone.
func ClassifyLabel(label string) Bucket {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "EASY":
		return BucketEasy
	case "MEDIUM":
		return BucketMedium
	case "HARD":
		return BucketHard
	default:
		return BucketNone
	}
}

// Tally increments the bucket's counter in the split. BucketNone is a no-op.
func (d *DifficultySplit) Tally(b Bucket) {
	switch b {
	case BucketEasy:
		d.Easy++
	case BucketMedium:
		d.Medium++
	case BucketHard:
		d.Hard++
	}
}
