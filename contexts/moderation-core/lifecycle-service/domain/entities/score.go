package entities

import "time"

// Decision is the classifier verdict derived from the aggregate score.
type Decision string

const (
	DecisionSafe         Decision = "safe"
	DecisionReviewNeeded Decision = "review_needed"
	DecisionUnsafe       Decision = "unsafe"
)

// ScoreResult is immutable once recorded. A re-scored item (for example
// after an edit-and-resubmit) gets a fresh row, never an update.
type ScoreResult struct {
	ScoreID     string
	ContentID   string
	Provider    string
	Toxicity    float64
	NSFW        float64
	Spam        float64
	HateSpeech  float64
	Aggregate   float64
	Decision    Decision
	RawResponse []byte
	CreatedAt   time.Time
}
