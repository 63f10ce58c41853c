package services

import "sentinel/contexts/moderation-core/lifecycle-service/domain/entities"

// Threshold boundaries are inclusive on the lower edge of each band:
// aggregate >= 80 is unsafe, 50 <= aggregate < 80 needs review,
// aggregate < 50 is safe.
const (
	UnsafeThreshold = 80
	ReviewThreshold = 50
)

// Classify maps an aggregate score to the automated verdict. Pure and
// deterministic; every status transition driven by scoring goes through it.
func Classify(aggregate float64) entities.Decision {
	switch {
	case aggregate >= UnsafeThreshold:
		return entities.DecisionUnsafe
	case aggregate >= ReviewThreshold:
		return entities.DecisionReviewNeeded
	default:
		return entities.DecisionSafe
	}
}

// StatusFor returns the content status a verdict produces.
func StatusFor(decision entities.Decision) entities.ContentStatus {
	switch decision {
	case entities.DecisionUnsafe:
		return entities.ContentStatusRejected
	case entities.DecisionReviewNeeded:
		return entities.ContentStatusUnderReview
	default:
		return entities.ContentStatusApproved
	}
}
