package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

// ScoreRequest describes one piece of content the gateway should score. Text
// items carry Body, media items carry URL.
type ScoreRequest struct {
	ContentID string
	Kind      string
	Body      string
	URL       string
}

// GatewayScore is the provider verdict, all category scores on a 0-100 scale.
type GatewayScore struct {
	Provider    string
	Toxicity    float64
	NSFW        float64
	Spam        float64
	HateSpeech  float64
	Aggregate   float64
	RawResponse []byte
}

type Gateway interface {
	Score(ctx context.Context, req ScoreRequest) (GatewayScore, error)
}

// ScoreReport carries a finished gateway verdict back to the lifecycle engine.
type ScoreReport struct {
	ContentID   string
	Provider    string
	Toxicity    float64
	NSFW        float64
	Spam        float64
	HateSpeech  float64
	Aggregate   float64
	RawResponse []byte
}

// LifecycleClient is the pipeline's door into the lifecycle engine. RecordScore
// must be idempotent for the same content; EscalateToReview routes a job that
// exhausted its retries to human review.
type LifecycleClient interface {
	RecordScore(ctx context.Context, report ScoreReport) error
	EscalateToReview(ctx context.Context, contentID string, reason string) error
}
