package lifecycle

import (
	"context"

	lifecyclecommands "sentinel/contexts/moderation-core/lifecycle-service/application/commands"
	"sentinel/contexts/moderation-core/scoring-pipeline/ports"
)

// Client is the in-process bridge from the pipeline to the lifecycle engine.
// Both contexts run in the same binary, so the call is a direct use-case
// invocation rather than a network hop.
type Client struct {
	RecordScoreUC lifecyclecommands.RecordScoreUseCase
	EscalateUC    lifecyclecommands.EscalateToReviewUseCase
}

func (c Client) RecordScore(ctx context.Context, report ports.ScoreReport) error {
	return c.RecordScoreUC.Execute(ctx, lifecyclecommands.RecordScoreCommand{
		ContentID:   report.ContentID,
		Provider:    report.Provider,
		Toxicity:    report.Toxicity,
		NSFW:        report.NSFW,
		Spam:        report.Spam,
		HateSpeech:  report.HateSpeech,
		Aggregate:   report.Aggregate,
		RawResponse: report.RawResponse,
	})
}

func (c Client) EscalateToReview(ctx context.Context, contentID string, reason string) error {
	return c.EscalateUC.Execute(ctx, contentID, reason)
}
