package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "sentinel/contexts/moderation-core/lifecycle-service/application"
	"sentinel/contexts/moderation-core/lifecycle-service/domain/entities"
	domainerrors "sentinel/contexts/moderation-core/lifecycle-service/domain/errors"
	"sentinel/contexts/moderation-core/lifecycle-service/domain/services"
	"sentinel/contexts/moderation-core/lifecycle-service/ports"
)

type RecordScoreCommand struct {
	ContentID   string
	Provider    string
	Toxicity    float64
	NSFW        float64
	Spam        float64
	HateSpeech  float64
	Aggregate   float64
	RawResponse []byte
}

type RecordScoreUseCase struct {
	Repository ports.Repository
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Execute applies the decision policy to a scoring result and transitions the
// item out of pending. An item that has already left pending (a moderator got
// there first, or a previous attempt landed) makes this a logged no-op, never
// an error, so queue redelivery stays safe.
func (uc RecordScoreUseCase) Execute(ctx context.Context, cmd RecordScoreCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	contentID := strings.TrimSpace(cmd.ContentID)

	item, err := uc.Repository.GetContent(ctx, contentID)
	if err != nil {
		return err
	}
	if item.Status != entities.ContentStatusPending {
		logger.Info("score ignored for already-decided content",
			"event", "content_score_noop",
			"module", "moderation-core/lifecycle-service",
			"layer", "application",
			"content_id", contentID,
			"status", string(item.Status),
		)
		return nil
	}

	decision := services.Classify(cmd.Aggregate)
	newStatus := services.StatusFor(decision)
	now := uc.Clock.Now().UTC()

	scoreID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	score := entities.ScoreResult{
		ScoreID:     scoreID,
		ContentID:   contentID,
		Provider:    strings.TrimSpace(cmd.Provider),
		Toxicity:    cmd.Toxicity,
		NSFW:        cmd.NSFW,
		Spam:        cmd.Spam,
		HateSpeech:  cmd.HateSpeech,
		Aggregate:   cmd.Aggregate,
		Decision:    decision,
		RawResponse: append([]byte(nil), cmd.RawResponse...),
		CreatedAt:   now,
	}

	change := ports.StatusChange{
		ContentID: contentID,
		From:      entities.ContentStatusPending,
		To:        newStatus,
		Score:     &score,
		Now:       now,
	}
	if newStatus.Terminal() {
		change.ProcessedAt = &now
	}
	if newStatus == entities.ContentStatusUnderReview {
		entryID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		change.OpenReviewEntry = &entities.ReviewQueueEntry{
			EntryID:   entryID,
			ContentID: contentID,
			Priority:  entities.PriorityFirstPass,
			AddedAt:   now,
		}
	}

	if err := uc.Repository.ApplyStatusChange(ctx, change); err != nil {
		if errors.Is(err, domainerrors.ErrDecisionConflict) {
			logger.Info("score lost race with concurrent decision",
				"event", "content_score_conflict_noop",
				"module", "moderation-core/lifecycle-service",
				"layer", "application",
				"content_id", contentID,
			)
			return nil
		}
		return err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		if err := uc.Outbox.AppendOutbox(ctx, newLifecycleEnvelope(
			eventID,
			EventModerationCompleted,
			contentID,
			now,
			map[string]any{
				"content_id":   contentID,
				"submitter_id": item.SubmitterID,
				"decision":     string(decision),
				"status":       string(newStatus),
				"aggregate":    cmd.Aggregate,
				"decided_by":   "automated",
			},
		)); err != nil {
			return err
		}
	}

	logger.Info("score recorded",
		"event", "content_score_recorded",
		"module", "moderation-core/lifecycle-service",
		"layer", "application",
		"content_id", contentID,
		"decision", string(decision),
		"status", string(newStatus),
		"aggregate", cmd.Aggregate,
	)
	return nil
}

// EscalateToReviewUseCase routes a stuck pending item to human review. The
// scoring worker invokes it after exhausting retries so exhaustion never
// leaves content in pending indefinitely.
type EscalateToReviewUseCase struct {
	Repository ports.Repository
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc EscalateToReviewUseCase) Execute(ctx context.Context, contentID string, reason string) error {
	logger := application.ResolveLogger(uc.Logger)
	contentID = strings.TrimSpace(contentID)

	item, err := uc.Repository.GetContent(ctx, contentID)
	if err != nil {
		return err
	}
	if item.Status != entities.ContentStatusPending {
		return nil
	}

	now := uc.Clock.Now().UTC()
	entryID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	err = uc.Repository.ApplyStatusChange(ctx, ports.StatusChange{
		ContentID: contentID,
		From:      entities.ContentStatusPending,
		To:        entities.ContentStatusUnderReview,
		OpenReviewEntry: &entities.ReviewQueueEntry{
			EntryID:   entryID,
			ContentID: contentID,
			Priority:  entities.PriorityFirstPass,
			AddedAt:   now,
		},
		Now: now,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDecisionConflict) {
			return nil
		}
		return err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		if err := uc.Outbox.AppendOutbox(ctx, newLifecycleEnvelope(
			eventID,
			EventContentEscalated,
			contentID,
			now,
			map[string]any{
				"content_id": contentID,
				"reason":     reason,
			},
		)); err != nil {
			return err
		}
	}

	logger.Warn("content escalated to manual review",
		"event", "content_escalated",
		"module", "moderation-core/lifecycle-service",
		"layer", "application",
		"content_id", contentID,
		"reason", reason,
	)
	return nil
}
