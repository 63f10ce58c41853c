package commands

import (
	"context"
	"log/slog"
	"strings"

	application "sentinel/contexts/moderation-core/lifecycle-service/application"
	"sentinel/contexts/moderation-core/lifecycle-service/domain/entities"
	domainerrors "sentinel/contexts/moderation-core/lifecycle-service/domain/errors"
	"sentinel/contexts/moderation-core/lifecycle-service/ports"
)

type EditContentCommand struct {
	ContentID   string
	SubmitterID string
	Body        string
	URL         string
}

type EditContentUseCase struct {
	Repository ports.Repository
	Queue      ports.ScoreQueue
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Execute lets the owner rework a rejected item. The status cycles back to
// pending, processed_at clears, pending appeals become moot and are
// discarded, and a fresh scoring job is enqueued (with the same manual-review
// fallback as first submission).
func (uc EditContentUseCase) Execute(ctx context.Context, cmd EditContentCommand) (entities.ContentItem, error) {
	logger := application.ResolveLogger(uc.Logger)
	contentID := strings.TrimSpace(cmd.ContentID)

	item, err := uc.Repository.GetContent(ctx, contentID)
	if err != nil {
		return entities.ContentItem{}, err
	}
	if item.SubmitterID != strings.TrimSpace(cmd.SubmitterID) {
		return entities.ContentItem{}, domainerrors.ErrNotOwner
	}
	if item.Status != entities.ContentStatusRejected {
		return entities.ContentItem{}, domainerrors.ErrInvalidStateTransition
	}

	item.Body = strings.TrimSpace(cmd.Body)
	item.URL = strings.TrimSpace(cmd.URL)
	if !item.ValidateCreate() {
		return entities.ContentItem{}, domainerrors.ErrInvalidContentInput
	}

	now := uc.Clock.Now().UTC()
	if err := uc.Repository.ApplyStatusChange(ctx, ports.StatusChange{
		ContentID:             contentID,
		From:                  entities.ContentStatusRejected,
		To:                    entities.ContentStatusPending,
		ClearProcessedAt:      true,
		Body:                  item.Body,
		URL:                   item.URL,
		ReplacePayload:        true,
		CloseReviewEntries:    true,
		DiscardPendingAppeals: true,
		Now:                   now,
	}); err != nil {
		return entities.ContentItem{}, err
	}
	item.Status = entities.ContentStatusPending
	item.ProcessedAt = nil
	item.UpdatedAt = now

	queued := false
	if uc.Queue != nil && uc.Queue.Available(ctx) {
		if err := uc.Queue.Enqueue(ctx, ports.ScoringJob{
			ContentID: item.ContentID,
			Kind:      item.Kind,
			Body:      item.Body,
			URL:       item.URL,
		}); err != nil {
			logger.Warn("rescoring enqueue failed, routing to manual review",
				"event", "content_reenqueue_failed",
				"module", "moderation-core/lifecycle-service",
				"layer", "application",
				"content_id", item.ContentID,
				"error", err.Error(),
			)
		} else {
			queued = true
		}
	}

	if !queued {
		entryID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.ContentItem{}, err
		}
		if err := uc.Repository.ApplyStatusChange(ctx, ports.StatusChange{
			ContentID: item.ContentID,
			From:      entities.ContentStatusPending,
			To:        entities.ContentStatusUnderReview,
			OpenReviewEntry: &entities.ReviewQueueEntry{
				EntryID:   entryID,
				ContentID: item.ContentID,
				Priority:  entities.PriorityFirstPass,
				AddedAt:   now,
			},
			Now: now,
		}); err != nil {
			return entities.ContentItem{}, err
		}
		item.Status = entities.ContentStatusUnderReview
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.ContentItem{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, newLifecycleEnvelope(
			eventID,
			EventContentResubmitted,
			item.ContentID,
			now,
			map[string]any{
				"content_id":   item.ContentID,
				"submitter_id": item.SubmitterID,
				"status":       string(item.Status),
			},
		)); err != nil {
			return entities.ContentItem{}, err
		}
	}

	logger.Info("rejected content edited and resubmitted",
		"event", "content_resubmitted",
		"module", "moderation-core/lifecycle-service",
		"layer", "application",
		"content_id", item.ContentID,
		"status", string(item.Status),
	)
	return item, nil
}
