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

type SubmitContentCommand struct {
	SubmitterID string
	Kind        entities.ContentKind
	Body        string
	URL         string
}

type SubmitContentUseCase struct {
	Repository ports.Repository
	Queue      ports.ScoreQueue
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Execute creates the content item in pending and schedules a scoring job.
// When the queue reports unavailable (or the enqueue itself fails), the item
// goes straight to under_review with a first-pass entry so nothing is
// silently dropped while automation is down.
func (uc SubmitContentUseCase) Execute(ctx context.Context, cmd SubmitContentCommand) (entities.ContentItem, error) {
	logger := application.ResolveLogger(uc.Logger)

	if !cmd.Kind.Valid() {
		return entities.ContentItem{}, domainerrors.ErrUnsupportedKind
	}

	contentID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.ContentItem{}, err
	}
	now := uc.Clock.Now().UTC()
	item := entities.ContentItem{
		ContentID:   contentID,
		Kind:        cmd.Kind,
		Body:        strings.TrimSpace(cmd.Body),
		URL:         strings.TrimSpace(cmd.URL),
		SubmitterID: strings.TrimSpace(cmd.SubmitterID),
		Status:      entities.ContentStatusPending,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if !item.ValidateCreate() {
		return entities.ContentItem{}, domainerrors.ErrInvalidContentInput
	}

	if err := uc.Repository.CreateContent(ctx, item); err != nil {
		return entities.ContentItem{}, err
	}

	queued := false
	if uc.Queue != nil && uc.Queue.Available(ctx) {
		if err := uc.Queue.Enqueue(ctx, ports.ScoringJob{
			ContentID: item.ContentID,
			Kind:      item.Kind,
			Body:      item.Body,
			URL:       item.URL,
		}); err != nil {
			logger.Warn("scoring enqueue failed, routing to manual review",
				"event", "content_enqueue_failed",
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
		item.UpdatedAt = now
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.ContentItem{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, newLifecycleEnvelope(
			eventID,
			EventContentSubmitted,
			item.ContentID,
			now,
			map[string]any{
				"content_id":   item.ContentID,
				"content_kind": string(item.Kind),
				"submitter_id": item.SubmitterID,
				"status":       string(item.Status),
			},
		)); err != nil {
			return entities.ContentItem{}, err
		}
	}

	logger.Info("content submitted",
		"event", "content_submitted",
		"module", "moderation-core/lifecycle-service",
		"layer", "application",
		"content_id", item.ContentID,
		"content_kind", string(item.Kind),
		"status", string(item.Status),
		"queued", queued,
	)
	return item, nil
}
