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

type DecideContentCommand struct {
	ContentID   string
	ModeratorID string
	Notes       string
}

type DecideContentUseCase struct {
	Repository ports.Repository
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc DecideContentUseCase) Approve(ctx context.Context, cmd DecideContentCommand) error {
	return uc.decide(ctx, cmd, entities.ContentStatusApproved)
}

func (uc DecideContentUseCase) Reject(ctx context.Context, cmd DecideContentCommand) error {
	return uc.decide(ctx, cmd, entities.ContentStatusRejected)
}

// decide transitions to a terminal status and closes any open review entry in
// one atomic unit. A concurrent moderator (or a racing score) changes the
// observed status, the CAS misses, and the loser gets ErrDecisionConflict.
func (uc DecideContentUseCase) decide(ctx context.Context, cmd DecideContentCommand, newStatus entities.ContentStatus) error {
	logger := application.ResolveLogger(uc.Logger)

	if strings.TrimSpace(cmd.ModeratorID) == "" {
		return domainerrors.ErrUnauthorizedActor
	}
	contentID := strings.TrimSpace(cmd.ContentID)

	item, err := uc.Repository.GetContent(ctx, contentID)
	if err != nil {
		return err
	}
	if item.Status.Terminal() {
		return domainerrors.ErrInvalidStateTransition
	}

	now := uc.Clock.Now().UTC()
	if err := uc.Repository.ApplyStatusChange(ctx, ports.StatusChange{
		ContentID:          contentID,
		From:               item.Status,
		To:                 newStatus,
		ProcessedAt:        &now,
		CloseReviewEntries: true,
		Now:                now,
	}); err != nil {
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
				"status":       string(newStatus),
				"decided_by":   cmd.ModeratorID,
				"notes":        strings.TrimSpace(cmd.Notes),
			},
		)); err != nil {
			return err
		}
	}

	logger.Info("moderator decision recorded",
		"event", "content_moderator_decided",
		"module", "moderation-core/lifecycle-service",
		"layer", "application",
		"content_id", contentID,
		"moderator_id", cmd.ModeratorID,
		"status", string(newStatus),
	)
	return nil
}
