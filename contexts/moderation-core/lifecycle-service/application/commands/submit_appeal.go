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

type SubmitAppealCommand struct {
	ContentID   string
	SubmitterID string
	Reason      string
}

type SubmitAppealUseCase struct {
	Repository ports.Repository
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Execute files an appeal against a rejected item and opens an appeal-band
// review entry in the same atomic unit. The repository rejects a second
// pending appeal for the same content.
func (uc SubmitAppealUseCase) Execute(ctx context.Context, cmd SubmitAppealCommand) (entities.Appeal, error) {
	logger := application.ResolveLogger(uc.Logger)

	contentID := strings.TrimSpace(cmd.ContentID)
	reason := strings.TrimSpace(cmd.Reason)
	if len(reason) < entities.MinAppealReasonLength {
		return entities.Appeal{}, domainerrors.ErrAppealReasonTooShort
	}

	item, err := uc.Repository.GetContent(ctx, contentID)
	if err != nil {
		return entities.Appeal{}, err
	}
	if item.Status != entities.ContentStatusRejected {
		return entities.Appeal{}, domainerrors.ErrInvalidStateTransition
	}

	now := uc.Clock.Now().UTC()
	appealID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Appeal{}, err
	}
	entryID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Appeal{}, err
	}

	appeal := entities.Appeal{
		AppealID:    appealID,
		ContentID:   contentID,
		SubmitterID: strings.TrimSpace(cmd.SubmitterID),
		Reason:      reason,
		Status:      entities.AppealStatusPending,
		CreatedAt:   now,
	}
	if !appeal.ValidateCreate() {
		return entities.Appeal{}, domainerrors.ErrInvalidContentInput
	}

	entry := entities.ReviewQueueEntry{
		EntryID:   entryID,
		ContentID: contentID,
		Priority:  entities.PriorityAppeal,
		AddedAt:   now,
	}
	if err := uc.Repository.CreateAppeal(ctx, appeal, entry); err != nil {
		return entities.Appeal{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.Appeal{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, newLifecycleEnvelope(
			eventID,
			EventAppealSubmitted,
			contentID,
			now,
			map[string]any{
				"appeal_id":    appeal.AppealID,
				"content_id":   contentID,
				"submitter_id": appeal.SubmitterID,
				"reason":       reason,
			},
		)); err != nil {
			return entities.Appeal{}, err
		}
	}

	logger.Info("appeal submitted",
		"event", "appeal_submitted",
		"module", "moderation-core/lifecycle-service",
		"layer", "application",
		"appeal_id", appeal.AppealID,
		"content_id", contentID,
	)
	return appeal, nil
}
