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

type ResolveAppealCommand struct {
	AppealID    string
	ModeratorID string
	Decision    string
	Notes       string
}

type ResolveAppealUseCase struct {
	Repository ports.Repository
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Execute resolves a pending appeal exactly once. Approving flips the owning
// content item to approved and stamps processed_at; either outcome closes
// the appeal's review entry.
func (uc ResolveAppealUseCase) Execute(ctx context.Context, cmd ResolveAppealCommand) (entities.Appeal, error) {
	logger := application.ResolveLogger(uc.Logger)

	if strings.TrimSpace(cmd.ModeratorID) == "" {
		return entities.Appeal{}, domainerrors.ErrUnauthorizedActor
	}
	var status entities.AppealStatus
	switch strings.TrimSpace(strings.ToLower(cmd.Decision)) {
	case "approved":
		status = entities.AppealStatusApproved
	case "rejected":
		status = entities.AppealStatusRejected
	default:
		return entities.Appeal{}, domainerrors.ErrInvalidDecision
	}

	now := uc.Clock.Now().UTC()
	appeal, err := uc.Repository.ResolveAppeal(ctx, ports.AppealResolution{
		AppealID:       strings.TrimSpace(cmd.AppealID),
		Status:         status,
		ResolverID:     strings.TrimSpace(cmd.ModeratorID),
		Notes:          strings.TrimSpace(cmd.Notes),
		ApproveContent: status == entities.AppealStatusApproved,
		Now:            now,
	})
	if err != nil {
		return entities.Appeal{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.Appeal{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, newLifecycleEnvelope(
			eventID,
			EventAppealResolved,
			appeal.ContentID,
			now,
			map[string]any{
				"appeal_id":        appeal.AppealID,
				"content_id":       appeal.ContentID,
				"submitter_id":     appeal.SubmitterID,
				"status":           string(status),
				"resolver_id":      appeal.ResolverID,
				"resolution_notes": appeal.ResolutionNotes,
			},
		)); err != nil {
			return entities.Appeal{}, err
		}
	}

	logger.Info("appeal resolved",
		"event", "appeal_resolved",
		"module", "moderation-core/lifecycle-service",
		"layer", "application",
		"appeal_id", appeal.AppealID,
		"content_id", appeal.ContentID,
		"status", string(status),
	)
	return appeal, nil
}
