package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"sentinel/contexts/engagement/notification-service/application"
	"sentinel/contexts/engagement/notification-service/domain/entities"
	"sentinel/internal/shared/events"
)

// LifecycleConsumer turns moderation lifecycle events into per-user
// notifications. It is registered as a broker subscriber on the lifecycle
// topic.
type LifecycleConsumer struct {
	Service application.Service
	Logger  *slog.Logger
}

type lifecyclePayload struct {
	ContentID       string  `json:"content_id"`
	ContentKind     string  `json:"content_kind"`
	SubmitterID     string  `json:"submitter_id"`
	Status          string  `json:"status"`
	DecidedBy       string  `json:"decided_by"`
	Decision        string  `json:"decision"`
	Aggregate       float64 `json:"aggregate"`
	Notes           string  `json:"notes"`
	AppealID        string  `json:"appeal_id"`
	Reason          string  `json:"reason"`
	ResolverID      string  `json:"resolver_id"`
	ResolutionNotes string  `json:"resolution_notes"`
}

// Handle routes one lifecycle event. Unknown event types are ignored so the
// lifecycle side can grow its vocabulary without breaking the fanout.
func (c LifecycleConsumer) Handle(ctx context.Context, event events.Envelope) error {
	logger := application.ResolveLogger(c.Logger)

	var payload lifecyclePayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		logger.Error("discarding undecodable lifecycle event",
			"event", "notification_event_decode_failed",
			"module", "engagement/notification-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return nil
	}

	switch event.EventType {
	case "content.submitted":
		if err := c.Service.NotifyModerators(ctx, application.NotificationInput{
			Type:             "new_submission",
			Title:            "New submission",
			Message:          fmt.Sprintf("A new %s submission entered the moderation pipeline.", payload.ContentKind),
			Priority:         entities.PriorityMedium,
			RelatedContentID: payload.ContentID,
		}); err != nil {
			return err
		}
		_, err := c.Service.NotifyUser(ctx, application.NotificationInput{
			UserID:           payload.SubmitterID,
			Type:             "submission_received",
			Title:            "Submission received",
			Message:          fmt.Sprintf("Your %s submission is being reviewed.", payload.ContentKind),
			Priority:         entities.PriorityLow,
			RelatedContentID: payload.ContentID,
		})
		return err

	case "content.resubmitted":
		_, err := c.Service.NotifyUser(ctx, application.NotificationInput{
			UserID:           payload.SubmitterID,
			Type:             "resubmission_received",
			Title:            "Resubmission received",
			Message:          "Your edited content has been resubmitted for review.",
			Priority:         entities.PriorityLow,
			RelatedContentID: payload.ContentID,
		})
		return err

	case "moderation.completed":
		return c.handleModerationCompleted(ctx, payload)

	case "content.escalated":
		return c.Service.NotifyModerators(ctx, application.NotificationInput{
			Type:             "content_escalated",
			Title:            "Content needs manual review",
			Message:          fmt.Sprintf("A submission was escalated: %s", payload.Reason),
			Priority:         entities.PriorityHigh,
			RelatedContentID: payload.ContentID,
		})

	case "appeal.submitted":
		return c.Service.NotifyModerators(ctx, application.NotificationInput{
			Type:             "appeal_submitted",
			Title:            "New appeal filed",
			Message:          "A rejected submission has been appealed and awaits review.",
			Priority:         entities.PriorityHigh,
			RelatedContentID: payload.ContentID,
			RelatedAppealID:  payload.AppealID,
		})

	case "appeal.resolved":
		title := "Appeal rejected"
		message := "Your appeal was reviewed and the original decision stands."
		if payload.Status == "approved" {
			title = "Appeal approved"
			message = "Your appeal was approved and the content is now live."
		}
		if strings.TrimSpace(payload.ResolutionNotes) != "" {
			message = message + " Notes: " + payload.ResolutionNotes
		}
		if err := c.Service.NotifyModerators(ctx, application.NotificationInput{
			Type:             "appeal_resolved",
			Title:            "Appeal resolved",
			Message:          fmt.Sprintf("An appeal was resolved as %s.", payload.Status),
			Priority:         entities.PriorityMedium,
			RelatedContentID: payload.ContentID,
			RelatedAppealID:  payload.AppealID,
		}); err != nil {
			return err
		}
		_, err := c.Service.NotifyUser(ctx, application.NotificationInput{
			UserID:           payload.SubmitterID,
			Type:             "appeal_resolved",
			Title:            title,
			Message:          message,
			Priority:         entities.PriorityHigh,
			RelatedContentID: payload.ContentID,
			RelatedAppealID:  payload.AppealID,
		})
		return err

	default:
		return nil
	}
}

func (c LifecycleConsumer) handleModerationCompleted(ctx context.Context, payload lifecyclePayload) error {
	if err := c.Service.NotifyModerators(ctx, application.NotificationInput{
		Type:             "moderation_completed",
		Title:            "Moderation completed",
		Message:          fmt.Sprintf("A submission was moderated with status %s.", payload.Status),
		Priority:         entities.PriorityMedium,
		RelatedContentID: payload.ContentID,
	}); err != nil {
		return err
	}
	switch payload.Status {
	case "approved":
		_, err := c.Service.NotifyUser(ctx, application.NotificationInput{
			UserID:           payload.SubmitterID,
			Type:             "content_approved",
			Title:            "Content approved",
			Message:          "Your submission passed moderation and is now live.",
			Priority:         entities.PriorityMedium,
			RelatedContentID: payload.ContentID,
		})
		return err
	case "rejected":
		message := "Your submission was rejected by moderation."
		if strings.TrimSpace(payload.Notes) != "" {
			message = message + " Notes: " + payload.Notes
		}
		_, err := c.Service.NotifyUser(ctx, application.NotificationInput{
			UserID:           payload.SubmitterID,
			Type:             "content_rejected",
			Title:            "Content rejected",
			Message:          message,
			Priority:         entities.PriorityHigh,
			RelatedContentID: payload.ContentID,
		})
		return err
	case "under_review":
		_, err := c.Service.NotifyUser(ctx, application.NotificationInput{
			UserID:           payload.SubmitterID,
			Type:             "content_under_review",
			Title:            "Content under review",
			Message:          "Your submission was flagged for manual review. We will follow up with a decision.",
			Priority:         entities.PriorityMedium,
			RelatedContentID: payload.ContentID,
		})
		return err
	default:
		return nil
	}
}
