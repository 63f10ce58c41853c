package commands

import (
	"time"

	"sentinel/contexts/moderation-core/lifecycle-service/ports"
)

const (
	EventContentSubmitted    = "content.submitted"
	EventContentEscalated    = "content.escalated"
	EventContentResubmitted  = "content.resubmitted"
	EventModerationCompleted = "moderation.completed"
	EventAppealSubmitted     = "appeal.submitted"
	EventAppealResolved      = "appeal.resolved"
)

func newLifecycleEnvelope(
	eventID string,
	eventType string,
	contentID string,
	occurredAt time.Time,
	payload map[string]any,
) ports.EventEnvelope {
	return ports.EventEnvelope{
		EventID:      eventID,
		EventType:    eventType,
		PartitionKey: contentID,
		OccurredAt:   occurredAt.UTC(),
		Payload:      payload,
	}
}
