package broker

import (
	"context"
	"encoding/json"
	"time"

	"sentinel/contexts/moderation-core/lifecycle-service/ports"
	"sentinel/internal/shared/events"
)

// Bus is the platform broker surface the publisher needs.
type Bus interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// Publisher converts lifecycle envelopes to the shared wire envelope before
// handing them to the broker.
type Publisher struct {
	Bus Bus
}

func (p Publisher) Publish(ctx context.Context, topic string, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope.Payload)
	if err != nil {
		return err
	}
	occurredAt := envelope.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	return p.Bus.Publish(ctx, topic, events.Envelope{
		EventID:       envelope.EventID,
		EventType:     envelope.EventType,
		SourceService: "moderation-core/lifecycle-service",
		OccurredAtUTC: occurredAt,
		PartitionKey:  envelope.PartitionKey,
		EntityType:    "content",
		EntityID:      envelope.PartitionKey,
		Payload:       payload,
	})
}
