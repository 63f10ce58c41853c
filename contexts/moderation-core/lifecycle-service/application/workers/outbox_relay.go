package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "sentinel/contexts/moderation-core/lifecycle-service/application"
	"sentinel/contexts/moderation-core/lifecycle-service/ports"
)

// OutboxRelay drains pending lifecycle events and publishes them to the
// broker topic the notification fanout listens on.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	topic := r.Topic
	if topic == "" {
		topic = "moderation.lifecycle"
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "lifecycle_outbox_list_failed",
			"module", "moderation-core/lifecycle-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, message := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			// A row that cannot decode will never decode. Mark it so it
			// stops blocking the rest of the batch.
			logger.Error("skipping undecodable outbox row",
				"event", "lifecycle_outbox_decode_failed",
				"module", "moderation-core/lifecycle-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			if markErr := r.Outbox.MarkOutboxPublished(ctx, message.OutboxID, now); markErr != nil {
				return markErr
			}
			continue
		}

		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "lifecycle_outbox_publish_failed",
				"module", "moderation-core/lifecycle-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, message.OutboxID, now); err != nil {
			logger.Error("outbox mark published failed",
				"event", "lifecycle_outbox_mark_published_failed",
				"module", "moderation-core/lifecycle-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	if len(pending) > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "lifecycle_outbox_relay_completed",
			"module", "moderation-core/lifecycle-service",
			"layer", "worker",
			"published_count", len(pending),
		)
	}
	return nil
}
