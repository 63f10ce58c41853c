package queue

import (
	"context"
	"encoding/json"
	"time"

	"sentinel/contexts/moderation-core/lifecycle-service/domain/entities"
	lifecycleports "sentinel/contexts/moderation-core/lifecycle-service/ports"
	domainerrors "sentinel/contexts/moderation-core/scoring-pipeline/domain/errors"
	"sentinel/internal/shared/events"

	"github.com/google/uuid"
)

// TopicScoringJobs is the broker topic the scoring worker consumes.
const TopicScoringJobs = "moderation.scoring"

// Publisher is the broker surface the queue adapter needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
	Available(ctx context.Context) bool
}

type jobPayload struct {
	ContentID string `json:"content_id"`
	Kind      string `json:"kind"`
	Body      string `json:"body,omitempty"`
	URL       string `json:"url,omitempty"`
}

// BrokerQueue implements the lifecycle's score queue on top of the broker.
type BrokerQueue struct {
	Broker Publisher
}

func (q BrokerQueue) Enqueue(ctx context.Context, job lifecycleports.ScoringJob) error {
	payload, err := json.Marshal(jobPayload{
		ContentID: job.ContentID,
		Kind:      string(job.Kind),
		Body:      job.Body,
		URL:       job.URL,
	})
	if err != nil {
		return err
	}
	return q.Broker.Publish(ctx, TopicScoringJobs, events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     "scoring.job",
		SourceService: "moderation-core/lifecycle-service",
		OccurredAtUTC: time.Now().UTC(),
		PartitionKey:  job.ContentID,
		EntityType:    "content",
		EntityID:      job.ContentID,
		Payload:       payload,
	})
}

func (q BrokerQueue) Available(ctx context.Context) bool {
	return q.Broker.Available(ctx)
}

// DecodeJob extracts the scoring job from a broker envelope.
func DecodeJob(event events.Envelope) (lifecycleports.ScoringJob, error) {
	var payload jobPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return lifecycleports.ScoringJob{}, domainerrors.ErrMalformedJob
	}
	if payload.ContentID == "" {
		return lifecycleports.ScoringJob{}, domainerrors.ErrMalformedJob
	}
	return lifecycleports.ScoringJob{
		ContentID: payload.ContentID,
		Kind:      entities.ContentKind(payload.Kind),
		Body:      payload.Body,
		URL:       payload.URL,
	}, nil
}
