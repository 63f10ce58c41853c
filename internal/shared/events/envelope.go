package events

import (
	"encoding/json"
	"time"
)

// Envelope is the shared event shape used across Sentinel contexts.
// Outbox rows and broker messages both carry this form.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SourceService string          `json:"source_service"`
	OccurredAtUTC time.Time       `json:"occurred_at_utc"`
	PartitionKey  string          `json:"partition_key"`
	EntityType    string          `json:"entity_type"`
	EntityID      string          `json:"entity_id"`
	Payload       json.RawMessage `json:"payload"`
}
