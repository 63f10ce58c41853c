package ports

import (
	"context"
	"time"

	"sentinel/contexts/moderation-core/lifecycle-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope is the lifecycle context's outbound event shape. The worker
// relay converts it to the shared envelope before publishing.
type EventEnvelope struct {
	EventID      string         `json:"event_id"`
	EventType    string         `json:"event_type"`
	PartitionKey string         `json:"partition_key"`
	OccurredAt   time.Time      `json:"occurred_at"`
	Payload      map[string]any `json:"payload"`
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, envelope EventEnvelope) error
}

// ScoringJob is the unit of work handed to the scoring pipeline.
type ScoringJob struct {
	ContentID string
	Kind      entities.ContentKind
	Body      string
	URL       string
}

// ScoreQueue is the durable work queue contract. Available reports whether
// the broker can accept jobs; when it cannot, submission falls back to
// direct human review instead of queuing.
type ScoreQueue interface {
	Enqueue(ctx context.Context, job ScoringJob) error
	Available(ctx context.Context) bool
}

// StatusChange is a single atomic lifecycle transition. The repository
// applies every field of the change in one transaction (or under one lock),
// guarded by a compare-and-set on the expected prior status. A CAS miss
// returns ErrDecisionConflict so racing actors fail cleanly.
type StatusChange struct {
	ContentID             string
	From                  entities.ContentStatus
	To                    entities.ContentStatus
	ProcessedAt           *time.Time
	ClearProcessedAt      bool
	Body                  string
	URL                   string
	ReplacePayload        bool
	Score                 *entities.ScoreResult
	OpenReviewEntry       *entities.ReviewQueueEntry
	CloseReviewEntries    bool
	DiscardPendingAppeals bool
	Now                   time.Time
}

// AppealResolution closes out a pending appeal and, when approved, flips the
// owning content item to approved in the same atomic unit.
type AppealResolution struct {
	AppealID       string
	Status         entities.AppealStatus
	ResolverID     string
	Notes          string
	ApproveContent bool
	Now            time.Time
}

// ReviewQueueItem is the moderator worklist row joined with content and the
// latest score, served priority-descending then arrival-ascending.
type ReviewQueueItem struct {
	EntryID     string
	ContentID   string
	Kind        entities.ContentKind
	Status      entities.ContentStatus
	SubmitterID string
	Priority    int
	AddedAt     time.Time
	Aggregate   *float64
	Decision    entities.Decision
}

type DashboardStats struct {
	TotalSubmissions int
	PendingCount     int
	UnderReviewCount int
	ApprovedCount    int
	RejectedCount    int
	TotalAppeals     int
	PendingAppeals   int
	ApprovedAppeals  int
	RejectedAppeals  int
	ByKind           []KindStats
}

type KindStats struct {
	Kind     entities.ContentKind
	Count    int
	Approved int
	Rejected int
}

type QueueStats struct {
	PendingCount int
	ReviewCount  int
}

type Repository interface {
	CreateContent(ctx context.Context, item entities.ContentItem) error
	GetContent(ctx context.Context, contentID string) (entities.ContentItem, error)
	ListContentBySubmitter(ctx context.Context, submitterID string, limit int) ([]entities.ContentItem, error)
	ApplyStatusChange(ctx context.Context, change StatusChange) error

	LatestScore(ctx context.Context, contentID string) (entities.ScoreResult, bool, error)

	HasOpenReviewEntry(ctx context.Context, contentID string) (bool, error)
	ListOpenReviewEntries(ctx context.Context, limit int, offset int) ([]ReviewQueueItem, error)

	CreateAppeal(ctx context.Context, appeal entities.Appeal, entry entities.ReviewQueueEntry) error
	GetAppeal(ctx context.Context, appealID string) (entities.Appeal, error)
	LatestAppeal(ctx context.Context, contentID string) (entities.Appeal, bool, error)
	ResolveAppeal(ctx context.Context, resolution AppealResolution) (entities.Appeal, error)

	DashboardStats(ctx context.Context) (DashboardStats, error)
	QueueStats(ctx context.Context) (QueueStats, error)
}
