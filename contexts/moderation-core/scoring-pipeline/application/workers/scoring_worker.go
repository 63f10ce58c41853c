package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	lifecycleports "sentinel/contexts/moderation-core/lifecycle-service/ports"
	application "sentinel/contexts/moderation-core/scoring-pipeline/application"
	domainerrors "sentinel/contexts/moderation-core/scoring-pipeline/domain/errors"
	"sentinel/contexts/moderation-core/scoring-pipeline/ports"
	"sentinel/internal/shared/events"
	"sentinel/internal/shared/keymutex"

	"golang.org/x/sync/semaphore"
)

const (
	defaultConcurrency = 4
	defaultMaxAttempts = 3
	defaultBaseBackoff = 2 * time.Second
)

// ScoringWorker consumes scoring jobs, calls the gateway and reports the
// verdict back to the lifecycle engine. Failed calls retry with exponential
// backoff; exhausting every attempt escalates the item to human review so it
// never sits in pending forever.
type ScoringWorker struct {
	Gateway     ports.Gateway
	Lifecycle   ports.LifecycleClient
	MaxAttempts int
	BaseBackoff time.Duration
	Logger      *slog.Logger

	sem   *semaphore.Weighted
	locks *keymutex.KeyMutex

	decode func(events.Envelope) (lifecycleports.ScoringJob, error)
}

func NewScoringWorker(
	gateway ports.Gateway,
	lifecycle ports.LifecycleClient,
	concurrency int64,
	decode func(events.Envelope) (lifecycleports.ScoringJob, error),
	logger *slog.Logger,
) *ScoringWorker {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &ScoringWorker{
		Gateway:     gateway,
		Lifecycle:   lifecycle,
		MaxAttempts: defaultMaxAttempts,
		BaseBackoff: defaultBaseBackoff,
		Logger:      logger,
		sem:         semaphore.NewWeighted(concurrency),
		locks:       keymutex.New(),
		decode:      decode,
	}
}

// Handle is the broker consumer entry point. The semaphore bounds how many
// gateway calls run at once; jobs beyond the bound wait here, applying
// backpressure to the subscriber channel.
func (w *ScoringWorker) Handle(ctx context.Context, event events.Envelope) error {
	job, err := w.decode(event)
	if err != nil {
		w.logger().Error("discarding undecodable scoring job",
			"event", "scoring_job_decode_failed",
			"module", "moderation-core/scoring-pipeline",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return nil
	}
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer w.sem.Release(1)
	return w.Process(ctx, job)
}

// Process scores one job end to end. The per-content lock serializes racing
// deliveries of the same item so at most one scoring attempt runs per content.
func (w *ScoringWorker) Process(ctx context.Context, job lifecycleports.ScoringJob) error {
	logger := w.logger()

	w.locks.Lock(job.ContentID)
	defer w.locks.Unlock(job.ContentID)

	maxAttempts := w.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	baseBackoff := w.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = defaultBaseBackoff
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		score, err := w.Gateway.Score(ctx, ports.ScoreRequest{
			ContentID: job.ContentID,
			Kind:      string(job.Kind),
			Body:      job.Body,
			URL:       job.URL,
		})
		if err == nil {
			return w.Lifecycle.RecordScore(ctx, ports.ScoreReport{
				ContentID:   job.ContentID,
				Provider:    score.Provider,
				Toxicity:    score.Toxicity,
				NSFW:        score.NSFW,
				Spam:        score.Spam,
				HateSpeech:  score.HateSpeech,
				Aggregate:   score.Aggregate,
				RawResponse: score.RawResponse,
			})
		}
		lastErr = err

		if errors.Is(err, domainerrors.ErrUnsupportedJobKind) || errors.Is(err, domainerrors.ErrInvalidGatewayResponse) {
			break
		}
		logger.Warn("scoring attempt failed",
			"event", "scoring_attempt_failed",
			"module", "moderation-core/scoring-pipeline",
			"layer", "worker",
			"content_id", job.ContentID,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"error", err.Error(),
		)

		if attempt < maxAttempts {
			backoff := baseBackoff << (attempt - 1)
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	logger.Error("scoring retries exhausted, escalating to manual review",
		"event", "scoring_retries_exhausted",
		"module", "moderation-core/scoring-pipeline",
		"layer", "worker",
		"content_id", job.ContentID,
		"error", lastErr.Error(),
	)
	return w.Lifecycle.EscalateToReview(ctx, job.ContentID, "scoring retries exhausted")
}

func (w *ScoringWorker) logger() *slog.Logger {
	return application.ResolveLogger(w.Logger)
}
