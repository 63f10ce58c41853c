package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	notificationservice "sentinel/contexts/engagement/notification-service"
	notificationpostgres "sentinel/contexts/engagement/notification-service/adapters/postgres"
	lifecycleservice "sentinel/contexts/moderation-core/lifecycle-service"
	lifecyclebroker "sentinel/contexts/moderation-core/lifecycle-service/adapters/broker"
	lifecyclepostgres "sentinel/contexts/moderation-core/lifecycle-service/adapters/postgres"
	lifecyclequeries "sentinel/contexts/moderation-core/lifecycle-service/application/queries"
	scoringpipeline "sentinel/contexts/moderation-core/scoring-pipeline"
	scoringgateway "sentinel/contexts/moderation-core/scoring-pipeline/adapters/gateway"
	scoringqueue "sentinel/contexts/moderation-core/scoring-pipeline/adapters/queue"
	"sentinel/internal/platform/config"
	"sentinel/internal/platform/db"
	"sentinel/internal/platform/httpserver"
	"sentinel/internal/platform/messaging"

	"github.com/robfig/cron/v3"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const lifecycleTopic = "moderation.lifecycle"

type APIApp struct {
	cfg           config.Config
	server        *httpserver.Server
	postgres      *db.Postgres
	broker        *messaging.Broker
	lifecycle     lifecycleservice.Module
	scoring       scoringpipeline.Module
	notifications notificationservice.Module
	logger        *slog.Logger
}

type WorkerApp struct {
	cfg           config.Config
	postgres      *db.Postgres
	broker        *messaging.Broker
	lifecycle     lifecycleservice.Module
	scoring       scoringpipeline.Module
	notifications notificationservice.Module
	pollInterval  time.Duration
	logger        *slog.Logger
}

type builtModules struct {
	cfg           config.Config
	postgres      *db.Postgres
	broker        *messaging.Broker
	lifecycle     lifecycleservice.Module
	scoring       scoringpipeline.Module
	notifications notificationservice.Module
	logger        *slog.Logger
}

func buildModules(process string) (builtModules, error) {
	cfg, err := config.Load()
	if err != nil {
		return builtModules{}, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", process)
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return builtModules{}, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return builtModules{}, err
	}

	broker, err := messaging.NewBroker(cfg.BrokerAddrs, logger)
	if err != nil {
		return builtModules{}, err
	}

	repo := lifecyclepostgres.NewRepository(pg.DB, logger)
	lifecycleModule := lifecycleservice.NewModule(lifecycleservice.Dependencies{
		Repository: repo,
		Outbox:     repo,
		OutboxRepo: repo,
		Publisher:  lifecyclebroker.Publisher{Bus: broker},
		Queue:      scoringqueue.BrokerQueue{Broker: broker},
		Clock:      lifecyclepostgres.SystemClock{},
		IDGen:      lifecyclepostgres.UUIDGenerator{},
		Logger:     logger,
	})

	scoringModule := scoringpipeline.NewModule(scoringpipeline.Dependencies{
		Broker: broker,
		Gateway: scoringgateway.NewClient(scoringgateway.Config{
			TextURL:  cfg.ScoringTextURL,
			ImageURL: cfg.ScoringImageURL,
			VideoURL: cfg.ScoringVideoURL,
			APIKey:   cfg.ScoringAPIKey,
			Provider: cfg.ScoringProvider,
		}),
		RecordScore: lifecycleModule.RecordScore,
		Escalate:    lifecycleModule.Escalate,
		Concurrency: cfg.ScoringConcurrency,
		Logger:      logger,
	})
	scoringModule.Worker.MaxAttempts = cfg.ScoringMaxAttempts
	scoringModule.Worker.BaseBackoff = cfg.ScoringBaseBackoff

	notificationRepo := notificationpostgres.NewRepository(pg.DB, logger)
	notificationModule := notificationservice.NewModule(notificationservice.Dependencies{
		Repository: notificationRepo,
		Stats:      lifecycleStatsSource{queries: lifecycleModule.Handler.Queries},
		Clock:      notificationRepo,
		IDGen:      notificationRepo,
		Retention:  cfg.NotificationRetention,
		Logger:     logger,
	})

	return builtModules{
		cfg:           cfg,
		postgres:      pg,
		broker:        broker,
		lifecycle:     lifecycleModule,
		scoring:       scoringModule,
		notifications: notificationModule,
		logger:        logger,
	}, nil
}

func BuildAPI() (*APIApp, error) {
	built, err := buildModules("api")
	if err != nil {
		return nil, err
	}
	server := httpserver.New(built.lifecycle, built.notifications, built.logger, normalizeAddr(built.cfg.HTTPPort))
	return &APIApp{
		cfg:           built.cfg,
		server:        server,
		postgres:      built.postgres,
		broker:        built.broker,
		lifecycle:     built.lifecycle,
		scoring:       built.scoring,
		notifications: built.notifications,
		logger:        built.logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	built, err := buildModules("worker")
	if err != nil {
		return nil, err
	}
	return &WorkerApp{
		cfg:           built.cfg,
		postgres:      built.postgres,
		broker:        built.broker,
		lifecycle:     built.lifecycle,
		scoring:       built.scoring,
		notifications: built.notifications,
		pollInterval:  2 * time.Second,
		logger:        built.logger,
	}, nil
}

// Run starts the consumers, the outbox relay loop and the HTTP server. The
// broker is in-process, so the API binary hosts the full pipeline until the
// external broker wiring lands.
func (a *APIApp) Run(ctx context.Context) error {
	if err := subscribeConsumers(ctx, a.cfg, a.broker, a.scoring, a.notifications); err != nil {
		return err
	}
	if a.cfg.EnableOutboxRelay {
		go runRelayLoop(ctx, a.lifecycle, 2*time.Second, a.logger)
	}

	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := subscribeConsumers(ctx, w.cfg, w.broker, w.scoring, w.notifications); err != nil {
		return err
	}

	var scheduler *cron.Cron
	if w.cfg.EnableNotificationCleanup {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc("0 3 * * *", func() {
			if _, err := w.notifications.Service.CleanupOld(ctx); err != nil {
				w.logger.Error("notification cleanup failed",
					"event", "bootstrap_notification_cleanup_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"error", err.Error(),
				)
			}
		}); err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.cfg.EnableOutboxRelay {
			// Relay failures (broker marked down, transient DB errors) are
			// retried on the next tick, never fatal to the process.
			if err := w.lifecycle.OutboxRelay.RunOnce(ctx); err != nil {
				w.logger.Error("outbox relay cycle failed",
					"event", "bootstrap_outbox_relay_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"error", err.Error(),
				)
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func subscribeConsumers(
	ctx context.Context,
	cfg config.Config,
	broker *messaging.Broker,
	scoring scoringpipeline.Module,
	notifications notificationservice.Module,
) error {
	if cfg.EnableScoringWorker {
		if err := broker.Subscribe(ctx, scoringqueue.TopicScoringJobs, "scoring-worker-cg", scoring.Worker.Handle); err != nil {
			return err
		}
	}
	if cfg.EnableNotificationConsumer {
		if err := broker.Subscribe(ctx, lifecycleTopic, "notification-fanout-cg", notifications.Consumer.Handle); err != nil {
			return err
		}
	}
	return nil
}

func runRelayLoop(ctx context.Context, lifecycle lifecycleservice.Module, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := lifecycle.OutboxRelay.RunOnce(ctx); err != nil {
			logger.Error("outbox relay cycle failed",
				"event", "bootstrap_outbox_relay_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

type lifecycleStatsSource struct {
	queries lifecyclequeries.QueryUseCase
}

func (s lifecycleStatsSource) QueueDepth(ctx context.Context) (int, int, error) {
	stats, err := s.queries.QueueStats(ctx)
	if err != nil {
		return 0, 0, err
	}
	return stats.PendingCount, stats.ReviewCount, nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
