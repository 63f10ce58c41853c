package scoringpipeline

import (
	"log/slog"

	lifecyclecommands "sentinel/contexts/moderation-core/lifecycle-service/application/commands"
	"sentinel/contexts/moderation-core/scoring-pipeline/adapters/gateway"
	lifecycleadapter "sentinel/contexts/moderation-core/scoring-pipeline/adapters/lifecycle"
	"sentinel/contexts/moderation-core/scoring-pipeline/adapters/queue"
	"sentinel/contexts/moderation-core/scoring-pipeline/application/workers"
	"sentinel/contexts/moderation-core/scoring-pipeline/ports"
)

// Module bundles the queue adapter handed to the lifecycle engine and the
// worker that drains it.
type Module struct {
	Queue  queue.BrokerQueue
	Worker *workers.ScoringWorker
}

type Dependencies struct {
	Broker      queue.Publisher
	Gateway     ports.Gateway
	RecordScore lifecyclecommands.RecordScoreUseCase
	Escalate    lifecyclecommands.EscalateToReviewUseCase
	Concurrency int64
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	gw := deps.Gateway
	if gw == nil {
		gw = gateway.NewClient(gateway.Config{})
	}
	worker := workers.NewScoringWorker(
		gw,
		lifecycleadapter.Client{
			RecordScoreUC: deps.RecordScore,
			EscalateUC:    deps.Escalate,
		},
		deps.Concurrency,
		queue.DecodeJob,
		deps.Logger,
	)
	return Module{
		Queue:  queue.BrokerQueue{Broker: deps.Broker},
		Worker: worker,
	}
}
