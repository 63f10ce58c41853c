package lifecycleservice

import (
	"log/slog"

	httpadapter "sentinel/contexts/moderation-core/lifecycle-service/adapters/http"
	"sentinel/contexts/moderation-core/lifecycle-service/adapters/memory"
	"sentinel/contexts/moderation-core/lifecycle-service/application/commands"
	"sentinel/contexts/moderation-core/lifecycle-service/application/queries"
	"sentinel/contexts/moderation-core/lifecycle-service/application/workers"
	"sentinel/contexts/moderation-core/lifecycle-service/ports"
)

// Module bundles the lifecycle use cases behind the HTTP handler plus the
// worker-facing entry points the scoring pipeline and relay need.
type Module struct {
	Handler     httpadapter.Handler
	RecordScore commands.RecordScoreUseCase
	Escalate    commands.EscalateToReviewUseCase
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Outbox     ports.OutboxWriter
	OutboxRepo ports.OutboxRepository
	Publisher  ports.EventPublisher
	Queue      ports.ScoreQueue
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	submit := commands.SubmitContentUseCase{
		Repository: deps.Repository,
		Queue:      deps.Queue,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	edit := commands.EditContentUseCase{
		Repository: deps.Repository,
		Queue:      deps.Queue,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	decide := commands.DecideContentUseCase{
		Repository: deps.Repository,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	appeal := commands.SubmitAppealUseCase{
		Repository: deps.Repository,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	resolve := commands.ResolveAppealUseCase{
		Repository: deps.Repository,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	query := queries.QueryUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Submit:  submit,
			Edit:    edit,
			Decide:  decide,
			Appeal:  appeal,
			Resolve: resolve,
			Queries: query,
			Logger:  deps.Logger,
		},
		RecordScore: commands.RecordScoreUseCase{
			Repository: deps.Repository,
			Outbox:     deps.Outbox,
			Clock:      deps.Clock,
			IDGen:      deps.IDGen,
			Logger:     deps.Logger,
		},
		Escalate: commands.EscalateToReviewUseCase{
			Repository: deps.Repository,
			Outbox:     deps.Outbox,
			Clock:      deps.Clock,
			IDGen:      deps.IDGen,
			Logger:     deps.Logger,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.OutboxRepo,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module onto the in-memory store for tests and
// local runs. Queue and Publisher stay as provided so callers can plug fakes.
func NewInMemoryModule(queue ports.ScoreQueue, publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore(nil)
	module := NewModule(Dependencies{
		Repository: store,
		Outbox:     store,
		OutboxRepo: store,
		Publisher:  publisher,
		Queue:      queue,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
