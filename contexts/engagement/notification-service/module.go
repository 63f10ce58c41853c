package notificationservice

import (
	"log/slog"
	"time"

	httpadapter "sentinel/contexts/engagement/notification-service/adapters/http"
	"sentinel/contexts/engagement/notification-service/adapters/memory"
	"sentinel/contexts/engagement/notification-service/application"
	"sentinel/contexts/engagement/notification-service/application/workers"
	"sentinel/contexts/engagement/notification-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Service  application.Service
	Consumer workers.LifecycleConsumer
	Registry ports.Registry
	Store    *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Registry   ports.Registry
	Stats      ports.StatsSource
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Retention  time.Duration
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	registry := deps.Registry
	if registry == nil {
		registry = memory.NewRegistry()
	}
	service := application.Service{
		Repo:      deps.Repository,
		Registry:  registry,
		Stats:     deps.Stats,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Retention: deps.Retention,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service:  service,
			Registry: registry,
			Logger:   deps.Logger,
		},
		Service: service,
		Consumer: workers.LifecycleConsumer{
			Service: service,
			Logger:  deps.Logger,
		},
		Registry: registry,
	}
}

func NewInMemoryModule(moderatorIDs []string, stats ports.StatsSource, logger *slog.Logger) Module {
	store := memory.NewStore(moderatorIDs)
	module := NewModule(Dependencies{
		Repository: store,
		Stats:      stats,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
