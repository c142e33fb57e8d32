package membershiplifecycle

import (
	"log/slog"

	httpadapter "amicale/contexts/governance/membership-lifecycle/adapters/http"
	"amicale/contexts/governance/membership-lifecycle/adapters/memory"
	"amicale/contexts/governance/membership-lifecycle/application"
	"amicale/contexts/governance/membership-lifecycle/domain/entities"
	"amicale/contexts/governance/membership-lifecycle/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Records     ports.MemberRecords
	Projections ports.StatusProjectionWriter
	Clock       ports.Clock
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Records:     deps.Records,
		Projections: deps.Projections,
		Clock:       deps.Clock,
		Logger:      deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Lifecycle: service,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Member, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Records:     store,
		Projections: store,
		Clock:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
