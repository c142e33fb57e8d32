package assemblycompliance

import (
	"log/slog"

	httpadapter "amicale/contexts/governance/assembly-compliance/adapters/http"
	"amicale/contexts/governance/assembly-compliance/adapters/memory"
	"amicale/contexts/governance/assembly-compliance/application"
	"amicale/contexts/governance/assembly-compliance/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Assemblies ports.AssemblyDirectory
	Census     ports.MembershipCensus
	Seats      ports.SeatDirectory
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Assemblies: deps.Assemblies,
		Census:     deps.Census,
		Seats:      deps.Seats,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Compliance: service,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Assemblies: store,
		Census:     store,
		Seats:      store,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
