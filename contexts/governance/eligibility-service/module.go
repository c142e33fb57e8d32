package eligibilityservice

import (
	"log/slog"

	httpadapter "amicale/contexts/governance/eligibility-service/adapters/http"
	"amicale/contexts/governance/eligibility-service/adapters/memory"
	"amicale/contexts/governance/eligibility-service/application"
	"amicale/contexts/governance/eligibility-service/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Members   ports.MemberDirectory
	Ballots   ports.BallotLedger
	Elections ports.ElectionDirectory
	Clock     ports.Clock
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Members:   deps.Members,
		Ballots:   deps.Ballots,
		Elections: deps.Elections,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Eligibility: service,
			Logger:      deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Members:   store,
		Ballots:   store,
		Elections: store,
		Clock:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
