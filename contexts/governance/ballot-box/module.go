package ballotbox

import (
	"log/slog"

	httpadapter "amicale/contexts/governance/ballot-box/adapters/http"
	"amicale/contexts/governance/ballot-box/adapters/memory"
	"amicale/contexts/governance/ballot-box/application/commands"
	"amicale/contexts/governance/ballot-box/application/queries"
	"amicale/contexts/governance/ballot-box/ports"
)

type Module struct {
	Ballots commands.BallotUseCase
	Tallies queries.TallyUseCase
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Ballots   ports.BallotRepository
	Elections ports.ElectionDirectory
	Tallies   ports.TallyWriter
	Gate      ports.EligibilityGate
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	tallies := queries.TallyUseCase{
		Ballots:   deps.Ballots,
		Elections: deps.Elections,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	ballots := commands.BallotUseCase{
		Ballots:   deps.Ballots,
		Elections: deps.Elections,
		Tallies:   deps.Tallies,
		Gate:      deps.Gate,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	return Module{
		Ballots: ballots,
		Tallies: tallies,
		Handler: httpadapter.Handler{
			Ballots: ballots,
			Tallies: tallies,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module over the memory store, with no
// eligibility gate. Duplicate ballots are still rejected by the store.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Ballots:   store,
		Elections: store,
		Tallies:   store,
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
