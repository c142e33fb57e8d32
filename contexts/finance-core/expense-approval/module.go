package expenseapproval

import (
	"log/slog"

	httpadapter "amicale/contexts/finance-core/expense-approval/adapters/http"
	"amicale/contexts/finance-core/expense-approval/adapters/memory"
	"amicale/contexts/finance-core/expense-approval/application"
	"amicale/contexts/finance-core/expense-approval/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Approvals ports.ApprovalRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Approvals: deps.Approvals,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Approvals: service,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Approvals: store,
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
