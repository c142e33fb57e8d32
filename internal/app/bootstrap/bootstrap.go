package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	expenseapproval "amicale/contexts/finance-core/expense-approval"
	expensepostgres "amicale/contexts/finance-core/expense-approval/adapters/postgres"
	expenseports "amicale/contexts/finance-core/expense-approval/ports"
	assemblycompliance "amicale/contexts/governance/assembly-compliance"
	compliancepostgres "amicale/contexts/governance/assembly-compliance/adapters/postgres"
	ballotbox "amicale/contexts/governance/ballot-box"
	gateadapter "amicale/contexts/governance/ballot-box/adapters/eligibility"
	ballotpostgres "amicale/contexts/governance/ballot-box/adapters/postgres"
	ballotports "amicale/contexts/governance/ballot-box/ports"
	eligibilityservice "amicale/contexts/governance/eligibility-service"
	ballotsadapter "amicale/contexts/governance/eligibility-service/adapters/ballots"
	lifecycleadapter "amicale/contexts/governance/eligibility-service/adapters/lifecycle"
	eligibilitypostgres "amicale/contexts/governance/eligibility-service/adapters/postgres"
	membershiplifecycle "amicale/contexts/governance/membership-lifecycle"
	lifecyclepostgres "amicale/contexts/governance/membership-lifecycle/adapters/postgres"
	lifecycleports "amicale/contexts/governance/membership-lifecycle/ports"
	"amicale/internal/platform/config"
	"amicale/internal/platform/db"
	"amicale/internal/platform/httpserver"
	"amicale/internal/platform/messaging"
	"amicale/internal/shared/outbox"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	relay        outbox.Relay
	relayEnabled bool
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := migrate(pg); err != nil {
		_ = pg.Close()
		return nil, err
	}

	lifecycleRepo := lifecyclepostgres.NewRepository(pg.DB, logger)
	var projections lifecycleports.StatusProjectionWriter
	if cfg.EnableStatusWriteThrough {
		projections = lifecycleRepo
	}
	lifecycleModule := membershiplifecycle.NewModule(membershiplifecycle.Dependencies{
		Records:     lifecycleRepo,
		Projections: projections,
		Clock:       lifecyclepostgres.SystemClock{},
		Logger:      logger,
	})

	ballotRepo := ballotpostgres.NewRepository(pg.DB, logger)
	eligibilityRepo := eligibilitypostgres.NewRepository(pg.DB, logger)
	eligibilityModule := eligibilityservice.NewModule(eligibilityservice.Dependencies{
		Members: lifecycleadapter.Directory{
			Evaluator: lifecycleModule.Service,
			Records:   lifecycleRepo,
		},
		Ballots: ballotsadapter.Ledger{
			Ballots:   ballotRepo,
			Positions: eligibilityRepo,
		},
		Elections: eligibilityRepo,
		Clock:     eligibilitypostgres.SystemClock{},
		Logger:    logger,
	})

	var gate ballotports.EligibilityGate
	if cfg.EnableBallotEligibilityGate {
		gate = gateadapter.Gate{Checker: eligibilityModule.Service}
	}
	var tallies ballotports.TallyWriter
	if cfg.EnableTallyPublication {
		tallies = ballotRepo
	}
	ballotModule := ballotbox.NewModule(ballotbox.Dependencies{
		Ballots:   ballotRepo,
		Elections: ballotRepo,
		Tallies:   tallies,
		Gate:      gate,
		Outbox:    ballotRepo,
		Clock:     ballotpostgres.SystemClock{},
		IDGen:     ballotpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	expenseRepo := expensepostgres.NewRepository(pg.DB, logger)
	var expenseOutbox expenseports.OutboxWriter
	if cfg.EnableExpenseApprovalEvents {
		expenseOutbox = expenseRepo
	}
	expenseModule := expenseapproval.NewModule(expenseapproval.Dependencies{
		Approvals: expenseRepo,
		Outbox:    expenseOutbox,
		Clock:     expensepostgres.SystemClock{},
		IDGen:     expensepostgres.UUIDGenerator{},
		Logger:    logger,
	})

	complianceRepo := compliancepostgres.NewRepository(pg.DB, logger)
	complianceModule := assemblycompliance.NewModule(assemblycompliance.Dependencies{
		Assemblies: complianceRepo,
		Census:     complianceRepo,
		Seats:      complianceRepo,
		Clock:      compliancepostgres.SystemClock{},
		Logger:     logger,
	})

	server := httpserver.New(
		lifecycleModule,
		eligibilityModule,
		ballotModule,
		expenseModule,
		complianceModule,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	ballotRepo := ballotpostgres.NewRepository(pg.DB, logger)
	expenseRepo := expensepostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		relay: outbox.Relay{
			Sources:      []outbox.Source{ballotRepo, expenseRepo},
			Publisher:    bus,
			BatchSize:    100,
			PollInterval: 2 * time.Second,
			Logger:       logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		logger:       logger,
	}, nil
}

func migrate(pg *db.Postgres) error {
	if err := lifecyclepostgres.AutoMigrate(pg.DB); err != nil {
		return err
	}
	if err := ballotpostgres.AutoMigrate(pg.DB); err != nil {
		return err
	}
	if err := eligibilitypostgres.AutoMigrate(pg.DB); err != nil {
		return err
	}
	if err := expensepostgres.AutoMigrate(pg.DB); err != nil {
		return err
	}
	return compliancepostgres.AutoMigrate(pg.DB)
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.relayEnabled {
		w.logger.Info("outbox relay disabled, worker idle",
			"event", "bootstrap_worker_idle",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.relay.PollInterval.String(),
	)
	return w.relay.Run(ctx)
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
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
