package ports

import (
	"context"
	"time"

	"amicale/contexts/governance/ballot-box/domain/entities"
	"amicale/internal/shared/events"
	"amicale/internal/shared/outbox"
)

// BallotRepository is the ballot store. Insert methods must enforce the
// per-voter uniqueness constraint and return ErrAlreadyVoted on a duplicate,
// including under concurrent submission.
type BallotRepository interface {
	InsertResolutionBallot(ctx context.Context, ballot entities.Ballot) error
	ListResolutionBallots(ctx context.Context, itemID string) ([]entities.Ballot, error)
	HasResolutionBallot(ctx context.Context, itemID string, voterID string) (bool, error)

	InsertElectionBallot(ctx context.Context, ballot entities.ElectionBallot) error
	ListElectionBallots(ctx context.Context, electionID string, positionID string) ([]entities.ElectionBallot, error)
	HasElectionBallot(ctx context.Context, electionID string, positionID string, voterID string) (bool, error)
}

// ElectionDirectory resolves election configuration (positions, candidates,
// ballot method per position). Owned by the surrounding application; the
// engine only reads it.
type ElectionDirectory interface {
	GetElection(ctx context.Context, electionID string) (entities.Election, error)
}

// TallyWriter persists published tallies as auditable projections.
type TallyWriter interface {
	SaveResolutionTally(ctx context.Context, result entities.ResolutionResult) error
	SaveElectionTally(ctx context.Context, result entities.ElectionResult) error
}

// OutboxWriter appends an event inside the same store transaction as the
// state change it announces.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
}

// OutboxStore is the worker-facing side of the outbox.
type OutboxStore interface {
	outbox.Source
}

type GateTarget struct {
	Kind     string
	TargetID string
}

type GateDecision struct {
	Eligible bool
	Reasons  []string
}

// EligibilityGate consults the eligibility checker before a ballot is
// accepted. Optional: when nil, only the store's uniqueness constraint
// guards casting.
type EligibilityGate interface {
	CheckVoting(ctx context.Context, memberID string, target GateTarget) (GateDecision, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
