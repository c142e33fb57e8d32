package ports

import (
	"context"
	"time"
)

type TargetKind string

const (
	TargetAgendaItem       TargetKind = "agenda_item"
	TargetElectionPosition TargetKind = "election_position"
)

// VoteTarget identifies what a member wants to vote on: one agenda item of an
// assembly, or one position of an election.
type VoteTarget struct {
	Kind     TargetKind
	TargetID string
}

// Reason codes surfaced in decisions. A decision carries every failing code,
// formatted "code: detail", so callers can render a complete checklist.
const (
	ReasonNotActive           = "not_active"
	ReasonAlreadyVoted        = "already_voted"
	ReasonTenureInsufficient  = "tenure_insufficient"
	ReasonVerificationMissing = "verification_missing"
	ReasonCommissionConflict  = "commission_conflict"
)

// Decision is the structured outcome of an eligibility check. Reasons are
// cumulative: an ineligible member sees all failing conditions at once.
type Decision struct {
	Eligible bool
	Reasons  []string
}

// MemberSnapshot is the view of a member the checker needs, derived at asOf.
type MemberSnapshot struct {
	MemberID          string
	Active            bool
	StatusReasons     []string
	JoinedAt          time.Time
	ResidenceVerified bool
	OriginVerified    bool
}

// MemberDirectory resolves a member snapshot, delegating the active/lapsed
// derivation to the membership lifecycle evaluator.
type MemberDirectory interface {
	GetMemberSnapshot(ctx context.Context, memberID string, asOf time.Time) (MemberSnapshot, error)
}

// BallotLedger answers "has this member already voted on this target",
// backed by the ballot store's uniqueness constraint.
type BallotLedger interface {
	HasVoted(ctx context.Context, target VoteTarget, memberID string) (bool, error)
}

type PositionInfo struct {
	PositionID string
	ElectionID string
	Title      string
}

// ElectionDirectory exposes position metadata and the oversight-commission
// roster for the election cycle a position belongs to.
type ElectionDirectory interface {
	GetPosition(ctx context.Context, positionID string) (PositionInfo, error)
	IsOversightMember(ctx context.Context, electionID string, memberID string) (bool, error)
}

type Clock interface {
	Now() time.Time
}
