package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type MemberCategory string

const (
	CategoryStudent     MemberCategory = "student"
	CategoryActive      MemberCategory = "active"
	CategorySympathizer MemberCategory = "sympathizer"
)

type Member struct {
	MemberID          string
	Category          MemberCategory
	ResidenceVerified bool
	OriginVerified    bool
	JoinedAt          time.Time
}

type DuesStatus string

const (
	DuesPending DuesStatus = "pending"
	DuesPaid    DuesStatus = "paid"
	DuesOverdue DuesStatus = "overdue"
	DuesWaived  DuesStatus = "waived"
)

// DuesRecord is one membership-fee cycle for one member. Records are never
// deleted; payment mutates AmountPaid and Status only.
type DuesRecord struct {
	MemberID   string
	Year       int
	AmountOwed decimal.Decimal
	AmountPaid decimal.Decimal
	DueDate    time.Time
	Status     DuesStatus
}

// Settled reports whether the cycle no longer blocks active status.
func (d DuesRecord) Settled() bool {
	return d.Status == DuesPaid || d.Status == DuesWaived
}

type SanctionKind string

const (
	SanctionWarning   SanctionKind = "warning"
	SanctionBlame     SanctionKind = "blame"
	SanctionExclusion SanctionKind = "exclusion"
)

// Sanction is an append-only disciplinary record. LiftedAt is nil while the
// sanction is unresolved.
type Sanction struct {
	SanctionID  string
	MemberID    string
	Kind        SanctionKind
	EffectiveAt time.Time
	LiftedAt    *time.Time
}

// UnresolvedAt reports whether the sanction is in force at the given instant.
func (s Sanction) UnresolvedAt(asOf time.Time) bool {
	if s.EffectiveAt.After(asOf) {
		return false
	}
	return s.LiftedAt == nil || s.LiftedAt.After(asOf)
}

type MembershipStatus string

const (
	StatusPending  MembershipStatus = "pending"
	StatusActive   MembershipStatus = "active"
	StatusLapsed   MembershipStatus = "lapsed"
	StatusExpelled MembershipStatus = "expelled"
)

// StatusReport is the derived membership state plus every reason that led to
// it. The status is a projection of dues and sanction history, never a stored
// fact of its own.
type StatusReport struct {
	MemberID    string
	Status      MembershipStatus
	Reasons     []string
	EvaluatedAt time.Time
}
