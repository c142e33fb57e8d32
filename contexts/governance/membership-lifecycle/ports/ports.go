package ports

import (
	"context"
	"time"

	"amicale/contexts/governance/membership-lifecycle/domain/entities"
)

// MemberRecords is the read side of the record store consumed by the
// evaluator. The engine never mutates these records.
type MemberRecords interface {
	GetMember(ctx context.Context, memberID string) (entities.Member, error)
	ListDuesRecords(ctx context.Context, memberID string) ([]entities.DuesRecord, error)
	ListSanctions(ctx context.Context, memberID string) ([]entities.Sanction, error)
}

// StatusProjectionWriter persists a derived status as a cached projection.
// The projection is advisory; the evaluator remains the source of truth.
type StatusProjectionWriter interface {
	SaveStatusProjection(ctx context.Context, report entities.StatusReport) error
}

type Clock interface {
	Now() time.Time
}
