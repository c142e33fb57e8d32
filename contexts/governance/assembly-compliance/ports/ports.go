package ports

import (
	"context"
	"time"

	"amicale/contexts/governance/assembly-compliance/domain/entities"
)

type AssemblyDirectory interface {
	GetAssembly(ctx context.Context, assemblyID string) (entities.Assembly, error)
}

// MembershipCensus counts members whose derived status is active, for the
// extraordinary-assembly quorum threshold.
type MembershipCensus interface {
	CountActiveMembers(ctx context.Context) (int, error)
}

type SeatDirectory interface {
	GetSeat(ctx context.Context, seatID string) (entities.ExecutiveSeat, error)
}

type Clock interface {
	Now() time.Time
}
