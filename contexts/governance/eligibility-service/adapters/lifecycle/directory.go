package lifecycleadapter

import (
	"context"
	"errors"
	"time"

	domainerrors "amicale/contexts/governance/eligibility-service/domain/errors"
	"amicale/contexts/governance/eligibility-service/ports"
	lifecycleapp "amicale/contexts/governance/membership-lifecycle/application"
	lifecycleentities "amicale/contexts/governance/membership-lifecycle/domain/entities"
	lifecycleerrors "amicale/contexts/governance/membership-lifecycle/domain/errors"
	lifecycleports "amicale/contexts/governance/membership-lifecycle/ports"
)

// Directory bridges the eligibility checker to the membership lifecycle
// evaluator: the snapshot's Active flag is always a fresh derivation, never a
// stored status column.
type Directory struct {
	Evaluator lifecycleapp.Service
	Records   lifecycleports.MemberRecords
}

func (d Directory) GetMemberSnapshot(ctx context.Context, memberID string, asOf time.Time) (ports.MemberSnapshot, error) {
	member, err := d.Records.GetMember(ctx, memberID)
	if err != nil {
		return ports.MemberSnapshot{}, mapError(err)
	}
	report, err := d.Evaluator.EvaluateStatus(ctx, memberID, asOf)
	if err != nil {
		return ports.MemberSnapshot{}, mapError(err)
	}
	return ports.MemberSnapshot{
		MemberID:          member.MemberID,
		Active:            report.Status == lifecycleentities.StatusActive,
		StatusReasons:     report.Reasons,
		JoinedAt:          member.JoinedAt,
		ResidenceVerified: member.ResidenceVerified,
		OriginVerified:    member.OriginVerified,
	}, nil
}

func mapError(err error) error {
	if errors.Is(err, lifecycleerrors.ErrMemberNotFound) {
		return domainerrors.ErrMemberNotFound
	}
	return err
}

var _ ports.MemberDirectory = Directory{}
