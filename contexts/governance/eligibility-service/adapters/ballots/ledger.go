// Package ballotsadapter answers the "already voted" question from the
// ballot store, so the eligibility checker reflects the same ledger the
// ballot box enforces its uniqueness constraint on.
package ballotsadapter

import (
	"context"
	"strings"

	ballotports "amicale/contexts/governance/ballot-box/ports"
	domainerrors "amicale/contexts/governance/eligibility-service/domain/errors"
	"amicale/contexts/governance/eligibility-service/ports"
)

type Ledger struct {
	Ballots   ballotports.BallotRepository
	Positions ports.ElectionDirectory
}

func (l Ledger) HasVoted(ctx context.Context, target ports.VoteTarget, memberID string) (bool, error) {
	memberID = strings.TrimSpace(memberID)
	targetID := strings.TrimSpace(target.TargetID)
	switch target.Kind {
	case ports.TargetAgendaItem:
		return l.Ballots.HasResolutionBallot(ctx, targetID, memberID)
	case ports.TargetElectionPosition:
		// The ballot identity is (election, position, voter); resolve the
		// election the position belongs to first.
		position, err := l.Positions.GetPosition(ctx, targetID)
		if err != nil {
			return false, err
		}
		return l.Ballots.HasElectionBallot(ctx, position.ElectionID, targetID, memberID)
	default:
		return false, domainerrors.ErrInvalidRequest
	}
}

var _ ports.BallotLedger = Ledger{}
