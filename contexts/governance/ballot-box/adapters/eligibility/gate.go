// Package eligibilityadapter plugs the eligibility checker in front of
// ballot casting. The gate runs the full voting check; the ballot store's
// uniqueness constraint remains the final guard against races.
package eligibilityadapter

import (
	"context"

	"amicale/contexts/governance/ballot-box/ports"
	eligibilityapp "amicale/contexts/governance/eligibility-service/application"
	eligibilityports "amicale/contexts/governance/eligibility-service/ports"
)

type Gate struct {
	Checker eligibilityapp.Service
}

func (g Gate) CheckVoting(ctx context.Context, memberID string, target ports.GateTarget) (ports.GateDecision, error) {
	decision, err := g.Checker.CheckVoting(ctx, memberID, eligibilityports.VoteTarget{
		Kind:     eligibilityports.TargetKind(target.Kind),
		TargetID: target.TargetID,
	})
	if err != nil {
		return ports.GateDecision{}, err
	}
	return ports.GateDecision{
		Eligible: decision.Eligible,
		Reasons:  decision.Reasons,
	}, nil
}

var _ ports.EligibilityGate = Gate{}
