package httpadapter

import (
	"context"
	"log/slog"

	"amicale/contexts/governance/eligibility-service/application"
	"amicale/contexts/governance/eligibility-service/ports"
	httptransport "amicale/contexts/governance/eligibility-service/transport/http"
)

type Handler struct {
	Eligibility application.Service
	Logger      *slog.Logger
}

func (h Handler) CheckVotingHandler(ctx context.Context, memberID string, targetKind string, targetID string) (httptransport.DecisionResponse, error) {
	decision, err := h.Eligibility.CheckVoting(ctx, memberID, ports.VoteTarget{
		Kind:     ports.TargetKind(targetKind),
		TargetID: targetID,
	})
	if err != nil {
		return httptransport.DecisionResponse{}, err
	}
	return decisionResponse(memberID, decision), nil
}

func (h Handler) CheckCandidacyHandler(ctx context.Context, memberID string, positionID string) (httptransport.DecisionResponse, error) {
	decision, err := h.Eligibility.CheckCandidacy(ctx, memberID, positionID)
	if err != nil {
		return httptransport.DecisionResponse{}, err
	}
	return decisionResponse(memberID, decision), nil
}

func (h Handler) ReverifyCandidacyHandler(ctx context.Context, memberID string, positionID string) (httptransport.DecisionResponse, error) {
	decision, err := h.Eligibility.ReverifyForApproval(ctx, memberID, positionID)
	if err != nil {
		return httptransport.DecisionResponse{}, err
	}
	return decisionResponse(memberID, decision), nil
}

func decisionResponse(memberID string, decision ports.Decision) httptransport.DecisionResponse {
	reasons := decision.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return httptransport.DecisionResponse{
		MemberID: memberID,
		Eligible: decision.Eligible,
		Reasons:  reasons,
	}
}
