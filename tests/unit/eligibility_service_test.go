package unit

import (
	"context"
	"strings"
	"testing"
	"time"

	eligibilityservice "amicale/contexts/governance/eligibility-service"
	"amicale/contexts/governance/eligibility-service/ports"
)

func hasReasonWithPrefix(reasons []string, prefix string) bool {
	for _, reason := range reasons {
		if strings.HasPrefix(reason, prefix) {
			return true
		}
	}
	return false
}

func TestVotingEligibilityCollectsEveryFailure(t *testing.T) {
	module := eligibilityservice.NewInMemoryModule(nil)
	module.Store.SetSnapshot(ports.MemberSnapshot{
		MemberID:      "member-1",
		Active:        false,
		StatusReasons: []string{"dues overdue"},
		JoinedAt:      time.Now().AddDate(-2, 0, 0),
	})
	target := ports.VoteTarget{Kind: ports.TargetAgendaItem, TargetID: "item-1"}
	module.Store.MarkVoted(target, "member-1")

	resp, err := module.Handler.CheckVotingHandler(context.Background(), "member-1", "agenda_item", "item-1")
	if err != nil {
		t.Fatalf("check voting failed: %v", err)
	}
	if resp.Eligible {
		t.Fatalf("expected ineligible decision, got %+v", resp)
	}
	if !hasReasonWithPrefix(resp.Reasons, ports.ReasonNotActive) {
		t.Fatalf("expected %s reason, got %v", ports.ReasonNotActive, resp.Reasons)
	}
	if !hasReasonWithPrefix(resp.Reasons, ports.ReasonAlreadyVoted) {
		t.Fatalf("expected %s reason, got %v", ports.ReasonAlreadyVoted, resp.Reasons)
	}
}

func TestVotingEligibilityActiveMemberPasses(t *testing.T) {
	module := eligibilityservice.NewInMemoryModule(nil)
	module.Store.SetSnapshot(ports.MemberSnapshot{
		MemberID: "member-1",
		Active:   true,
		JoinedAt: time.Now().AddDate(0, -1, 0),
	})

	resp, err := module.Handler.CheckVotingHandler(context.Background(), "member-1", "agenda_item", "item-1")
	if err != nil {
		t.Fatalf("check voting failed: %v", err)
	}
	if !resp.Eligible {
		t.Fatalf("expected eligible decision, got reasons %v", resp.Reasons)
	}
}

func TestCandidacyTenureBoundary(t *testing.T) {
	module := eligibilityservice.NewInMemoryModule(nil)
	module.Store.SetPosition(ports.PositionInfo{
		PositionID: "pos-1",
		ElectionID: "election-1",
		Title:      "secretary",
	})

	module.Store.SetSnapshot(ports.MemberSnapshot{
		MemberID:          "short-tenure",
		Active:            true,
		ResidenceVerified: true,
		OriginVerified:    true,
		JoinedAt:          time.Now().Add(-364 * 24 * time.Hour),
	})
	short, err := module.Handler.CheckCandidacyHandler(context.Background(), "short-tenure", "pos-1")
	if err != nil {
		t.Fatalf("check candidacy failed: %v", err)
	}
	if short.Eligible {
		t.Fatalf("expected 364 days of tenure to be insufficient")
	}
	if !hasReasonWithPrefix(short.Reasons, ports.ReasonTenureInsufficient) {
		t.Fatalf("expected %s reason, got %v", ports.ReasonTenureInsufficient, short.Reasons)
	}

	module.Store.SetSnapshot(ports.MemberSnapshot{
		MemberID:          "full-tenure",
		Active:            true,
		ResidenceVerified: true,
		OriginVerified:    true,
		JoinedAt:          time.Now().Add(-365*24*time.Hour - time.Hour),
	})
	full, err := module.Handler.CheckCandidacyHandler(context.Background(), "full-tenure", "pos-1")
	if err != nil {
		t.Fatalf("check candidacy failed: %v", err)
	}
	if !full.Eligible {
		t.Fatalf("expected 365 days of tenure to be sufficient, got %v", full.Reasons)
	}
}

func TestCandidacyOversightConflictAndVerification(t *testing.T) {
	module := eligibilityservice.NewInMemoryModule(nil)
	module.Store.SetPosition(ports.PositionInfo{
		PositionID: "pos-1",
		ElectionID: "election-1",
		Title:      "treasurer",
	})
	module.Store.SetOversightMember("election-1", "member-1")
	module.Store.SetSnapshot(ports.MemberSnapshot{
		MemberID: "member-1",
		Active:   true,
		JoinedAt: time.Now().AddDate(-3, 0, 0),
	})

	resp, err := module.Handler.CheckCandidacyHandler(context.Background(), "member-1", "pos-1")
	if err != nil {
		t.Fatalf("check candidacy failed: %v", err)
	}
	if resp.Eligible {
		t.Fatalf("expected ineligible decision, got %+v", resp)
	}
	if !hasReasonWithPrefix(resp.Reasons, ports.ReasonCommissionConflict) {
		t.Fatalf("expected %s reason, got %v", ports.ReasonCommissionConflict, resp.Reasons)
	}
	if !hasReasonWithPrefix(resp.Reasons, ports.ReasonVerificationMissing) {
		t.Fatalf("expected %s reason, got %v", ports.ReasonVerificationMissing, resp.Reasons)
	}
}

func TestReverifyCandidacyReflectsCurrentState(t *testing.T) {
	module := eligibilityservice.NewInMemoryModule(nil)
	module.Store.SetPosition(ports.PositionInfo{
		PositionID: "pos-1",
		ElectionID: "election-1",
		Title:      "president",
	})
	module.Store.SetSnapshot(ports.MemberSnapshot{
		MemberID:          "member-1",
		Active:            true,
		ResidenceVerified: true,
		OriginVerified:    true,
		JoinedAt:          time.Now().AddDate(-2, 0, 0),
	})

	before, err := module.Handler.ReverifyCandidacyHandler(context.Background(), "member-1", "pos-1")
	if err != nil {
		t.Fatalf("reverify failed: %v", err)
	}
	if !before.Eligible {
		t.Fatalf("expected eligible before status change, got %v", before.Reasons)
	}

	// The member lapses between nomination and approval.
	module.Store.SetSnapshot(ports.MemberSnapshot{
		MemberID:          "member-1",
		Active:            false,
		StatusReasons:     []string{"dues overdue"},
		ResidenceVerified: true,
		OriginVerified:    true,
		JoinedAt:          time.Now().AddDate(-2, 0, 0),
	})
	after, err := module.Handler.ReverifyCandidacyHandler(context.Background(), "member-1", "pos-1")
	if err != nil {
		t.Fatalf("reverify failed: %v", err)
	}
	if after.Eligible {
		t.Fatalf("expected reverification to fail after the member lapsed")
	}
	if !hasReasonWithPrefix(after.Reasons, ports.ReasonNotActive) {
		t.Fatalf("expected %s reason, got %v", ports.ReasonNotActive, after.Reasons)
	}
}
