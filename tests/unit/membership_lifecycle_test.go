package unit

import (
	"context"
	"testing"
	"time"

	membershiplifecycle "amicale/contexts/governance/membership-lifecycle"
	"amicale/contexts/governance/membership-lifecycle/domain/entities"

	"github.com/shopspring/decimal"
)

func lifecycleFixture() membershiplifecycle.Module {
	return membershiplifecycle.NewInMemoryModule([]entities.Member{
		{
			MemberID:          "member-1",
			Category:          entities.CategoryActive,
			ResidenceVerified: true,
			OriginVerified:    true,
			JoinedAt:          time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC),
		},
	}, nil)
}

func TestMembershipStatusGracePeriodBoundary(t *testing.T) {
	module := lifecycleFixture()
	module.Store.AddDuesRecord(entities.DuesRecord{
		MemberID:   "member-1",
		Year:       2024,
		AmountOwed: decimal.NewFromInt(30),
		DueDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:     entities.DuesPending,
	})

	within, err := module.Handler.EvaluateStatusHandler(context.Background(), "member-1",
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("evaluate inside grace failed: %v", err)
	}
	if within.Status != string(entities.StatusPending) {
		t.Fatalf("expected pending inside grace window, got %s", within.Status)
	}

	atBoundary, err := module.Handler.EvaluateStatusHandler(context.Background(), "member-1",
		time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("evaluate at boundary failed: %v", err)
	}
	if atBoundary.Status != string(entities.StatusPending) {
		t.Fatalf("expected pending at exactly 90 days, got %s", atBoundary.Status)
	}

	past, err := module.Handler.EvaluateStatusHandler(context.Background(), "member-1",
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("evaluate past grace failed: %v", err)
	}
	if past.Status != string(entities.StatusLapsed) {
		t.Fatalf("expected lapsed past grace window, got %s", past.Status)
	}
}

func TestMembershipStatusSettledDues(t *testing.T) {
	module := lifecycleFixture()
	module.Store.AddDuesRecord(entities.DuesRecord{
		MemberID:   "member-1",
		Year:       2024,
		AmountOwed: decimal.NewFromInt(30),
		AmountPaid: decimal.NewFromInt(30),
		DueDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:     entities.DuesPaid,
	})

	report, err := module.Handler.EvaluateStatusHandler(context.Background(), "member-1",
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if report.Status != string(entities.StatusActive) {
		t.Fatalf("expected active with paid dues, got %s", report.Status)
	}

	module.Store.AddDuesRecord(entities.DuesRecord{
		MemberID:   "member-1",
		Year:       2025,
		AmountOwed: decimal.NewFromInt(30),
		DueDate:    time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:     entities.DuesWaived,
	})
	waived, err := module.Handler.EvaluateStatusHandler(context.Background(), "member-1",
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("evaluate waived failed: %v", err)
	}
	if waived.Status != string(entities.StatusActive) {
		t.Fatalf("expected active with waived dues, got %s", waived.Status)
	}
}

func TestMembershipStatusExclusionDominates(t *testing.T) {
	module := lifecycleFixture()
	module.Store.AddDuesRecord(entities.DuesRecord{
		MemberID:   "member-1",
		Year:       2024,
		AmountOwed: decimal.NewFromInt(30),
		AmountPaid: decimal.NewFromInt(30),
		DueDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:     entities.DuesPaid,
	})
	module.Store.AddSanction(entities.Sanction{
		SanctionID:  "sanction-1",
		MemberID:    "member-1",
		Kind:        entities.SanctionExclusion,
		EffectiveAt: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
	})

	report, err := module.Handler.EvaluateStatusHandler(context.Background(), "member-1",
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if report.Status != string(entities.StatusExpelled) {
		t.Fatalf("expected expelled with unresolved exclusion, got %s", report.Status)
	}

	lifted := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	module.Store.AddSanction(entities.Sanction{
		SanctionID:  "sanction-2",
		MemberID:    "member-1",
		Kind:        entities.SanctionExclusion,
		EffectiveAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		LiftedAt:    &lifted,
	})
	// The lifted sanction alone must not expel; sanction-1 still does.
	again, err := module.Handler.EvaluateStatusHandler(context.Background(), "member-1",
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("re-evaluate failed: %v", err)
	}
	if again.Status != string(entities.StatusExpelled) {
		t.Fatalf("expected expelled, got %s", again.Status)
	}
}

func TestMembershipStatusEvaluationIsDeterministic(t *testing.T) {
	module := lifecycleFixture()
	module.Store.AddDuesRecord(entities.DuesRecord{
		MemberID:   "member-1",
		Year:       2024,
		AmountOwed: decimal.NewFromInt(30),
		DueDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:     entities.DuesPending,
	})
	asOf := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	first, err := module.Handler.EvaluateStatusHandler(context.Background(), "member-1", asOf)
	if err != nil {
		t.Fatalf("first evaluation failed: %v", err)
	}
	second, err := module.Handler.EvaluateStatusHandler(context.Background(), "member-1", asOf)
	if err != nil {
		t.Fatalf("second evaluation failed: %v", err)
	}
	if first.Status != second.Status || len(first.Reasons) != len(second.Reasons) {
		t.Fatalf("same inputs produced different reports: %+v vs %+v", first, second)
	}
}

func TestMembershipStatusRecomputePersistsProjection(t *testing.T) {
	module := lifecycleFixture()
	module.Store.AddDuesRecord(entities.DuesRecord{
		MemberID:   "member-1",
		Year:       2024,
		AmountOwed: decimal.NewFromInt(30),
		AmountPaid: decimal.NewFromInt(30),
		DueDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:     entities.DuesPaid,
	})
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	resp, err := module.Handler.RecomputeStatusHandler(context.Background(), "member-1", asOf)
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	projection, ok := module.Store.StatusProjection("member-1")
	if !ok {
		t.Fatalf("expected persisted status projection")
	}
	if string(projection.Status) != resp.Status {
		t.Fatalf("projection status %s does not match response %s", projection.Status, resp.Status)
	}
}
