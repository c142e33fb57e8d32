package queries

import (
	"testing"
	"time"

	"amicale/contexts/governance/ballot-box/domain/entities"
)

func resolutionBallots(yes, no, abstain int) []entities.Ballot {
	ballots := make([]entities.Ballot, 0, yes+no+abstain)
	add := func(count int, choice entities.Choice) {
		for i := 0; i < count; i++ {
			ballots = append(ballots, entities.Ballot{Choice: choice})
		}
	}
	add(yes, entities.ChoiceYes)
	add(no, entities.ChoiceNo)
	add(abstain, entities.ChoiceAbstain)
	return ballots
}

func TestComputeResolutionTallyPercentages(t *testing.T) {
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	result := ComputeResolutionTally("item-1", resolutionBallots(7, 3, 2), at)

	if result.Yes != 7 || result.No != 3 || result.Abstain != 2 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.YesPct != 70 || result.NoPct != 30 {
		t.Fatalf("percentages must exclude abstentions: %+v", result)
	}
	if result.Outcome != entities.OutcomeApproved {
		t.Fatalf("expected approved, got %s", result.Outcome)
	}
}

func TestComputeResolutionTallyOutcomes(t *testing.T) {
	at := time.Now().UTC()
	cases := []struct {
		name             string
		yes, no, abstain int
		expected         entities.Outcome
	}{
		{"rejected", 2, 5, 0, entities.OutcomeRejected},
		{"tied", 2, 2, 0, entities.OutcomeTied},
		{"abstentions alone are a tie", 0, 0, 3, entities.OutcomeTied},
		{"no ballots at all", 0, 0, 0, entities.OutcomeNoQuorum},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ComputeResolutionTally("item", resolutionBallots(tc.yes, tc.no, tc.abstain), at)
			if result.Outcome != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, result.Outcome)
			}
		})
	}
}

func TestComputePositionTallyWinnerAndTies(t *testing.T) {
	position := entities.Position{
		PositionID: "pos-1",
		Method:     entities.MethodNominative,
		Candidates: []entities.Candidate{
			{CandidateID: "cand-a"},
			{CandidateID: "cand-b"},
			{CandidateID: "cand-c"},
		},
	}

	ballotsFor := func(candidates ...string) []entities.ElectionBallot {
		ballots := make([]entities.ElectionBallot, len(candidates))
		for i, candidateID := range candidates {
			ballots[i] = entities.ElectionBallot{CandidateID: candidateID}
		}
		return ballots
	}

	won := ComputePositionTally(position, ballotsFor("cand-a", "cand-a", "cand-b"))
	if won.Winner == nil || *won.Winner != "cand-a" {
		t.Fatalf("expected cand-a to win, got %+v", won)
	}
	if won.TotalBallots != 3 {
		t.Fatalf("expected 3 counted ballots, got %d", won.TotalBallots)
	}

	tied := ComputePositionTally(position, ballotsFor("cand-a", "cand-b"))
	if tied.Winner != nil {
		t.Fatalf("a top tie leaves the position unresolved, got %q", *tied.Winner)
	}

	empty := ComputePositionTally(position, nil)
	if empty.Winner != nil {
		t.Fatalf("zero ballots leave the position unresolved")
	}
	if empty.TotalBallots != 0 {
		t.Fatalf("expected zero counted ballots, got %d", empty.TotalBallots)
	}
}

func TestComputePositionTallyIgnoresStrayCandidates(t *testing.T) {
	position := entities.Position{
		PositionID: "pos-1",
		Method:     entities.MethodList,
		Candidates: []entities.Candidate{
			{CandidateID: "slate-1", Slate: []string{"member-a", "member-b"}},
		},
	}
	ballots := []entities.ElectionBallot{
		{CandidateID: "slate-1"},
		{CandidateID: "slate-withdrawn"},
	}

	result := ComputePositionTally(position, ballots)
	if result.TotalBallots != 1 {
		t.Fatalf("ballots for unknown candidates must not count, got %d", result.TotalBallots)
	}
	if result.Votes["slate-1"] != 1 {
		t.Fatalf("expected one vote for slate-1, got %+v", result.Votes)
	}
}
