package unit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	ballotbox "amicale/contexts/governance/ballot-box"
	"amicale/contexts/governance/ballot-box/adapters/memory"
	"amicale/contexts/governance/ballot-box/application/commands"
	"amicale/contexts/governance/ballot-box/domain/entities"
	domainerrors "amicale/contexts/governance/ballot-box/domain/errors"
	"amicale/contexts/governance/ballot-box/ports"
	httptransport "amicale/contexts/governance/ballot-box/transport/http"
)

func seedElection(store *memory.Store) {
	store.SetElection(entities.Election{
		ElectionID: "election-1",
		Positions: []entities.Position{
			{
				PositionID: "pos-1",
				ElectionID: "election-1",
				Title:      "president",
				Method:     entities.MethodNominative,
				Secret:     true,
				Candidates: []entities.Candidate{
					{CandidateID: "cand-a", Label: "A", MemberID: "member-a"},
					{CandidateID: "cand-b", Label: "B", MemberID: "member-b"},
				},
			},
		},
	})
}

func TestResolutionTallyExcludesAbstentions(t *testing.T) {
	module := ballotbox.NewInMemoryModule(nil)
	cast := func(voter string, choice string) {
		_, err := module.Handler.CastResolutionBallotHandler(context.Background(), httptransport.CastResolutionBallotRequest{
			ItemID:  "item-1",
			VoterID: voter,
			Choice:  choice,
		})
		if err != nil {
			t.Fatalf("cast for %s failed: %v", voter, err)
		}
	}
	for i := 0; i < 7; i++ {
		cast(fmt.Sprintf("yes-%d", i), string(entities.ChoiceYes))
	}
	for i := 0; i < 3; i++ {
		cast(fmt.Sprintf("no-%d", i), string(entities.ChoiceNo))
	}
	for i := 0; i < 2; i++ {
		cast(fmt.Sprintf("abstain-%d", i), string(entities.ChoiceAbstain))
	}

	tally, err := module.Handler.ResolutionTallyHandler(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if tally.Yes != 7 || tally.No != 3 || tally.Abstain != 2 {
		t.Fatalf("unexpected counts: %+v", tally)
	}
	if tally.YesPct != 70 || tally.NoPct != 30 {
		t.Fatalf("abstentions leaked into percentages: yes=%v no=%v", tally.YesPct, tally.NoPct)
	}
	if tally.Outcome != string(entities.OutcomeApproved) {
		t.Fatalf("expected approved, got %s", tally.Outcome)
	}
}

func TestResolutionTallyTieAndNoQuorumAreDistinct(t *testing.T) {
	module := ballotbox.NewInMemoryModule(nil)

	empty, err := module.Handler.ResolutionTallyHandler(context.Background(), "item-empty")
	if err != nil {
		t.Fatalf("tally of empty item failed: %v", err)
	}
	if empty.Outcome != string(entities.OutcomeNoQuorum) {
		t.Fatalf("expected no_quorum for zero ballots, got %s", empty.Outcome)
	}

	for i, choice := range []string{"yes", "yes", "no", "no"} {
		_, err := module.Handler.CastResolutionBallotHandler(context.Background(), httptransport.CastResolutionBallotRequest{
			ItemID:  "item-tied",
			VoterID: fmt.Sprintf("voter-%d", i),
			Choice:  choice,
		})
		if err != nil {
			t.Fatalf("cast failed: %v", err)
		}
	}
	tied, err := module.Handler.ResolutionTallyHandler(context.Background(), "item-tied")
	if err != nil {
		t.Fatalf("tally of tied item failed: %v", err)
	}
	if tied.Outcome != string(entities.OutcomeTied) {
		t.Fatalf("expected tied for a 2-2 split, got %s", tied.Outcome)
	}
}

func TestDuplicateResolutionBallotUnderConcurrency(t *testing.T) {
	module := ballotbox.NewInMemoryModule(nil)

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := module.Handler.CastResolutionBallotHandler(context.Background(), httptransport.CastResolutionBallotRequest{
				ItemID:  "item-1",
				VoterID: "voter-1",
				Choice:  string(entities.ChoiceYes),
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, refused := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domainerrors.ErrAlreadyVoted):
			refused++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || refused != attempts-1 {
		t.Fatalf("expected exactly one ballot to land, got %d accepted / %d refused", succeeded, refused)
	}

	tally, err := module.Handler.ResolutionTallyHandler(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if tally.Yes != 1 {
		t.Fatalf("expected a single counted ballot, got %d", tally.Yes)
	}
}

func TestElectionTallyTieLeavesWinnerUnresolved(t *testing.T) {
	module := ballotbox.NewInMemoryModule(nil)
	seedElection(module.Store)

	castFor := func(voter string, candidate string) {
		_, err := module.Handler.CastElectionBallotHandler(context.Background(), httptransport.CastElectionBallotRequest{
			ElectionID:  "election-1",
			PositionID:  "pos-1",
			VoterID:     voter,
			CandidateID: candidate,
		})
		if err != nil {
			t.Fatalf("cast for %s failed: %v", voter, err)
		}
	}
	castFor("voter-1", "cand-a")
	castFor("voter-2", "cand-a")
	castFor("voter-3", "cand-b")
	castFor("voter-4", "cand-b")

	tally, err := module.Handler.ElectionTallyHandler(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	position, ok := tally.Positions["pos-1"]
	if !ok {
		t.Fatalf("missing position result: %+v", tally)
	}
	if position.Winner != nil {
		t.Fatalf("expected nil winner on a tie, got %q", *position.Winner)
	}
	if position.TotalBallots != 4 {
		t.Fatalf("expected 4 counted ballots, got %d", position.TotalBallots)
	}
}

func TestElectionTallyMajorityWinner(t *testing.T) {
	module := ballotbox.NewInMemoryModule(nil)
	seedElection(module.Store)

	voters := map[string]string{
		"voter-1": "cand-a",
		"voter-2": "cand-a",
		"voter-3": "cand-b",
	}
	for voter, candidate := range voters {
		_, err := module.Handler.CastElectionBallotHandler(context.Background(), httptransport.CastElectionBallotRequest{
			ElectionID:  "election-1",
			PositionID:  "pos-1",
			VoterID:     voter,
			CandidateID: candidate,
		})
		if err != nil {
			t.Fatalf("cast failed: %v", err)
		}
	}

	tally, err := module.Handler.ElectionTallyHandler(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	position := tally.Positions["pos-1"]
	if position.Winner == nil || *position.Winner != "cand-a" {
		t.Fatalf("expected cand-a to win, got %+v", position)
	}
}

func TestElectionBallotRejectsUnknownCandidate(t *testing.T) {
	module := ballotbox.NewInMemoryModule(nil)
	seedElection(module.Store)

	_, err := module.Handler.CastElectionBallotHandler(context.Background(), httptransport.CastElectionBallotRequest{
		ElectionID:  "election-1",
		PositionID:  "pos-1",
		VoterID:     "voter-1",
		CandidateID: "cand-unknown",
	})
	if !errors.Is(err, domainerrors.ErrUnknownCandidate) {
		t.Fatalf("expected ErrUnknownCandidate, got %v", err)
	}
}

func TestElectionTallyRejectsPositionWithoutCandidates(t *testing.T) {
	module := ballotbox.NewInMemoryModule(nil)
	module.Store.SetElection(entities.Election{
		ElectionID: "election-broken",
		Positions: []entities.Position{
			{PositionID: "pos-empty", ElectionID: "election-broken", Title: "vacant", Method: entities.MethodNominative},
		},
	})

	_, err := module.Handler.ElectionTallyHandler(context.Background(), "election-broken")
	if !errors.Is(err, domainerrors.ErrInvalidElectionState) {
		t.Fatalf("expected ErrInvalidElectionState, got %v", err)
	}
}

func TestPublishResolutionTallyAppendsOutboxMessage(t *testing.T) {
	module := ballotbox.NewInMemoryModule(nil)
	_, err := module.Handler.CastResolutionBallotHandler(context.Background(), httptransport.CastResolutionBallotRequest{
		ItemID:  "item-1",
		VoterID: "voter-1",
		Choice:  string(entities.ChoiceYes),
	})
	if err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	before := module.Store.PendingOutboxCount()

	published, err := module.Handler.PublishResolutionTallyHandler(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if published.Outcome != string(entities.OutcomeApproved) {
		t.Fatalf("expected approved outcome, got %s", published.Outcome)
	}
	if module.Store.PendingOutboxCount() != before+1 {
		t.Fatalf("expected publication to append one outbox message")
	}
	if _, ok := module.Store.ResolutionTally("item-1"); !ok {
		t.Fatalf("expected published tally to be persisted")
	}
}

// stubGate refuses every voter with a fixed reason list.
type stubGate struct {
	reasons []string
}

func (g stubGate) CheckVoting(context.Context, string, ports.GateTarget) (ports.GateDecision, error) {
	if len(g.reasons) == 0 {
		return ports.GateDecision{Eligible: true}, nil
	}
	return ports.GateDecision{Eligible: false, Reasons: g.reasons}, nil
}

func TestGateRefusalsMapToDomainErrors(t *testing.T) {
	store := memory.NewStore()
	useCase := commands.BallotUseCase{
		Ballots:   store,
		Elections: store,
		Tallies:   store,
		Gate:      stubGate{reasons: []string{"already_voted: item-1"}},
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
	}
	_, err := useCase.CastResolutionBallot(context.Background(), commands.CastResolutionBallotCommand{
		ItemID:  "item-1",
		VoterID: "voter-1",
		Choice:  entities.ChoiceYes,
	})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected an already_voted refusal to map to ErrAlreadyVoted, got %v", err)
	}

	useCase.Gate = stubGate{reasons: []string{"not_active: dues overdue"}}
	_, err = useCase.CastResolutionBallot(context.Background(), commands.CastResolutionBallotCommand{
		ItemID:  "item-1",
		VoterID: "voter-2",
		Choice:  entities.ChoiceYes,
	})
	if !errors.Is(err, domainerrors.ErrNotEligible) {
		t.Fatalf("expected an ineligible refusal to map to ErrNotEligible, got %v", err)
	}
}
