package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"amicale/contexts/governance/ballot-box/domain/entities"
	domainerrors "amicale/contexts/governance/ballot-box/domain/errors"
	"amicale/internal/shared/events"
)

func TestStoreRefusesDuplicateResolutionBallot(t *testing.T) {
	store := NewStore()
	ballot := entities.Ballot{
		BallotID: "ballot-1",
		ItemID:   "item-1",
		VoterID:  "voter-1",
		Choice:   entities.ChoiceYes,
		CastAt:   time.Now().UTC(),
	}
	if err := store.InsertResolutionBallot(context.Background(), ballot); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	dup := ballot
	dup.BallotID = "ballot-2"
	dup.Choice = entities.ChoiceNo
	if err := store.InsertResolutionBallot(context.Background(), dup); !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}

	ballots, err := store.ListResolutionBallots(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(ballots) != 1 || ballots[0].Choice != entities.ChoiceYes {
		t.Fatalf("the first ballot must stand: %+v", ballots)
	}
}

func TestStoreScopesElectionBallotsToPosition(t *testing.T) {
	store := NewStore()
	insert := func(position, voter string) {
		err := store.InsertElectionBallot(context.Background(), entities.ElectionBallot{
			BallotID:    position + "/" + voter,
			ElectionID:  "election-1",
			PositionID:  position,
			VoterID:     voter,
			CandidateID: "cand-a",
		})
		if err != nil {
			t.Fatalf("insert for %s failed: %v", voter, err)
		}
	}
	insert("pos-1", "voter-1")
	insert("pos-2", "voter-1")
	insert("pos-1", "voter-2")

	ballots, err := store.ListElectionBallots(context.Background(), "election-1", "pos-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(ballots) != 2 {
		t.Fatalf("expected 2 ballots on pos-1, got %d", len(ballots))
	}

	// The same voter may vote once per position, not once per election.
	err = store.InsertElectionBallot(context.Background(), entities.ElectionBallot{
		BallotID:    "dup",
		ElectionID:  "election-1",
		PositionID:  "pos-1",
		VoterID:     "voter-1",
		CandidateID: "cand-a",
	})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted on the same position, got %v", err)
	}
}

func TestStoreOutboxLifecycle(t *testing.T) {
	store := NewStore()
	envelope := events.Envelope{
		EventID:   "event-1",
		EventType: "tally.published",
	}
	if err := store.AppendOutbox(context.Background(), envelope); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "event-1" {
		t.Fatalf("expected the appended message to be pending: %+v", pending)
	}

	if err := store.MarkOutboxPublished(context.Background(), "event-1"); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, err = store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("published messages must leave the pending set: %+v", pending)
	}
}
