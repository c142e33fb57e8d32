package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"amicale/contexts/governance/ballot-box/domain/entities"
	domainerrors "amicale/contexts/governance/ballot-box/domain/errors"
	"amicale/internal/shared/events"
	"amicale/internal/shared/outbox"

	"github.com/google/uuid"
)

// Store is the in-memory ballot store. The per-voter uniqueness invariant is
// enforced under the store lock, so two concurrent submissions from the same
// voter yield exactly one success and one ErrAlreadyVoted, matching the
// postgres unique-constraint behavior.
type Store struct {
	mu sync.Mutex

	ballots            map[string]entities.Ballot
	ballotByIdentity   map[string]string
	electionBallots    map[string]entities.ElectionBallot
	electionByIdentity map[string]string
	elections          map[string]entities.Election
	resolutionTallies  map[string]entities.ResolutionResult
	electionTallies    map[string]entities.ElectionResult
	outboxRows         map[string]outbox.Message
	outboxOrder        []string
}

func NewStore() *Store {
	return &Store{
		ballots:            make(map[string]entities.Ballot),
		ballotByIdentity:   make(map[string]string),
		electionBallots:    make(map[string]entities.ElectionBallot),
		electionByIdentity: make(map[string]string),
		elections:          make(map[string]entities.Election),
		resolutionTallies:  make(map[string]entities.ResolutionResult),
		electionTallies:    make(map[string]entities.ElectionResult),
		outboxRows:         make(map[string]outbox.Message),
	}
}

func (s *Store) SetElection(election entities.Election) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[strings.TrimSpace(election.ElectionID)] = election
}

func (s *Store) InsertResolutionBallot(_ context.Context, ballot entities.Ballot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := identityKey(ballot.ItemID, ballot.VoterID)
	if _, exists := s.ballotByIdentity[key]; exists {
		return domainerrors.ErrAlreadyVoted
	}
	s.ballots[ballot.BallotID] = ballot
	s.ballotByIdentity[key] = ballot.BallotID
	return nil
}

func (s *Store) ListResolutionBallots(_ context.Context, itemID string) ([]entities.Ballot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	itemID = strings.TrimSpace(itemID)
	var ballots []entities.Ballot
	for _, ballot := range s.ballots {
		if ballot.ItemID == itemID {
			ballots = append(ballots, ballot)
		}
	}
	sort.Slice(ballots, func(i, j int) bool { return ballots[i].CastAt.Before(ballots[j].CastAt) })
	return ballots, nil
}

func (s *Store) HasResolutionBallot(_ context.Context, itemID string, voterID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.ballotByIdentity[identityKey(itemID, voterID)]
	return exists, nil
}

func (s *Store) InsertElectionBallot(_ context.Context, ballot entities.ElectionBallot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := identityKey(ballot.ElectionID, ballot.PositionID, ballot.VoterID)
	if _, exists := s.electionByIdentity[key]; exists {
		return domainerrors.ErrAlreadyVoted
	}
	s.electionBallots[ballot.BallotID] = ballot
	s.electionByIdentity[key] = ballot.BallotID
	return nil
}

func (s *Store) ListElectionBallots(_ context.Context, electionID string, positionID string) ([]entities.ElectionBallot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	electionID = strings.TrimSpace(electionID)
	positionID = strings.TrimSpace(positionID)
	var ballots []entities.ElectionBallot
	for _, ballot := range s.electionBallots {
		if ballot.ElectionID == electionID && ballot.PositionID == positionID {
			ballots = append(ballots, ballot)
		}
	}
	sort.Slice(ballots, func(i, j int) bool { return ballots[i].CastAt.Before(ballots[j].CastAt) })
	return ballots, nil
}

func (s *Store) HasElectionBallot(_ context.Context, electionID string, positionID string, voterID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.electionByIdentity[identityKey(electionID, positionID, voterID)]
	return exists, nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (entities.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return election, nil
}

func (s *Store) SaveResolutionTally(_ context.Context, result entities.ResolutionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolutionTallies[result.ItemID] = result
	return nil
}

func (s *Store) SaveElectionTally(_ context.Context, result entities.ElectionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.electionTallies[result.ElectionID] = result
	return nil
}

// ResolutionTally returns the last published projection, if any.
func (s *Store) ResolutionTally(itemID string) (entities.ResolutionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.resolutionTallies[strings.TrimSpace(itemID)]
	return result, ok
}

func (s *Store) AppendOutbox(_ context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outboxRows[envelope.EventID] = outbox.Message{
		ID:        envelope.EventID,
		EventType: envelope.EventType,
		Payload:   payload,
		Status:    outbox.StatusPending,
	}
	s.outboxOrder = append(s.outboxOrder, envelope.EventID)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []outbox.Message
	for _, id := range s.outboxOrder {
		row := s.outboxRows[id]
		if row.Status != outbox.StatusPending {
			continue
		}
		pending = append(pending, row)
		if limit > 0 && len(pending) >= limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outboxRows[messageID]
	if !ok {
		return nil
	}
	row.Status = outbox.StatusPublished
	s.outboxRows[messageID] = row
	return nil
}

// PendingOutboxCount helps tests assert event emission.
func (s *Store) PendingOutboxCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, row := range s.outboxRows {
		if row.Status == outbox.StatusPending {
			count++
		}
	}
	return count
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func identityKey(parts ...string) string {
	trimmed := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed = append(trimmed, strings.TrimSpace(part))
	}
	return strings.Join(trimmed, "|")
}
