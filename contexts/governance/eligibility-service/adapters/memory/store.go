package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domainerrors "amicale/contexts/governance/eligibility-service/domain/errors"
	"amicale/contexts/governance/eligibility-service/ports"
)

// Store seeds pre-derived snapshots and rosters for tests and local wiring.
// Production wiring replaces it with the lifecycle evaluator and the ballot
// store adapters.
type Store struct {
	mu sync.RWMutex

	snapshots map[string]ports.MemberSnapshot
	positions map[string]ports.PositionInfo
	oversight map[string]map[string]bool
	voted     map[string]bool
}

func NewStore() *Store {
	return &Store{
		snapshots: make(map[string]ports.MemberSnapshot),
		positions: make(map[string]ports.PositionInfo),
		oversight: make(map[string]map[string]bool),
		voted:     make(map[string]bool),
	}
}

func (s *Store) SetSnapshot(snapshot ports.MemberSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[strings.TrimSpace(snapshot.MemberID)] = snapshot
}

func (s *Store) SetPosition(position ports.PositionInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[strings.TrimSpace(position.PositionID)] = position
}

func (s *Store) SetOversightMember(electionID string, memberID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	electionID = strings.TrimSpace(electionID)
	if s.oversight[electionID] == nil {
		s.oversight[electionID] = make(map[string]bool)
	}
	s.oversight[electionID][strings.TrimSpace(memberID)] = true
}

func (s *Store) MarkVoted(target ports.VoteTarget, memberID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voted[votedKey(target, memberID)] = true
}

func (s *Store) GetMemberSnapshot(_ context.Context, memberID string, _ time.Time) (ports.MemberSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[strings.TrimSpace(memberID)]
	if !ok {
		return ports.MemberSnapshot{}, domainerrors.ErrMemberNotFound
	}
	return snapshot, nil
}

func (s *Store) GetPosition(_ context.Context, positionID string) (ports.PositionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	position, ok := s.positions[strings.TrimSpace(positionID)]
	if !ok {
		return ports.PositionInfo{}, domainerrors.ErrPositionNotFound
	}
	return position, nil
}

func (s *Store) IsOversightMember(_ context.Context, electionID string, memberID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roster, ok := s.oversight[strings.TrimSpace(electionID)]
	if !ok {
		return false, nil
	}
	return roster[strings.TrimSpace(memberID)], nil
}

func (s *Store) HasVoted(_ context.Context, target ports.VoteTarget, memberID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.voted[votedKey(target, memberID)], nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func votedKey(target ports.VoteTarget, memberID string) string {
	return string(target.Kind) + "|" + strings.TrimSpace(target.TargetID) + "|" + strings.TrimSpace(memberID)
}
