package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"amicale/contexts/governance/membership-lifecycle/domain/entities"
	domainerrors "amicale/contexts/governance/membership-lifecycle/domain/errors"
)

// Store is the in-memory record store used by tests and local wiring.
type Store struct {
	mu sync.RWMutex

	members     map[string]entities.Member
	dues        map[string][]entities.DuesRecord
	sanctions   map[string][]entities.Sanction
	projections map[string]entities.StatusReport
}

func NewStore(seed []entities.Member) *Store {
	members := make(map[string]entities.Member, len(seed))
	for _, member := range seed {
		members[member.MemberID] = member
	}
	return &Store{
		members:     members,
		dues:        make(map[string][]entities.DuesRecord),
		sanctions:   make(map[string][]entities.Sanction),
		projections: make(map[string]entities.StatusReport),
	}
}

func (s *Store) SetMember(member entities.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[strings.TrimSpace(member.MemberID)] = member
}

func (s *Store) AddDuesRecord(record entities.DuesRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	memberID := strings.TrimSpace(record.MemberID)
	s.dues[memberID] = append(s.dues[memberID], record)
}

func (s *Store) AddSanction(sanction entities.Sanction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	memberID := strings.TrimSpace(sanction.MemberID)
	s.sanctions[memberID] = append(s.sanctions[memberID], sanction)
}

func (s *Store) GetMember(_ context.Context, memberID string) (entities.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	member, ok := s.members[strings.TrimSpace(memberID)]
	if !ok {
		return entities.Member{}, domainerrors.ErrMemberNotFound
	}
	return member, nil
}

func (s *Store) ListDuesRecords(_ context.Context, memberID string) ([]entities.DuesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.DuesRecord(nil), s.dues[strings.TrimSpace(memberID)]...), nil
}

func (s *Store) ListSanctions(_ context.Context, memberID string) ([]entities.Sanction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Sanction(nil), s.sanctions[strings.TrimSpace(memberID)]...), nil
}

func (s *Store) SaveStatusProjection(_ context.Context, report entities.StatusReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projections[strings.TrimSpace(report.MemberID)] = report
	return nil
}

// StatusProjection returns the last written projection, if any.
func (s *Store) StatusProjection(memberID string) (entities.StatusReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.projections[strings.TrimSpace(memberID)]
	return report, ok
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
