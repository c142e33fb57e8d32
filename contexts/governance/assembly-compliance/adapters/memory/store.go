package memory

import (
	"context"
	"sync"
	"time"

	"amicale/contexts/governance/assembly-compliance/domain/entities"
	domainerrors "amicale/contexts/governance/assembly-compliance/domain/errors"
	"amicale/contexts/governance/assembly-compliance/ports"
)

type Store struct {
	mu            sync.Mutex
	assemblies    map[string]entities.Assembly
	seats         map[string]entities.ExecutiveSeat
	activeMembers int
}

func NewStore() *Store {
	return &Store{
		assemblies: map[string]entities.Assembly{},
		seats:      map[string]entities.ExecutiveSeat{},
	}
}

func (s *Store) SetAssembly(assembly entities.Assembly) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assemblies[assembly.AssemblyID] = assembly
}

func (s *Store) SetSeat(seat entities.ExecutiveSeat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seats[seat.SeatID] = seat
}

func (s *Store) SetActiveMemberCount(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeMembers = count
}

func (s *Store) GetAssembly(_ context.Context, assemblyID string) (entities.Assembly, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	assembly, ok := s.assemblies[assemblyID]
	if !ok {
		return entities.Assembly{}, domainerrors.ErrAssemblyNotFound
	}
	return assembly, nil
}

func (s *Store) GetSeat(_ context.Context, seatID string) (entities.ExecutiveSeat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.seats[seatID]
	if !ok {
		return entities.ExecutiveSeat{}, domainerrors.ErrSeatNotFound
	}
	return seat, nil
}

func (s *Store) CountActiveMembers(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeMembers, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.AssemblyDirectory = (*Store)(nil)
var _ ports.SeatDirectory = (*Store)(nil)
var _ ports.MembershipCensus = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
