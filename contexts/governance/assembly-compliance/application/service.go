package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"amicale/contexts/governance/assembly-compliance/domain/entities"
	domainerrors "amicale/contexts/governance/assembly-compliance/domain/errors"
	"amicale/contexts/governance/assembly-compliance/ports"
)

// Service resolves records for the deadline predicates. All arithmetic stays
// in the predicates; this layer only fetches and logs.
type Service struct {
	Assemblies ports.AssemblyDirectory
	Census     ports.MembershipCensus
	Seats      ports.SeatDirectory
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (s Service) CheckAssemblyNotice(ctx context.Context, assemblyID string) (entities.CheckResult, error) {
	assembly, err := s.assembly(ctx, assemblyID)
	if err != nil {
		return entities.CheckResult{}, err
	}
	result := AssemblyNotice(assembly.ConvocationDate, assembly.MeetingDate)
	s.logCheck("assembly_notice", assemblyID, result)
	return result, nil
}

func (s Service) CheckAgendaProposal(ctx context.Context, assemblyID string, proposalDate time.Time) (entities.CheckResult, error) {
	if proposalDate.IsZero() {
		return entities.CheckResult{}, domainerrors.ErrInvalidRequest
	}
	assembly, err := s.assembly(ctx, assemblyID)
	if err != nil {
		return entities.CheckResult{}, err
	}
	result := AgendaProposal(proposalDate, assembly.MeetingDate)
	s.logCheck("agenda_proposal", assemblyID, result)
	return result, nil
}

func (s Service) CheckResultPublication(ctx context.Context, assemblyID string, publicationDate time.Time) (entities.CheckResult, error) {
	assembly, err := s.assembly(ctx, assemblyID)
	if err != nil {
		return entities.CheckResult{}, err
	}
	if publicationDate.IsZero() {
		publicationDate = s.now()
	}
	result := ResultPublication(assembly.MeetingDate, publicationDate)
	s.logCheck("result_publication", assemblyID, result)
	return result, nil
}

func (s Service) CheckDuesGrace(ctx context.Context, dueDate time.Time, asOf time.Time) (entities.CheckResult, error) {
	if dueDate.IsZero() {
		return entities.CheckResult{}, domainerrors.ErrInvalidRequest
	}
	if asOf.IsZero() {
		asOf = s.now()
	}
	return DuesGrace(dueDate, asOf), nil
}

func (s Service) CheckExtraordinaryQuorum(ctx context.Context, requesters int) (entities.QuorumResult, error) {
	if requesters < 0 {
		return entities.QuorumResult{}, domainerrors.ErrInvalidRequest
	}
	active, err := s.Census.CountActiveMembers(ctx)
	if err != nil {
		return entities.QuorumResult{}, err
	}
	result := ExtraordinaryQuorum(requesters, active)
	resolveLogger(s.Logger).Debug("extraordinary quorum checked",
		"event", "compliance_quorum_checked",
		"module", "governance/assembly-compliance",
		"layer", "application",
		"requesters", result.Requesters,
		"required", result.Required,
		"active_members", result.ActiveMembers,
		"compliant", result.Compliant,
	)
	return result, nil
}

func (s Service) CheckSeatVacancy(ctx context.Context, seatID string) (entities.SeatReport, error) {
	seatID = strings.TrimSpace(seatID)
	if seatID == "" {
		return entities.SeatReport{}, domainerrors.ErrInvalidRequest
	}
	seat, err := s.Seats.GetSeat(ctx, seatID)
	if err != nil {
		return entities.SeatReport{}, err
	}
	report := SeatVacancy(seat, s.now())
	resolveLogger(s.Logger).Debug("seat vacancy checked",
		"event", "compliance_seat_checked",
		"module", "governance/assembly-compliance",
		"layer", "application",
		"seat_id", seatID,
		"vacant", report.Vacant,
	)
	return report, nil
}

func (s Service) assembly(ctx context.Context, assemblyID string) (entities.Assembly, error) {
	assemblyID = strings.TrimSpace(assemblyID)
	if assemblyID == "" {
		return entities.Assembly{}, domainerrors.ErrInvalidRequest
	}
	return s.Assemblies.GetAssembly(ctx, assemblyID)
}

func (s Service) logCheck(check string, assemblyID string, result entities.CheckResult) {
	resolveLogger(s.Logger).Debug("deadline checked",
		"event", "compliance_deadline_checked",
		"module", "governance/assembly-compliance",
		"layer", "application",
		"check", check,
		"assembly_id", assemblyID,
		"compliant", result.Compliant,
		"days_remaining", result.DaysRemaining,
	)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
