package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"amicale/contexts/governance/membership-lifecycle/domain/entities"
	domainerrors "amicale/contexts/governance/membership-lifecycle/domain/errors"
	"amicale/contexts/governance/membership-lifecycle/ports"
	"amicale/internal/shared/bylaws"
)

// Service derives membership status from dues and sanction history.
// EvaluateStatus is pure with respect to the record store: same records and
// same asOf always yield the same report.
type Service struct {
	Records     ports.MemberRecords
	Projections ports.StatusProjectionWriter
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (s Service) EvaluateStatus(ctx context.Context, memberID string, asOf time.Time) (entities.StatusReport, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return entities.StatusReport{}, domainerrors.ErrInvalidRequest
	}
	if asOf.IsZero() {
		asOf = s.now()
	}
	asOf = asOf.UTC()

	member, err := s.Records.GetMember(ctx, memberID)
	if err != nil {
		return entities.StatusReport{}, err
	}

	sanctions, err := s.Records.ListSanctions(ctx, memberID)
	if err != nil {
		return entities.StatusReport{}, err
	}
	// Exclusion dominates every dues consideration.
	for _, sanction := range sanctions {
		if sanction.Kind == entities.SanctionExclusion && sanction.UnresolvedAt(asOf) {
			return entities.StatusReport{
				MemberID: member.MemberID,
				Status:   entities.StatusExpelled,
				Reasons: []string{
					fmt.Sprintf("exclusion sanction effective %s is unresolved", sanction.EffectiveAt.Format("2006-01-02")),
				},
				EvaluatedAt: asOf,
			}, nil
		}
	}

	dues, err := s.Records.ListDuesRecords(ctx, memberID)
	if err != nil {
		return entities.StatusReport{}, err
	}
	record, found := referenceDues(dues, asOf)
	if !found {
		return entities.StatusReport{
			MemberID:    member.MemberID,
			Status:      entities.StatusPending,
			Reasons:     []string{"no dues record on file"},
			EvaluatedAt: asOf,
		}, nil
	}

	report := entities.StatusReport{MemberID: member.MemberID, EvaluatedAt: asOf}
	switch {
	case record.Settled():
		report.Status = entities.StatusActive
		report.Reasons = []string{
			fmt.Sprintf("dues for %d settled (%s)", record.Year, record.Status),
		}
	case asOf.Before(record.DueDate):
		report.Status = entities.StatusPending
		report.Reasons = []string{
			fmt.Sprintf("dues for %d not yet due (due %s)", record.Year, record.DueDate.Format("2006-01-02")),
		}
	default:
		overdueDays := wholeDays(record.DueDate, asOf)
		if overdueDays > bylaws.DuesGraceDays {
			report.Status = entities.StatusLapsed
			report.Reasons = []string{
				fmt.Sprintf("dues for %d unpaid %d days past due, beyond the %d-day grace period", record.Year, overdueDays, bylaws.DuesGraceDays),
			}
		} else {
			report.Status = entities.StatusPending
			report.Reasons = []string{
				fmt.Sprintf("dues for %d unpaid, %d of %d grace days used", record.Year, overdueDays, bylaws.DuesGraceDays),
			}
		}
	}
	return report, nil
}

// PersistStatus recomputes the status and writes it through as a cached
// projection. Callers that only need the answer should use EvaluateStatus.
func (s Service) PersistStatus(ctx context.Context, memberID string, asOf time.Time) (entities.StatusReport, error) {
	report, err := s.EvaluateStatus(ctx, memberID, asOf)
	if err != nil {
		return entities.StatusReport{}, err
	}
	if s.Projections == nil {
		return report, nil
	}
	if err := s.Projections.SaveStatusProjection(ctx, report); err != nil {
		return entities.StatusReport{}, err
	}
	resolveLogger(s.Logger).Info("membership status projected",
		"event", "membership_status_projected",
		"module", "governance/membership-lifecycle",
		"layer", "application",
		"member_id", report.MemberID,
		"status", string(report.Status),
	)
	return report, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

// referenceDues picks the record governing asOf: the cycle matching the asOf
// year, else the most recent earlier cycle (renewal not yet opened).
func referenceDues(records []entities.DuesRecord, asOf time.Time) (entities.DuesRecord, bool) {
	sorted := append([]entities.DuesRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year > sorted[j].Year })
	year := asOf.Year()
	for _, record := range sorted {
		if record.Year == year {
			return record, true
		}
	}
	for _, record := range sorted {
		if record.Year < year {
			return record, true
		}
	}
	return entities.DuesRecord{}, false
}

// wholeDays counts full days elapsed from "from" to "to".
func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
