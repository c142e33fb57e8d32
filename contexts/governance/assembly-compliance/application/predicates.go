package application

import (
	"fmt"
	"time"

	"amicale/contexts/governance/assembly-compliance/domain/entities"
	"amicale/internal/shared/bylaws"
)

// The predicates below are the only place deadline arithmetic lives. Every
// caller that needs a bylaws window check calls exactly one named predicate,
// so each rule maps to one function and one policy constant.

// AssemblyNotice checks the convocation lead: the meeting must be announced
// at least ExtraordinaryNoticeDays before it happens, inclusive at the
// boundary.
func AssemblyNotice(convocation, meeting time.Time) entities.CheckResult {
	deadline := meeting.AddDate(0, 0, -bylaws.ExtraordinaryNoticeDays)
	remaining := wholeDays(convocation, deadline)
	return entities.CheckResult{
		Compliant:     remaining >= 0,
		Deadline:      deadline,
		DaysRemaining: remaining,
	}
}

// AgendaProposal checks that an item was proposed at least
// AgendaProposalLeadDays before the assembly meeting.
func AgendaProposal(proposal, meeting time.Time) entities.CheckResult {
	deadline := meeting.AddDate(0, 0, -bylaws.AgendaProposalLeadDays)
	remaining := wholeDays(proposal, deadline)
	return entities.CheckResult{
		Compliant:     remaining >= 0,
		Deadline:      deadline,
		DaysRemaining: remaining,
	}
}

// ResultPublication checks that vote results were published within
// ResultPublicationDays of the meeting.
func ResultPublication(meeting, publication time.Time) entities.CheckResult {
	deadline := meeting.AddDate(0, 0, bylaws.ResultPublicationDays)
	remaining := wholeDays(publication, deadline)
	return entities.CheckResult{
		Compliant:     remaining >= 0,
		Deadline:      deadline,
		DaysRemaining: remaining,
	}
}

// DuesGrace reports where a member stands in the grace window of one dues
// record. Compliant means the window is still open; membership is lost
// strictly after DuesGraceDays, matching the lifecycle evaluator.
func DuesGrace(dueDate, asOf time.Time) entities.CheckResult {
	deadline := dueDate.AddDate(0, 0, bylaws.DuesGraceDays)
	remaining := wholeDays(asOf, deadline)
	return entities.CheckResult{
		Compliant:     remaining >= 0,
		Deadline:      deadline,
		DaysRemaining: remaining,
	}
}

// ExtraordinaryQuorum checks a request to convene an extraordinary assembly
// against the ceil(active / QuorumDivisor) threshold.
func ExtraordinaryQuorum(requesters, activeMembers int) entities.QuorumResult {
	required := (activeMembers + bylaws.QuorumDivisor - 1) / bylaws.QuorumDivisor
	return entities.QuorumResult{
		Compliant:     requesters >= required,
		Requesters:    requesters,
		Required:      required,
		ActiveMembers: activeMembers,
	}
}

// SeatVacancy reports every vacancy ground that applies to a seat at asOf.
func SeatVacancy(seat entities.ExecutiveSeat, asOf time.Time) entities.SeatReport {
	var reasons []string
	if seat.Resigned {
		reasons = append(reasons, "holder resigned")
	}
	if !seat.TermEnd.IsZero() && asOf.After(seat.TermEnd) {
		reasons = append(reasons, fmt.Sprintf("term expired on %s", seat.TermEnd.UTC().Format("2006-01-02")))
	}
	if seat.AssemblyAbsences > bylaws.SeatAssemblyAbsenceLimit {
		reasons = append(reasons, fmt.Sprintf("%d assembly absences exceed the limit of %d",
			seat.AssemblyAbsences, bylaws.SeatAssemblyAbsenceLimit))
	}
	if seat.MeetingAbsences > bylaws.SeatMeetingAbsenceLimit {
		reasons = append(reasons, fmt.Sprintf("%d board meeting absences exceed the limit of %d",
			seat.MeetingAbsences, bylaws.SeatMeetingAbsenceLimit))
	}
	return entities.SeatReport{
		SeatID:  seat.SeatID,
		Vacant:  len(reasons) > 0,
		Reasons: reasons,
	}
}

// wholeDays counts full days from one date to another, negative when to
// precedes from.
func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
