// Package bylaws is the single policy table for statutory thresholds.
// Every deadline predicate and lifecycle rule reads from here, so a bylaws
// amendment is a change to this file and nothing else. The day counts mirror
// the bylaws text as written; confirm them with the association before
// changing any value.
package bylaws

const (
	// DuesGraceDays is the grace window after an unpaid due date before a
	// member loses active status. Loss occurs strictly after the window:
	// asOf - dueDate > DuesGraceDays days.
	DuesGraceDays = 90

	// ExtraordinaryNoticeDays is the minimum lead between convocation and
	// meeting date, inclusive at the boundary.
	ExtraordinaryNoticeDays = 10

	// AgendaProposalLeadDays is the minimum lead between an agenda proposal
	// and the assembly meeting date, inclusive at the boundary.
	AgendaProposalLeadDays = 14

	// ResultPublicationDays is the maximum delay between an assembly meeting
	// and the publication of its vote results.
	ResultPublicationDays = 30

	// MinTenureDays is the membership tenure required to run for office,
	// inclusive at exactly one full year.
	MinTenureDays = 365

	// QuorumDivisor: an extraordinary assembly request needs at least
	// ceil(activeMembers / QuorumDivisor) requesters.
	QuorumDivisor = 4

	// SeatAssemblyAbsenceLimit and SeatMeetingAbsenceLimit are the absence
	// counts past which an executive seat is treated as vacant.
	SeatAssemblyAbsenceLimit = 3
	SeatMeetingAbsenceLimit  = 5
)

// DefaultSignatureRoles returns the officer roles whose co-signature releases
// an expense when the opening request names none.
func DefaultSignatureRoles() []string {
	return []string{"president", "treasurer", "auditor"}
}
