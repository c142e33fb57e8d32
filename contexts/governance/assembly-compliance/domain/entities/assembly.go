package entities

import "time"

type AssemblyType string

const (
	AssemblyOrdinary      AssemblyType = "ordinary"
	AssemblyExtraordinary AssemblyType = "extraordinary"
	AssemblyElective      AssemblyType = "elective"
)

type Assembly struct {
	AssemblyID      string
	Type            AssemblyType
	ConvocationDate time.Time
	MeetingDate     time.Time
}

// CheckResult is the uniform answer of every deadline predicate. Deadline is
// the statutory boundary date; DaysRemaining counts days until it, negative
// once the deadline has passed. Callers render "3 days left" or "overdue by
// 5 days" straight from it.
type CheckResult struct {
	Compliant     bool
	Deadline      time.Time
	DaysRemaining int
}

// QuorumResult reports an extraordinary assembly request against the
// one-quarter threshold of active members.
type QuorumResult struct {
	Compliant     bool
	Requesters    int
	Required      int
	ActiveMembers int
}

// ExecutiveSeat carries the vacancy inputs of one board seat: resignation,
// term window, and the two absence counters tracked by the secretary.
type ExecutiveSeat struct {
	SeatID           string
	PositionCode     string
	HolderID         string
	TermStart        time.Time
	TermEnd          time.Time
	Resigned         bool
	AssemblyAbsences int
	MeetingAbsences  int
}

// SeatReport enumerates every vacancy ground that applies, not just the
// first one found.
type SeatReport struct {
	SeatID  string
	Vacant  bool
	Reasons []string
}
