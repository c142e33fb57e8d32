package entities

import "time"

type Choice string

const (
	ChoiceYes     Choice = "yes"
	ChoiceNo      Choice = "no"
	ChoiceAbstain Choice = "abstain"
)

// Ballot is one resolution vote on one agenda item. At most one ballot may
// exist per (item, voter); the store enforces that, not the tally.
type Ballot struct {
	BallotID string
	ItemID   string
	VoterID  string
	Choice   Choice
	CastAt   time.Time
}

// ElectionBallot selects one candidate (or one slate, for list positions)
// for one position. Same per-voter uniqueness as Ballot.
type ElectionBallot struct {
	BallotID    string
	ElectionID  string
	PositionID  string
	VoterID     string
	CandidateID string
	CastAt      time.Time
}

type BallotMethod string

const (
	MethodList       BallotMethod = "list"
	MethodNominative BallotMethod = "nominative"
)

// Candidate is an individual for nominative positions, or an ordered slate
// of member references for list positions (linked offices run together).
type Candidate struct {
	CandidateID string
	Label       string
	MemberID    string
	Slate       []string
}

type Position struct {
	PositionID string
	ElectionID string
	Title      string
	Method     BallotMethod
	Secret     bool
	Candidates []Candidate
}

type Election struct {
	ElectionID string
	Positions  []Position
}

type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
	OutcomeTied     Outcome = "tied"
	// OutcomeNoQuorum marks a tally over zero ballots. It is not a tie: a
	// tie is an equal nonzero split, no quorum is the absence of any vote.
	OutcomeNoQuorum Outcome = "no_quorum"
)

// ResolutionResult is the tally of one agenda item. Percentages are computed
// over yes+no only; abstentions never enter the majority denominator.
type ResolutionResult struct {
	ItemID    string
	Yes       int
	No        int
	Abstain   int
	YesPct    float64
	NoPct     float64
	Outcome   Outcome
	TalliedAt time.Time
}

// PositionResult is the tally of one election position. Winner is nil on a
// tie; the engine never breaks a tie on its own.
type PositionResult struct {
	PositionID   string
	Method       BallotMethod
	Votes        map[string]int
	Pct          map[string]float64
	Winner       *string
	TotalBallots int
}

type ElectionResult struct {
	ElectionID string
	Positions  map[string]PositionResult
	TalliedAt  time.Time
}
