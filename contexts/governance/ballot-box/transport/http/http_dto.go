package httptransport

// ErrorResponse is the shared error envelope for ballot endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CastResolutionBallotRequest struct {
	ItemID  string `json:"item_id"`
	VoterID string `json:"voter_id"`
	Choice  string `json:"choice"`
}

type CastElectionBallotRequest struct {
	ElectionID  string `json:"election_id"`
	PositionID  string `json:"position_id"`
	VoterID     string `json:"voter_id"`
	CandidateID string `json:"candidate_id"`
}

type BallotResponse struct {
	BallotID string `json:"ballot_id"`
	CastAt   string `json:"cast_at"`
}

type ResolutionTallyResponse struct {
	ItemID    string  `json:"item_id"`
	Yes       int     `json:"yes"`
	No        int     `json:"no"`
	Abstain   int     `json:"abstain"`
	YesPct    float64 `json:"yes_pct"`
	NoPct     float64 `json:"no_pct"`
	Outcome   string  `json:"outcome"`
	TalliedAt string  `json:"tallied_at"`
}

type PositionTallyResponse struct {
	PositionID   string             `json:"position_id"`
	Method       string             `json:"method"`
	Votes        map[string]int     `json:"votes"`
	Pct          map[string]float64 `json:"pct"`
	Winner       *string            `json:"winner"`
	TotalBallots int                `json:"total_ballots"`
}

type ElectionTallyResponse struct {
	ElectionID string                           `json:"election_id"`
	Positions  map[string]PositionTallyResponse `json:"positions"`
	TalliedAt  string                           `json:"tallied_at"`
}
