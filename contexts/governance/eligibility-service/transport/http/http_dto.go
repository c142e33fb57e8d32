package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ReverifyCandidacyRequest struct {
	MemberID   string `json:"member_id"`
	PositionID string `json:"position_id"`
}

type DecisionResponse struct {
	MemberID string   `json:"member_id"`
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons"`
}
