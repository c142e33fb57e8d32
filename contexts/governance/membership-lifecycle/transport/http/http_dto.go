package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	MemberID    string   `json:"member_id"`
	Status      string   `json:"status"`
	Reasons     []string `json:"reasons"`
	EvaluatedAt string   `json:"evaluated_at"`
}
