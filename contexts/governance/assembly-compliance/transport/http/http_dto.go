package httptransport

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CheckResponse struct {
	Check         string `json:"check"`
	Compliant     bool   `json:"compliant"`
	Deadline      string `json:"deadline"`
	DaysRemaining int    `json:"days_remaining"`
}

type QuorumResponse struct {
	Compliant     bool `json:"compliant"`
	Requesters    int  `json:"requesters"`
	Required      int  `json:"required"`
	ActiveMembers int  `json:"active_members"`
}

type SeatReportResponse struct {
	SeatID  string   `json:"seat_id"`
	Vacant  bool     `json:"vacant"`
	Reasons []string `json:"reasons"`
}
