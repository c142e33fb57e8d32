package httptransport

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OpenApprovalRequest struct {
	TransactionID string   `json:"transaction_id"`
	Description   string   `json:"description"`
	Amount        string   `json:"amount"`
	RequiredRoles []string `json:"required_roles,omitempty"`
}

type SignRequest struct {
	TransactionID string `json:"transaction_id"`
	Role          string `json:"role"`
	SignerID      string `json:"signer_id"`
}

type ApprovalResponse struct {
	TransactionID string   `json:"transaction_id"`
	Status        string   `json:"status"`
	Amount        string   `json:"amount"`
	SignedRoles   []string `json:"signed_roles"`
	MissingRoles  []string `json:"missing_roles"`
	CheckedAt     string   `json:"checked_at"`
}
