package errors

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid approval request")
	ErrApprovalNotFound = errors.New("expense approval not found")
	ErrApprovalExists   = errors.New("expense approval already open for transaction")
	ErrAlreadySigned    = errors.New("role has already signed this transaction")
	ErrAlreadyApproved  = errors.New("transaction is already fully approved")
	ErrRoleNotRequired  = errors.New("role is not required on this transaction")
)
