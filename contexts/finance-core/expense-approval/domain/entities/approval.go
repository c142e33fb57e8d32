package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type ApprovalStatus string

const (
	StatusPending         ApprovalStatus = "pending"
	StatusPartiallySigned ApprovalStatus = "partially_signed"
	StatusApproved        ApprovalStatus = "approved"
)

// Signature binds one required role to the officer who signed for it.
// At most one signature per (transaction, role); re-signing never moves
// the original timestamp.
type Signature struct {
	Role     string
	SignerID string
	SignedAt time.Time
}

// ExpenseApproval tracks the co-signature workflow of one financial
// transaction. The transaction is released only once every required role
// has signed; approved is terminal.
type ExpenseApproval struct {
	TransactionID string
	Description   string
	Amount        decimal.Decimal
	RequiredRoles []string
	Signatures    []Signature
	OpenedAt      time.Time
}

func (a ExpenseApproval) Status() ApprovalStatus {
	signed := len(a.SignedRoles())
	switch {
	case signed == 0:
		return StatusPending
	case signed < len(a.RequiredRoles):
		return StatusPartiallySigned
	default:
		return StatusApproved
	}
}

// SignedRoles reports the required roles a signature exists for, in the
// required-role order.
func (a ExpenseApproval) SignedRoles() []string {
	var signed []string
	for _, role := range a.RequiredRoles {
		if _, ok := a.SignatureFor(role); ok {
			signed = append(signed, role)
		}
	}
	return signed
}

func (a ExpenseApproval) MissingRoles() []string {
	var missing []string
	for _, role := range a.RequiredRoles {
		if _, ok := a.SignatureFor(role); !ok {
			missing = append(missing, role)
		}
	}
	return missing
}

func (a ExpenseApproval) RequiresRole(role string) bool {
	for _, required := range a.RequiredRoles {
		if required == role {
			return true
		}
	}
	return false
}

func (a ExpenseApproval) SignatureFor(role string) (Signature, bool) {
	for _, signature := range a.Signatures {
		if signature.Role == role {
			return signature, true
		}
	}
	return Signature{}, false
}

// ApprovalReport is the read-side answer to "may this transaction proceed".
type ApprovalReport struct {
	TransactionID string
	Status        ApprovalStatus
	Amount        decimal.Decimal
	SignedRoles   []string
	MissingRoles  []string
	CheckedAt     time.Time
}
