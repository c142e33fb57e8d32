package ports

import (
	"context"
	"time"

	"amicale/contexts/finance-core/expense-approval/domain/entities"
	"amicale/internal/shared/events"
	"amicale/internal/shared/outbox"
)

// ApprovalRepository persists approvals and their signatures.
// RecordSignature must enforce at most one signature per (transaction, role)
// and return ErrAlreadySigned on a duplicate, including under concurrent
// signing.
type ApprovalRepository interface {
	InsertApproval(ctx context.Context, approval entities.ExpenseApproval) error
	GetApproval(ctx context.Context, transactionID string) (entities.ExpenseApproval, error)
	RecordSignature(ctx context.Context, transactionID string, signature entities.Signature) error
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
}

type OutboxStore interface {
	outbox.Source
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
