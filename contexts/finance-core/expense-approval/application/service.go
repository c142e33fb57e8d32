package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"amicale/contexts/finance-core/expense-approval/domain/entities"
	domainerrors "amicale/contexts/finance-core/expense-approval/domain/errors"
	"amicale/contexts/finance-core/expense-approval/ports"
	"amicale/internal/shared/bylaws"
	"amicale/internal/shared/events"

	"github.com/shopspring/decimal"
)

const sourceService = "finance-core/expense-approval"

type OpenApprovalCommand struct {
	TransactionID string
	Description   string
	Amount        decimal.Decimal
	RequiredRoles []string
}

type SignCommand struct {
	TransactionID string
	Role          string
	SignerID      string
}

// Service runs the co-signature workflow for financial transactions. A
// transaction is released only when every required role has signed; the
// signature ledger is append-only and approved is terminal.
type Service struct {
	Approvals ports.ApprovalRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (s Service) OpenApproval(ctx context.Context, cmd OpenApprovalCommand) (entities.ExpenseApproval, error) {
	cmd.TransactionID = strings.TrimSpace(cmd.TransactionID)
	if cmd.TransactionID == "" || cmd.Amount.IsNegative() {
		return entities.ExpenseApproval{}, domainerrors.ErrInvalidRequest
	}
	roles := normalizeRoles(cmd.RequiredRoles)
	if len(roles) == 0 {
		roles = bylaws.DefaultSignatureRoles()
	}

	approval := entities.ExpenseApproval{
		TransactionID: cmd.TransactionID,
		Description:   strings.TrimSpace(cmd.Description),
		Amount:        cmd.Amount,
		RequiredRoles: roles,
		OpenedAt:      s.now(),
	}
	if err := s.Approvals.InsertApproval(ctx, approval); err != nil {
		return entities.ExpenseApproval{}, err
	}

	resolveLogger(s.Logger).Info("expense approval opened",
		"event", "expense_approval_opened",
		"module", "finance-core/expense-approval",
		"layer", "application",
		"transaction_id", approval.TransactionID,
		"amount", approval.Amount.String(),
		"required_roles", strings.Join(roles, ","),
	)
	return approval, nil
}

// Sign records one role's signature. A role that has already signed gets
// ErrAlreadySigned and the original signature keeps its timestamp; signing a
// fully approved transaction gets ErrAlreadyApproved.
func (s Service) Sign(ctx context.Context, cmd SignCommand) (entities.ApprovalReport, error) {
	cmd.TransactionID = strings.TrimSpace(cmd.TransactionID)
	cmd.Role = strings.TrimSpace(cmd.Role)
	cmd.SignerID = strings.TrimSpace(cmd.SignerID)
	if cmd.TransactionID == "" || cmd.Role == "" || cmd.SignerID == "" {
		return entities.ApprovalReport{}, domainerrors.ErrInvalidRequest
	}

	approval, err := s.Approvals.GetApproval(ctx, cmd.TransactionID)
	if err != nil {
		return entities.ApprovalReport{}, err
	}
	if approval.Status() == entities.StatusApproved {
		return entities.ApprovalReport{}, domainerrors.ErrAlreadyApproved
	}
	if !approval.RequiresRole(cmd.Role) {
		return entities.ApprovalReport{}, domainerrors.ErrRoleNotRequired
	}
	if _, ok := approval.SignatureFor(cmd.Role); ok {
		return entities.ApprovalReport{}, domainerrors.ErrAlreadySigned
	}

	now := s.now()
	signature := entities.Signature{
		Role:     cmd.Role,
		SignerID: cmd.SignerID,
		SignedAt: now,
	}
	// The store's (transaction, role) uniqueness constraint settles concurrent
	// signing; a lost race surfaces as ErrAlreadySigned here too.
	if err := s.Approvals.RecordSignature(ctx, cmd.TransactionID, signature); err != nil {
		return entities.ApprovalReport{}, err
	}
	approval.Signatures = append(approval.Signatures, signature)

	logger := resolveLogger(s.Logger)
	logger.Info("expense signature recorded",
		"event", "expense_signature_recorded",
		"module", "finance-core/expense-approval",
		"layer", "application",
		"transaction_id", cmd.TransactionID,
		"role", cmd.Role,
		"signer_id", cmd.SignerID,
		"status", string(approval.Status()),
	)

	if approval.Status() == entities.StatusApproved {
		if err := s.appendApprovedEvent(ctx, approval, now); err != nil {
			return entities.ApprovalReport{}, err
		}
		logger.Info("expense fully approved",
			"event", "expense_approved",
			"module", "finance-core/expense-approval",
			"layer", "application",
			"transaction_id", cmd.TransactionID,
			"amount", approval.Amount.String(),
		)
	}
	return s.report(approval, now), nil
}

// CheckApproval answers whether the transaction may proceed and which
// signatures are still outstanding.
func (s Service) CheckApproval(ctx context.Context, transactionID string) (entities.ApprovalReport, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return entities.ApprovalReport{}, domainerrors.ErrInvalidRequest
	}
	approval, err := s.Approvals.GetApproval(ctx, transactionID)
	if err != nil {
		return entities.ApprovalReport{}, err
	}
	return s.report(approval, s.now()), nil
}

func (s Service) report(approval entities.ExpenseApproval, at time.Time) entities.ApprovalReport {
	return entities.ApprovalReport{
		TransactionID: approval.TransactionID,
		Status:        approval.Status(),
		Amount:        approval.Amount,
		SignedRoles:   approval.SignedRoles(),
		MissingRoles:  approval.MissingRoles(),
		CheckedAt:     at,
	}
}

func (s Service) appendApprovedEvent(ctx context.Context, approval entities.ExpenseApproval, occurredAt time.Time) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.newID(ctx)
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, events.Envelope{
		EventID:        eventID,
		EventType:      "expense.approved",
		SourceService:  sourceService,
		OccurredAtUTC:  occurredAt.UTC(),
		CorrelationID:  eventID,
		EntityType:     "expense_approval",
		EntityID:       approval.TransactionID,
		PayloadVersion: 1,
		Payload: map[string]any{
			"transaction_id": approval.TransactionID,
			"amount":         approval.Amount.String(),
			"signed_roles":   approval.SignedRoles(),
			"approved_at":    occurredAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) newID(ctx context.Context) (string, error) {
	if s.IDGen == nil {
		return "", domainerrors.ErrInvalidRequest
	}
	return s.IDGen.NewID(ctx)
}

func normalizeRoles(roles []string) []string {
	var normalized []string
	seen := map[string]bool{}
	for _, role := range roles {
		role = strings.TrimSpace(strings.ToLower(role))
		if role == "" || seen[role] {
			continue
		}
		seen[role] = true
		normalized = append(normalized, role)
	}
	return normalized
}
