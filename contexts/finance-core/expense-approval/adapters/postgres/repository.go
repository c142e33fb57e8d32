package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"amicale/contexts/finance-core/expense-approval/domain/entities"
	domainerrors "amicale/contexts/finance-core/expense-approval/domain/errors"
	"amicale/contexts/finance-core/expense-approval/ports"
	"amicale/internal/shared/events"
	"amicale/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&approvalModel{},
		&signatureModel{},
		&outboxModel{},
	)
}

func (r *Repository) InsertApproval(ctx context.Context, approval entities.ExpenseApproval) error {
	row := approvalModel{
		TransactionID: strings.TrimSpace(approval.TransactionID),
		Description:   approval.Description,
		Amount:        approval.Amount,
		RequiredRoles: strings.Join(approval.RequiredRoles, ","),
		OpenedAt:      approval.OpenedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrApprovalExists
		}
		return r.logError("approval_repo_insert_failed", err, "transaction_id", row.TransactionID)
	}
	return nil
}

func (r *Repository) GetApproval(ctx context.Context, transactionID string) (entities.ExpenseApproval, error) {
	transactionID = strings.TrimSpace(transactionID)
	var row approvalModel
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ExpenseApproval{}, domainerrors.ErrApprovalNotFound
		}
		return entities.ExpenseApproval{}, r.logError("approval_repo_get_failed", err, "transaction_id", transactionID)
	}

	var signatureRows []signatureModel
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("signed_at ASC").
		Find(&signatureRows).
		Error; err != nil {
		return entities.ExpenseApproval{}, r.logError("approval_repo_list_signatures_failed", err, "transaction_id", transactionID)
	}

	approval := row.toEntity()
	for _, signatureRow := range signatureRows {
		approval.Signatures = append(approval.Signatures, signatureRow.toEntity())
	}
	return approval, nil
}

func (r *Repository) RecordSignature(ctx context.Context, transactionID string, signature entities.Signature) error {
	row := signatureModel{
		TransactionID: strings.TrimSpace(transactionID),
		Role:          signature.Role,
		SignerID:      signature.SignerID,
		SignedAt:      signature.SignedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		// The (transaction, role) unique index keeps a lost signing race from
		// overwriting the first signature's timestamp.
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadySigned
		}
		return r.logError("approval_repo_record_signature_failed", err,
			"transaction_id", row.TransactionID,
			"role", row.Role,
		)
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:  strings.TrimSpace(envelope.EventID),
		EventType: strings.TrimSpace(envelope.EventType),
		Payload:   payload,
		Status:    outbox.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("approval_repo_append_outbox_failed", err, "event_id", row.OutboxID)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("approval_repo_list_outbox_failed", err)
	}
	messages := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, outbox.Message{
			ID:        row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			Status:    row.Status,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, messageID string) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(messageID)).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": &now,
		}).
		Error
	if err != nil {
		return r.logError("approval_repo_mark_outbox_failed", err, "message_id", strings.TrimSpace(messageID))
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "finance-core/expense-approval",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("approval repository operation failed", fields...)
	return err
}

type approvalModel struct {
	TransactionID string          `gorm:"column:transaction_id;primaryKey"`
	Description   string          `gorm:"column:description"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2)"`
	RequiredRoles string          `gorm:"column:required_roles"`
	OpenedAt      time.Time       `gorm:"column:opened_at"`
}

func (approvalModel) TableName() string {
	return "expense_approvals"
}

func (m approvalModel) toEntity() entities.ExpenseApproval {
	approval := entities.ExpenseApproval{
		TransactionID: m.TransactionID,
		Description:   m.Description,
		Amount:        m.Amount,
		OpenedAt:      m.OpenedAt.UTC(),
	}
	if trimmed := strings.TrimSpace(m.RequiredRoles); trimmed != "" {
		approval.RequiredRoles = strings.Split(trimmed, ",")
	}
	return approval
}

type signatureModel struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement"`
	TransactionID string    `gorm:"column:transaction_id;uniqueIndex:ux_signature_identity"`
	Role          string    `gorm:"column:role;uniqueIndex:ux_signature_identity"`
	SignerID      string    `gorm:"column:signer_id"`
	SignedAt      time.Time `gorm:"column:signed_at"`
}

func (signatureModel) TableName() string {
	return "expense_signatures"
}

func (m signatureModel) toEntity() entities.Signature {
	return entities.Signature{
		Role:     m.Role,
		SignerID: m.SignerID,
		SignedAt: m.SignedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "expense_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ApprovalRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxStore = (*Repository)(nil)
