package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"amicale/contexts/governance/membership-lifecycle/domain/entities"
	domainerrors "amicale/contexts/governance/membership-lifecycle/domain/errors"
	"amicale/contexts/governance/membership-lifecycle/ports"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

// AutoMigrate creates the record tables. Used by local/dev bootstrap only;
// production schemas are managed out of band.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&memberModel{},
		&duesRecordModel{},
		&sanctionModel{},
		&statusProjectionModel{},
	)
}

func (r *Repository) GetMember(ctx context.Context, memberID string) (entities.Member, error) {
	var row memberModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(memberID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Member{}, domainerrors.ErrMemberNotFound
		}
		return entities.Member{}, r.logError("membership_repo_get_member_failed", err, "member_id", strings.TrimSpace(memberID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListDuesRecords(ctx context.Context, memberID string) ([]entities.DuesRecord, error) {
	var rows []duesRecordModel
	err := r.db.WithContext(ctx).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		Order("year ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("membership_repo_list_dues_failed", err, "member_id", strings.TrimSpace(memberID))
	}
	records := make([]entities.DuesRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toEntity())
	}
	return records, nil
}

func (r *Repository) ListSanctions(ctx context.Context, memberID string) ([]entities.Sanction, error) {
	var rows []sanctionModel
	err := r.db.WithContext(ctx).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		Order("effective_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("membership_repo_list_sanctions_failed", err, "member_id", strings.TrimSpace(memberID))
	}
	sanctions := make([]entities.Sanction, 0, len(rows))
	for _, row := range rows {
		sanctions = append(sanctions, row.toEntity())
	}
	return sanctions, nil
}

func (r *Repository) SaveStatusProjection(ctx context.Context, report entities.StatusReport) error {
	row := statusProjectionModel{
		MemberID:    strings.TrimSpace(report.MemberID),
		Status:      string(report.Status),
		Reasons:     strings.Join(report.Reasons, "\n"),
		EvaluatedAt: report.EvaluatedAt.UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "member_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"status":       row.Status,
			"reasons":      row.Reasons,
			"evaluated_at": row.EvaluatedAt,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("membership_repo_save_projection_failed", err, "member_id", row.MemberID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "governance/membership-lifecycle",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("membership repository operation failed", fields...)
	return err
}

type memberModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	Category          string    `gorm:"column:category"`
	ResidenceVerified bool      `gorm:"column:residence_verified"`
	OriginVerified    bool      `gorm:"column:origin_verified"`
	JoinedAt          time.Time `gorm:"column:joined_at"`
}

func (memberModel) TableName() string {
	return "members"
}

func (m memberModel) toEntity() entities.Member {
	return entities.Member{
		MemberID:          m.ID,
		Category:          entities.MemberCategory(m.Category),
		ResidenceVerified: m.ResidenceVerified,
		OriginVerified:    m.OriginVerified,
		JoinedAt:          m.JoinedAt.UTC(),
	}
}

type duesRecordModel struct {
	MemberID   string          `gorm:"column:member_id;primaryKey"`
	Year       int             `gorm:"column:year;primaryKey"`
	AmountOwed decimal.Decimal `gorm:"column:amount_owed;type:numeric(12,2)"`
	AmountPaid decimal.Decimal `gorm:"column:amount_paid;type:numeric(12,2)"`
	DueDate    time.Time       `gorm:"column:due_date"`
	Status     string          `gorm:"column:status"`
}

func (duesRecordModel) TableName() string {
	return "dues_records"
}

func (m duesRecordModel) toEntity() entities.DuesRecord {
	return entities.DuesRecord{
		MemberID:   m.MemberID,
		Year:       m.Year,
		AmountOwed: m.AmountOwed,
		AmountPaid: m.AmountPaid,
		DueDate:    m.DueDate.UTC(),
		Status:     entities.DuesStatus(m.Status),
	}
}

type sanctionModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	MemberID    string     `gorm:"column:member_id;index"`
	Kind        string     `gorm:"column:kind"`
	EffectiveAt time.Time  `gorm:"column:effective_at"`
	LiftedAt    *time.Time `gorm:"column:lifted_at"`
}

func (sanctionModel) TableName() string {
	return "disciplinary_sanctions"
}

func (m sanctionModel) toEntity() entities.Sanction {
	return entities.Sanction{
		SanctionID:  m.ID,
		MemberID:    m.MemberID,
		Kind:        entities.SanctionKind(m.Kind),
		EffectiveAt: m.EffectiveAt.UTC(),
		LiftedAt:    normalizeOptionalTime(m.LiftedAt),
	}
}

type statusProjectionModel struct {
	MemberID    string    `gorm:"column:member_id;primaryKey"`
	Status      string    `gorm:"column:status"`
	Reasons     string    `gorm:"column:reasons"`
	EvaluatedAt time.Time `gorm:"column:evaluated_at"`
}

func (statusProjectionModel) TableName() string {
	return "membership_status_projections"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

var _ ports.MemberRecords = (*Repository)(nil)
var _ ports.StatusProjectionWriter = (*Repository)(nil)
