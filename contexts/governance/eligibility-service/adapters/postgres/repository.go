package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "amicale/contexts/governance/eligibility-service/domain/errors"
	"amicale/contexts/governance/eligibility-service/ports"

	"gorm.io/gorm"
)

// Repository resolves position metadata and the oversight commission roster.
// Positions are read from the ballot store's election tables; the roster is
// owned here.
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
	return db.AutoMigrate(&oversightMemberModel{})
}

func (r *Repository) GetPosition(ctx context.Context, positionID string) (ports.PositionInfo, error) {
	positionID = strings.TrimSpace(positionID)
	var row positionRow
	err := r.db.WithContext(ctx).
		Table("election_positions").
		Select("id", "election_id", "title").
		Where("id = ?", positionID).
		Take(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.PositionInfo{}, domainerrors.ErrPositionNotFound
		}
		return ports.PositionInfo{}, r.logError("eligibility_repo_get_position_failed", err, "position_id", positionID)
	}
	return ports.PositionInfo{
		PositionID: row.ID,
		ElectionID: row.ElectionID,
		Title:      row.Title,
	}, nil
}

func (r *Repository) IsOversightMember(ctx context.Context, electionID string, memberID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&oversightMemberModel{}).
		Where("election_id = ? AND member_id = ?", strings.TrimSpace(electionID), strings.TrimSpace(memberID)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("eligibility_repo_oversight_failed", err,
			"election_id", strings.TrimSpace(electionID),
			"member_id", strings.TrimSpace(memberID),
		)
	}
	return count > 0, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "governance/eligibility-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("eligibility repository operation failed", fields...)
	return err
}

type positionRow struct {
	ID         string `gorm:"column:id"`
	ElectionID string `gorm:"column:election_id"`
	Title      string `gorm:"column:title"`
}

type oversightMemberModel struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ElectionID string    `gorm:"column:election_id;uniqueIndex:ux_oversight_member"`
	MemberID   string    `gorm:"column:member_id;uniqueIndex:ux_oversight_member"`
	AddedAt    time.Time `gorm:"column:added_at"`
}

func (oversightMemberModel) TableName() string {
	return "oversight_commission_members"
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.ElectionDirectory = (*Repository)(nil)
