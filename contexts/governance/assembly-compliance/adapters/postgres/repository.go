package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"amicale/contexts/governance/assembly-compliance/domain/entities"
	domainerrors "amicale/contexts/governance/assembly-compliance/domain/errors"
	"amicale/contexts/governance/assembly-compliance/ports"

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
		&assemblyModel{},
		&executiveSeatModel{},
	)
}

func (r *Repository) GetAssembly(ctx context.Context, assemblyID string) (entities.Assembly, error) {
	assemblyID = strings.TrimSpace(assemblyID)
	var row assemblyModel
	err := r.db.WithContext(ctx).
		Where("id = ?", assemblyID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Assembly{}, domainerrors.ErrAssemblyNotFound
		}
		return entities.Assembly{}, r.logError("compliance_repo_get_assembly_failed", err, "assembly_id", assemblyID)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetSeat(ctx context.Context, seatID string) (entities.ExecutiveSeat, error) {
	seatID = strings.TrimSpace(seatID)
	var row executiveSeatModel
	err := r.db.WithContext(ctx).
		Where("id = ?", seatID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ExecutiveSeat{}, domainerrors.ErrSeatNotFound
		}
		return entities.ExecutiveSeat{}, r.logError("compliance_repo_get_seat_failed", err, "seat_id", seatID)
	}
	return row.toEntity(), nil
}

// CountActiveMembers reads the lifecycle status projection, which the
// membership module keeps current through its write-through recompute.
func (r *Repository) CountActiveMembers(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("membership_status_projections").
		Where("status = ?", "active").
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("compliance_repo_count_active_failed", err)
	}
	return int(count), nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "governance/assembly-compliance",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("compliance repository operation failed", fields...)
	return err
}

type assemblyModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	Type            string    `gorm:"column:type"`
	ConvocationDate time.Time `gorm:"column:convocation_date"`
	MeetingDate     time.Time `gorm:"column:meeting_date"`
}

func (assemblyModel) TableName() string {
	return "assemblies"
}

func (m assemblyModel) toEntity() entities.Assembly {
	return entities.Assembly{
		AssemblyID:      m.ID,
		Type:            entities.AssemblyType(m.Type),
		ConvocationDate: m.ConvocationDate.UTC(),
		MeetingDate:     m.MeetingDate.UTC(),
	}
}

type executiveSeatModel struct {
	ID               string    `gorm:"column:id;primaryKey"`
	PositionCode     string    `gorm:"column:position_code"`
	HolderID         string    `gorm:"column:holder_id"`
	TermStart        time.Time `gorm:"column:term_start"`
	TermEnd          time.Time `gorm:"column:term_end"`
	Resigned         bool      `gorm:"column:resigned"`
	AssemblyAbsences int       `gorm:"column:assembly_absences"`
	MeetingAbsences  int       `gorm:"column:meeting_absences"`
}

func (executiveSeatModel) TableName() string {
	return "executive_seats"
}

func (m executiveSeatModel) toEntity() entities.ExecutiveSeat {
	return entities.ExecutiveSeat{
		SeatID:           m.ID,
		PositionCode:     m.PositionCode,
		HolderID:         m.HolderID,
		TermStart:        m.TermStart.UTC(),
		TermEnd:          m.TermEnd.UTC(),
		Resigned:         m.Resigned,
		AssemblyAbsences: m.AssemblyAbsences,
		MeetingAbsences:  m.MeetingAbsences,
	}
}

var _ ports.AssemblyDirectory = (*Repository)(nil)
var _ ports.SeatDirectory = (*Repository)(nil)
var _ ports.MembershipCensus = (*Repository)(nil)
