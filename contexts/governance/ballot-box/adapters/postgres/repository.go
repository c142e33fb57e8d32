package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"amicale/contexts/governance/ballot-box/domain/entities"
	domainerrors "amicale/contexts/governance/ballot-box/domain/errors"
	"amicale/contexts/governance/ballot-box/ports"
	"amicale/internal/shared/events"
	"amicale/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
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

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&resolutionBallotModel{},
		&electionBallotModel{},
		&electionModel{},
		&positionModel{},
		&candidateModel{},
		&resolutionTallyModel{},
		&electionTallyModel{},
		&outboxModel{},
	)
}

func (r *Repository) InsertResolutionBallot(ctx context.Context, ballot entities.Ballot) error {
	row := resolutionBallotModel{
		ID:      strings.TrimSpace(ballot.BallotID),
		ItemID:  strings.TrimSpace(ballot.ItemID),
		VoterID: strings.TrimSpace(ballot.VoterID),
		Choice:  string(ballot.Choice),
		CastAt:  ballot.CastAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		// The (item, voter) unique index is the authoritative guard against
		// concurrent double voting.
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return r.logError("ballot_repo_insert_resolution_failed", err,
			"item_id", row.ItemID,
			"voter_id", row.VoterID,
		)
	}
	return nil
}

func (r *Repository) ListResolutionBallots(ctx context.Context, itemID string) ([]entities.Ballot, error) {
	var rows []resolutionBallotModel
	err := r.db.WithContext(ctx).
		Where("item_id = ?", strings.TrimSpace(itemID)).
		Order("cast_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ballot_repo_list_resolution_failed", err, "item_id", strings.TrimSpace(itemID))
	}
	ballots := make([]entities.Ballot, 0, len(rows))
	for _, row := range rows {
		ballots = append(ballots, row.toEntity())
	}
	return ballots, nil
}

func (r *Repository) HasResolutionBallot(ctx context.Context, itemID string, voterID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&resolutionBallotModel{}).
		Where("item_id = ? AND voter_id = ?", strings.TrimSpace(itemID), strings.TrimSpace(voterID)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("ballot_repo_has_resolution_failed", err,
			"item_id", strings.TrimSpace(itemID),
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return count > 0, nil
}

func (r *Repository) InsertElectionBallot(ctx context.Context, ballot entities.ElectionBallot) error {
	row := electionBallotModel{
		ID:          strings.TrimSpace(ballot.BallotID),
		ElectionID:  strings.TrimSpace(ballot.ElectionID),
		PositionID:  strings.TrimSpace(ballot.PositionID),
		VoterID:     strings.TrimSpace(ballot.VoterID),
		CandidateID: strings.TrimSpace(ballot.CandidateID),
		CastAt:      ballot.CastAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return r.logError("ballot_repo_insert_election_failed", err,
			"election_id", row.ElectionID,
			"position_id", row.PositionID,
			"voter_id", row.VoterID,
		)
	}
	return nil
}

func (r *Repository) ListElectionBallots(ctx context.Context, electionID string, positionID string) ([]entities.ElectionBallot, error) {
	var rows []electionBallotModel
	err := r.db.WithContext(ctx).
		Where("election_id = ? AND position_id = ?", strings.TrimSpace(electionID), strings.TrimSpace(positionID)).
		Order("cast_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ballot_repo_list_election_failed", err,
			"election_id", strings.TrimSpace(electionID),
			"position_id", strings.TrimSpace(positionID),
		)
	}
	ballots := make([]entities.ElectionBallot, 0, len(rows))
	for _, row := range rows {
		ballots = append(ballots, row.toEntity())
	}
	return ballots, nil
}

func (r *Repository) HasElectionBallot(ctx context.Context, electionID string, positionID string, voterID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&electionBallotModel{}).
		Where("election_id = ? AND position_id = ? AND voter_id = ?",
			strings.TrimSpace(electionID), strings.TrimSpace(positionID), strings.TrimSpace(voterID)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("ballot_repo_has_election_failed", err,
			"election_id", strings.TrimSpace(electionID),
			"position_id", strings.TrimSpace(positionID),
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return count > 0, nil
}

func (r *Repository) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	electionID = strings.TrimSpace(electionID)
	var electionRow electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", electionID).
		First(&electionRow).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("ballot_repo_get_election_failed", err, "election_id", electionID)
	}

	var positionRows []positionModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", electionID).
		Order("id ASC").
		Find(&positionRows).
		Error; err != nil {
		return entities.Election{}, r.logError("ballot_repo_list_positions_failed", err, "election_id", electionID)
	}

	election := entities.Election{ElectionID: electionRow.ID}
	for _, positionRow := range positionRows {
		var candidateRows []candidateModel
		if err := r.db.WithContext(ctx).
			Where("position_id = ?", positionRow.ID).
			Order("id ASC").
			Find(&candidateRows).
			Error; err != nil {
			return entities.Election{}, r.logError("ballot_repo_list_candidates_failed", err, "position_id", positionRow.ID)
		}
		position := positionRow.toEntity()
		for _, candidateRow := range candidateRows {
			position.Candidates = append(position.Candidates, candidateRow.toEntity())
		}
		election.Positions = append(election.Positions, position)
	}
	return election, nil
}

func (r *Repository) SaveResolutionTally(ctx context.Context, result entities.ResolutionResult) error {
	row := resolutionTallyModel{
		ItemID:    strings.TrimSpace(result.ItemID),
		Yes:       result.Yes,
		No:        result.No,
		Abstain:   result.Abstain,
		YesPct:    result.YesPct,
		NoPct:     result.NoPct,
		Outcome:   string(result.Outcome),
		TalliedAt: result.TalliedAt.UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"yes":        row.Yes,
			"no":         row.No,
			"abstain":    row.Abstain,
			"yes_pct":    row.YesPct,
			"no_pct":     row.NoPct,
			"outcome":    row.Outcome,
			"tallied_at": row.TalliedAt,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("ballot_repo_save_resolution_tally_failed", err, "item_id", row.ItemID)
	}
	return nil
}

func (r *Repository) SaveElectionTally(ctx context.Context, result entities.ElectionResult) error {
	positions, err := json.Marshal(result.Positions)
	if err != nil {
		return err
	}
	row := electionTallyModel{
		ElectionID: strings.TrimSpace(result.ElectionID),
		Positions:  positions,
		TalliedAt:  result.TalliedAt.UTC(),
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "election_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"positions":  row.Positions,
			"tallied_at": row.TalliedAt,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("ballot_repo_save_election_tally_failed", err, "election_id", row.ElectionID)
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
		return r.logError("ballot_repo_append_outbox_failed", err, "event_id", row.OutboxID)
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
		return nil, r.logError("ballot_repo_list_outbox_failed", err)
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
		return r.logError("ballot_repo_mark_outbox_failed", err, "message_id", strings.TrimSpace(messageID))
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "governance/ballot-box",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("ballot repository operation failed", fields...)
	return err
}

type resolutionBallotModel struct {
	ID      string    `gorm:"column:id;primaryKey"`
	ItemID  string    `gorm:"column:item_id;uniqueIndex:ux_resolution_ballot_identity"`
	VoterID string    `gorm:"column:voter_id;uniqueIndex:ux_resolution_ballot_identity"`
	Choice  string    `gorm:"column:choice"`
	CastAt  time.Time `gorm:"column:cast_at"`
}

func (resolutionBallotModel) TableName() string {
	return "resolution_ballots"
}

func (m resolutionBallotModel) toEntity() entities.Ballot {
	return entities.Ballot{
		BallotID: m.ID,
		ItemID:   m.ItemID,
		VoterID:  m.VoterID,
		Choice:   entities.Choice(m.Choice),
		CastAt:   m.CastAt.UTC(),
	}
}

type electionBallotModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ElectionID  string    `gorm:"column:election_id;uniqueIndex:ux_election_ballot_identity"`
	PositionID  string    `gorm:"column:position_id;uniqueIndex:ux_election_ballot_identity"`
	VoterID     string    `gorm:"column:voter_id;uniqueIndex:ux_election_ballot_identity"`
	CandidateID string    `gorm:"column:candidate_id"`
	CastAt      time.Time `gorm:"column:cast_at"`
}

func (electionBallotModel) TableName() string {
	return "election_ballots"
}

func (m electionBallotModel) toEntity() entities.ElectionBallot {
	return entities.ElectionBallot{
		BallotID:    m.ID,
		ElectionID:  m.ElectionID,
		PositionID:  m.PositionID,
		VoterID:     m.VoterID,
		CandidateID: m.CandidateID,
		CastAt:      m.CastAt.UTC(),
	}
}

type electionModel struct {
	ID string `gorm:"column:id;primaryKey"`
}

func (electionModel) TableName() string {
	return "elections"
}

type positionModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	ElectionID string `gorm:"column:election_id;index"`
	Title      string `gorm:"column:title"`
	Method     string `gorm:"column:method"`
	Secret     bool   `gorm:"column:secret"`
}

func (positionModel) TableName() string {
	return "election_positions"
}

func (m positionModel) toEntity() entities.Position {
	return entities.Position{
		PositionID: m.ID,
		ElectionID: m.ElectionID,
		Title:      m.Title,
		Method:     entities.BallotMethod(m.Method),
		Secret:     m.Secret,
	}
}

type candidateModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	PositionID string `gorm:"column:position_id;index"`
	Label      string `gorm:"column:label"`
	MemberID   string `gorm:"column:member_id"`
	Slate      string `gorm:"column:slate"`
}

func (candidateModel) TableName() string {
	return "election_candidates"
}

func (m candidateModel) toEntity() entities.Candidate {
	candidate := entities.Candidate{
		CandidateID: m.ID,
		Label:       m.Label,
		MemberID:    m.MemberID,
	}
	if trimmed := strings.TrimSpace(m.Slate); trimmed != "" {
		candidate.Slate = strings.Split(trimmed, ",")
	}
	return candidate
}

type resolutionTallyModel struct {
	ItemID    string    `gorm:"column:item_id;primaryKey"`
	Yes       int       `gorm:"column:yes"`
	No        int       `gorm:"column:no"`
	Abstain   int       `gorm:"column:abstain"`
	YesPct    float64   `gorm:"column:yes_pct"`
	NoPct     float64   `gorm:"column:no_pct"`
	Outcome   string    `gorm:"column:outcome"`
	TalliedAt time.Time `gorm:"column:tallied_at"`
}

func (resolutionTallyModel) TableName() string {
	return "resolution_tallies"
}

type electionTallyModel struct {
	ElectionID string    `gorm:"column:election_id;primaryKey"`
	Positions  []byte    `gorm:"column:positions;type:jsonb"`
	TalliedAt  time.Time `gorm:"column:tallied_at"`
}

func (electionTallyModel) TableName() string {
	return "election_tallies"
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
	return "ballot_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.BallotRepository = (*Repository)(nil)
var _ ports.ElectionDirectory = (*Repository)(nil)
var _ ports.TallyWriter = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxStore = (*Repository)(nil)
