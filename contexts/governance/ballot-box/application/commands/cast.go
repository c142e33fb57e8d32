package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "amicale/contexts/governance/ballot-box/application"
	"amicale/contexts/governance/ballot-box/domain/entities"
	domainerrors "amicale/contexts/governance/ballot-box/domain/errors"
	"amicale/contexts/governance/ballot-box/ports"
)

// CastResolutionBallotCommand records one yes/no/abstain vote on an agenda
// item.
type CastResolutionBallotCommand struct {
	ItemID  string
	VoterID string
	Choice  entities.Choice
}

// CastElectionBallotCommand records one vote for a candidate (or slate) on
// one election position.
type CastElectionBallotCommand struct {
	ElectionID  string
	PositionID  string
	VoterID     string
	CandidateID string
}

// BallotUseCase orchestrates ballot writes and tally publication. The
// at-most-one-ballot guarantee lives in the store's uniqueness constraint;
// this layer maps the constraint violation to ErrAlreadyVoted and treats it
// as an expected outcome, never an I/O failure.
type BallotUseCase struct {
	Ballots   ports.BallotRepository
	Elections ports.ElectionDirectory
	Tallies   ports.TallyWriter
	Gate      ports.EligibilityGate
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc BallotUseCase) CastResolutionBallot(ctx context.Context, cmd CastResolutionBallotCommand) (entities.Ballot, error) {
	logger := application.ResolveLogger(uc.Logger)
	cmd.ItemID = strings.TrimSpace(cmd.ItemID)
	cmd.VoterID = strings.TrimSpace(cmd.VoterID)
	if cmd.ItemID == "" || cmd.VoterID == "" || !isValidChoice(cmd.Choice) {
		return entities.Ballot{}, domainerrors.ErrInvalidBallot
	}

	if err := uc.checkGate(ctx, cmd.VoterID, ports.GateTarget{
		Kind:     "agenda_item",
		TargetID: cmd.ItemID,
	}); err != nil {
		return entities.Ballot{}, err
	}

	ballotID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Ballot{}, err
	}
	now := uc.now()
	ballot := entities.Ballot{
		BallotID: ballotID,
		ItemID:   cmd.ItemID,
		VoterID:  cmd.VoterID,
		Choice:   cmd.Choice,
		CastAt:   now,
	}
	if err := uc.Ballots.InsertResolutionBallot(ctx, ballot); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyVoted) {
			logger.Info("duplicate resolution ballot refused",
				"event", "ballot_duplicate_refused",
				"module", "governance/ballot-box",
				"layer", "application",
				"item_id", cmd.ItemID,
				"voter_id", cmd.VoterID,
			)
		}
		return entities.Ballot{}, err
	}
	if err := uc.appendEvent(ctx, "ballot.cast", "resolution_ballot", ballot.BallotID, now, map[string]any{
		"item_id":  ballot.ItemID,
		"voter_id": ballot.VoterID,
		"cast_at":  now.UTC().Format(time.RFC3339),
	}); err != nil {
		return entities.Ballot{}, err
	}

	logger.Info("resolution ballot cast",
		"event", "ballot_cast",
		"module", "governance/ballot-box",
		"layer", "application",
		"ballot_id", ballot.BallotID,
		"item_id", ballot.ItemID,
		"voter_id", ballot.VoterID,
	)
	return ballot, nil
}

func (uc BallotUseCase) CastElectionBallot(ctx context.Context, cmd CastElectionBallotCommand) (entities.ElectionBallot, error) {
	logger := application.ResolveLogger(uc.Logger)
	cmd.ElectionID = strings.TrimSpace(cmd.ElectionID)
	cmd.PositionID = strings.TrimSpace(cmd.PositionID)
	cmd.VoterID = strings.TrimSpace(cmd.VoterID)
	cmd.CandidateID = strings.TrimSpace(cmd.CandidateID)
	if cmd.ElectionID == "" || cmd.PositionID == "" || cmd.VoterID == "" || cmd.CandidateID == "" {
		return entities.ElectionBallot{}, domainerrors.ErrInvalidBallot
	}

	election, err := uc.Elections.GetElection(ctx, cmd.ElectionID)
	if err != nil {
		return entities.ElectionBallot{}, err
	}
	position, found := findPosition(election, cmd.PositionID)
	if !found {
		return entities.ElectionBallot{}, domainerrors.ErrPositionNotFound
	}
	if !hasCandidate(position, cmd.CandidateID) {
		return entities.ElectionBallot{}, domainerrors.ErrUnknownCandidate
	}

	if err := uc.checkGate(ctx, cmd.VoterID, ports.GateTarget{
		Kind:     "election_position",
		TargetID: cmd.PositionID,
	}); err != nil {
		return entities.ElectionBallot{}, err
	}

	ballotID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.ElectionBallot{}, err
	}
	now := uc.now()
	ballot := entities.ElectionBallot{
		BallotID:    ballotID,
		ElectionID:  cmd.ElectionID,
		PositionID:  cmd.PositionID,
		VoterID:     cmd.VoterID,
		CandidateID: cmd.CandidateID,
		CastAt:      now,
	}
	if err := uc.Ballots.InsertElectionBallot(ctx, ballot); err != nil {
		return entities.ElectionBallot{}, err
	}
	if err := uc.appendEvent(ctx, "election_ballot.cast", "election_ballot", ballot.BallotID, now, map[string]any{
		"election_id":  ballot.ElectionID,
		"position_id":  ballot.PositionID,
		"voter_id":     ballot.VoterID,
		"candidate_id": ballot.CandidateID,
		"cast_at":      now.UTC().Format(time.RFC3339),
	}); err != nil {
		return entities.ElectionBallot{}, err
	}

	logger.Info("election ballot cast",
		"event", "election_ballot_cast",
		"module", "governance/ballot-box",
		"layer", "application",
		"ballot_id", ballot.BallotID,
		"election_id", ballot.ElectionID,
		"position_id", ballot.PositionID,
		"voter_id", ballot.VoterID,
	)
	return ballot, nil
}

// checkGate consults the eligibility checker when one is wired. A gate
// refusal citing an existing ballot surfaces as ErrAlreadyVoted so callers
// see the same outcome the store constraint would produce.
func (uc BallotUseCase) checkGate(ctx context.Context, voterID string, target ports.GateTarget) error {
	if uc.Gate == nil {
		return nil
	}
	decision, err := uc.Gate.CheckVoting(ctx, voterID, target)
	if err != nil {
		return err
	}
	if decision.Eligible {
		return nil
	}
	for _, reason := range decision.Reasons {
		if strings.HasPrefix(reason, "already_voted") {
			return domainerrors.ErrAlreadyVoted
		}
	}
	application.ResolveLogger(uc.Logger).Info("ballot refused by eligibility gate",
		"event", "ballot_gate_refused",
		"module", "governance/ballot-box",
		"layer", "application",
		"voter_id", voterID,
		"target_kind", target.Kind,
		"target_id", target.TargetID,
		"reasons", strings.Join(decision.Reasons, "; "),
	)
	return domainerrors.ErrNotEligible
}

func (uc BallotUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func isValidChoice(choice entities.Choice) bool {
	return choice == entities.ChoiceYes || choice == entities.ChoiceNo || choice == entities.ChoiceAbstain
}

func findPosition(election entities.Election, positionID string) (entities.Position, bool) {
	for _, position := range election.Positions {
		if position.PositionID == positionID {
			return position, true
		}
	}
	return entities.Position{}, false
}

func hasCandidate(position entities.Position, candidateID string) bool {
	for _, candidate := range position.Candidates {
		if candidate.CandidateID == candidateID {
			return true
		}
	}
	return false
}
