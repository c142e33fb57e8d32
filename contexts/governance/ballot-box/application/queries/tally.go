package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "amicale/contexts/governance/ballot-box/application"
	"amicale/contexts/governance/ballot-box/domain/entities"
	domainerrors "amicale/contexts/governance/ballot-box/domain/errors"
	"amicale/contexts/governance/ballot-box/ports"
)

// TallyUseCase aggregates ballots into results. Tallying is read-only and
// idempotent; it never needs to be serialized against itself, only against
// ballot insertion at the store.
type TallyUseCase struct {
	Ballots   ports.BallotRepository
	Elections ports.ElectionDirectory
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc TallyUseCase) TallyResolution(ctx context.Context, itemID string) (entities.ResolutionResult, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return entities.ResolutionResult{}, domainerrors.ErrInvalidBallot
	}
	ballots, err := uc.Ballots.ListResolutionBallots(ctx, itemID)
	if err != nil {
		return entities.ResolutionResult{}, err
	}
	result := ComputeResolutionTally(itemID, ballots, uc.now())
	application.ResolveLogger(uc.Logger).Debug("resolution tallied",
		"event", "ballot_resolution_tallied",
		"module", "governance/ballot-box",
		"layer", "application",
		"item_id", itemID,
		"yes", result.Yes,
		"no", result.No,
		"abstain", result.Abstain,
		"outcome", string(result.Outcome),
	)
	return result, nil
}

func (uc TallyUseCase) TallyElection(ctx context.Context, electionID string) (entities.ElectionResult, error) {
	electionID = strings.TrimSpace(electionID)
	if electionID == "" {
		return entities.ElectionResult{}, domainerrors.ErrInvalidBallot
	}
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.ElectionResult{}, err
	}
	result, err := BuildElectionResult(ctx, uc.Ballots, election, uc.now())
	if err != nil {
		// A position without candidates is a configuration defect, not a
		// voter mistake. Log it; retrying cannot fix the setup.
		application.ResolveLogger(uc.Logger).Error("election tally rejected",
			"event", "ballot_election_tally_rejected",
			"module", "governance/ballot-box",
			"layer", "application",
			"election_id", electionID,
			"error", err.Error(),
		)
		return entities.ElectionResult{}, err
	}
	return result, nil
}

func (uc TallyUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

// ComputeResolutionTally is the pure aggregation step. Percentages are taken
// over the non-abstaining total: 7 yes, 3 no, 2 abstain reads 70%/30%.
func ComputeResolutionTally(itemID string, ballots []entities.Ballot, at time.Time) entities.ResolutionResult {
	result := entities.ResolutionResult{ItemID: itemID, TalliedAt: at}
	for _, ballot := range ballots {
		switch ballot.Choice {
		case entities.ChoiceYes:
			result.Yes++
		case entities.ChoiceNo:
			result.No++
		case entities.ChoiceAbstain:
			result.Abstain++
		}
	}
	expressed := result.Yes + result.No
	if expressed > 0 {
		result.YesPct = float64(result.Yes) * 100 / float64(expressed)
		result.NoPct = float64(result.No) * 100 / float64(expressed)
	}
	switch {
	case result.Yes+result.No+result.Abstain == 0:
		result.Outcome = entities.OutcomeNoQuorum
	case result.Yes > result.No:
		result.Outcome = entities.OutcomeApproved
	case result.No > result.Yes:
		result.Outcome = entities.OutcomeRejected
	default:
		result.Outcome = entities.OutcomeTied
	}
	return result
}

// BuildElectionResult tallies every position of an election. It is shared by
// the read path and the publish command so both apply identical rules.
func BuildElectionResult(
	ctx context.Context,
	repo ports.BallotRepository,
	election entities.Election,
	at time.Time,
) (entities.ElectionResult, error) {
	result := entities.ElectionResult{
		ElectionID: election.ElectionID,
		Positions:  make(map[string]entities.PositionResult, len(election.Positions)),
		TalliedAt:  at,
	}
	for _, position := range election.Positions {
		if len(position.Candidates) == 0 {
			return entities.ElectionResult{}, domainerrors.ErrInvalidElectionState
		}
		ballots, err := repo.ListElectionBallots(ctx, election.ElectionID, position.PositionID)
		if err != nil {
			return entities.ElectionResult{}, err
		}
		result.Positions[position.PositionID] = ComputePositionTally(position, ballots)
	}
	return result, nil
}

// ComputePositionTally applies strict plurality. The ballot method is
// dispatched here once: list and nominative positions count identically, the
// method tag tells callers whether the winner is a slate or an individual.
// Percentages are over ballots cast for the position, not the electorate.
func ComputePositionTally(position entities.Position, ballots []entities.ElectionBallot) entities.PositionResult {
	votes := make(map[string]int, len(position.Candidates))
	for _, candidate := range position.Candidates {
		votes[candidate.CandidateID] = 0
	}
	total := 0
	for _, ballot := range ballots {
		if _, ok := votes[ballot.CandidateID]; !ok {
			continue
		}
		votes[ballot.CandidateID]++
		total++
	}

	pct := make(map[string]float64, len(votes))
	for candidateID, count := range votes {
		if total > 0 {
			pct[candidateID] = float64(count) * 100 / float64(total)
		} else {
			pct[candidateID] = 0
		}
	}

	var winner *string
	best, runnerUp := -1, -1
	for candidateID, count := range votes {
		switch {
		case count > best:
			runnerUp = best
			best = count
			id := candidateID
			winner = &id
		case count == best:
			runnerUp = count
		case count > runnerUp:
			runnerUp = count
		}
	}
	// Strict plurality only: a tie at the top, or zero ballots, leaves the
	// position unresolved.
	if best <= 0 || best == runnerUp {
		winner = nil
	}

	return entities.PositionResult{
		PositionID:   position.PositionID,
		Method:       position.Method,
		Votes:        votes,
		Pct:          pct,
		Winner:       winner,
		TotalBallots: total,
	}
}
