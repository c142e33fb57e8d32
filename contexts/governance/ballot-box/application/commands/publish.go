package commands

import (
	"context"
	"strings"

	application "amicale/contexts/governance/ballot-box/application"
	"amicale/contexts/governance/ballot-box/application/queries"
	"amicale/contexts/governance/ballot-box/domain/entities"
	domainerrors "amicale/contexts/governance/ballot-box/domain/errors"
)

// PublishResolutionTally recomputes the item's tally, persists it as a
// projection and announces it. Re-publishing simply overwrites the projection
// with the same derived numbers.
func (uc BallotUseCase) PublishResolutionTally(ctx context.Context, itemID string) (entities.ResolutionResult, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return entities.ResolutionResult{}, domainerrors.ErrInvalidBallot
	}
	ballots, err := uc.Ballots.ListResolutionBallots(ctx, itemID)
	if err != nil {
		return entities.ResolutionResult{}, err
	}
	now := uc.now()
	result := queries.ComputeResolutionTally(itemID, ballots, now)
	if uc.Tallies != nil {
		if err := uc.Tallies.SaveResolutionTally(ctx, result); err != nil {
			return entities.ResolutionResult{}, err
		}
	}
	if err := uc.appendEvent(ctx, "tally.published", "resolution_tally", itemID, now, map[string]any{
		"item_id": itemID,
		"yes":     result.Yes,
		"no":      result.No,
		"abstain": result.Abstain,
		"outcome": string(result.Outcome),
	}); err != nil {
		return entities.ResolutionResult{}, err
	}
	application.ResolveLogger(uc.Logger).Info("resolution tally published",
		"event", "ballot_tally_published",
		"module", "governance/ballot-box",
		"layer", "application",
		"item_id", itemID,
		"outcome", string(result.Outcome),
	)
	return result, nil
}

// PublishElectionTally does the same for a full election.
func (uc BallotUseCase) PublishElectionTally(ctx context.Context, electionID string) (entities.ElectionResult, error) {
	electionID = strings.TrimSpace(electionID)
	if electionID == "" {
		return entities.ElectionResult{}, domainerrors.ErrInvalidBallot
	}
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.ElectionResult{}, err
	}
	now := uc.now()
	result, err := queries.BuildElectionResult(ctx, uc.Ballots, election, now)
	if err != nil {
		application.ResolveLogger(uc.Logger).Error("election tally publication rejected",
			"event", "ballot_election_publish_rejected",
			"module", "governance/ballot-box",
			"layer", "application",
			"election_id", electionID,
			"error", err.Error(),
		)
		return entities.ElectionResult{}, err
	}
	if uc.Tallies != nil {
		if err := uc.Tallies.SaveElectionTally(ctx, result); err != nil {
			return entities.ElectionResult{}, err
		}
	}
	if err := uc.appendEvent(ctx, "election_tally.published", "election_tally", electionID, now, map[string]any{
		"election_id": electionID,
		"positions":   len(result.Positions),
	}); err != nil {
		return entities.ElectionResult{}, err
	}
	application.ResolveLogger(uc.Logger).Info("election tally published",
		"event", "ballot_election_tally_published",
		"module", "governance/ballot-box",
		"layer", "application",
		"election_id", electionID,
	)
	return result, nil
}
