package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"amicale/contexts/governance/ballot-box/application/commands"
	"amicale/contexts/governance/ballot-box/application/queries"
	"amicale/contexts/governance/ballot-box/domain/entities"
	httptransport "amicale/contexts/governance/ballot-box/transport/http"
)

type Handler struct {
	Ballots commands.BallotUseCase
	Tallies queries.TallyUseCase
	Logger  *slog.Logger
}

func (h Handler) CastResolutionBallotHandler(ctx context.Context, req httptransport.CastResolutionBallotRequest) (httptransport.BallotResponse, error) {
	ballot, err := h.Ballots.CastResolutionBallot(ctx, commands.CastResolutionBallotCommand{
		ItemID:  req.ItemID,
		VoterID: req.VoterID,
		Choice:  entities.Choice(req.Choice),
	})
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	return httptransport.BallotResponse{
		BallotID: ballot.BallotID,
		CastAt:   ballot.CastAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) CastElectionBallotHandler(ctx context.Context, req httptransport.CastElectionBallotRequest) (httptransport.BallotResponse, error) {
	ballot, err := h.Ballots.CastElectionBallot(ctx, commands.CastElectionBallotCommand{
		ElectionID:  req.ElectionID,
		PositionID:  req.PositionID,
		VoterID:     req.VoterID,
		CandidateID: req.CandidateID,
	})
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	return httptransport.BallotResponse{
		BallotID: ballot.BallotID,
		CastAt:   ballot.CastAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) ResolutionTallyHandler(ctx context.Context, itemID string) (httptransport.ResolutionTallyResponse, error) {
	result, err := h.Tallies.TallyResolution(ctx, itemID)
	if err != nil {
		return httptransport.ResolutionTallyResponse{}, err
	}
	return resolutionTallyResponse(result), nil
}

func (h Handler) ElectionTallyHandler(ctx context.Context, electionID string) (httptransport.ElectionTallyResponse, error) {
	result, err := h.Tallies.TallyElection(ctx, electionID)
	if err != nil {
		return httptransport.ElectionTallyResponse{}, err
	}
	return electionTallyResponse(result), nil
}

func (h Handler) PublishResolutionTallyHandler(ctx context.Context, itemID string) (httptransport.ResolutionTallyResponse, error) {
	result, err := h.Ballots.PublishResolutionTally(ctx, itemID)
	if err != nil {
		return httptransport.ResolutionTallyResponse{}, err
	}
	return resolutionTallyResponse(result), nil
}

func (h Handler) PublishElectionTallyHandler(ctx context.Context, electionID string) (httptransport.ElectionTallyResponse, error) {
	result, err := h.Ballots.PublishElectionTally(ctx, electionID)
	if err != nil {
		return httptransport.ElectionTallyResponse{}, err
	}
	return electionTallyResponse(result), nil
}

func resolutionTallyResponse(result entities.ResolutionResult) httptransport.ResolutionTallyResponse {
	return httptransport.ResolutionTallyResponse{
		ItemID:    result.ItemID,
		Yes:       result.Yes,
		No:        result.No,
		Abstain:   result.Abstain,
		YesPct:    result.YesPct,
		NoPct:     result.NoPct,
		Outcome:   string(result.Outcome),
		TalliedAt: result.TalliedAt.UTC().Format(time.RFC3339),
	}
}

func electionTallyResponse(result entities.ElectionResult) httptransport.ElectionTallyResponse {
	positions := make(map[string]httptransport.PositionTallyResponse, len(result.Positions))
	for positionID, position := range result.Positions {
		positions[positionID] = httptransport.PositionTallyResponse{
			PositionID:   position.PositionID,
			Method:       string(position.Method),
			Votes:        position.Votes,
			Pct:          position.Pct,
			Winner:       position.Winner,
			TotalBallots: position.TotalBallots,
		}
	}
	return httptransport.ElectionTallyResponse{
		ElectionID: result.ElectionID,
		Positions:  positions,
		TalliedAt:  result.TalliedAt.UTC().Format(time.RFC3339),
	}
}
