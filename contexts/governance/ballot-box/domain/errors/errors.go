package errors

import "errors"

var (
	ErrInvalidBallot        = errors.New("invalid ballot input")
	ErrAlreadyVoted         = errors.New("a ballot was already cast by this voter")
	ErrNotEligible          = errors.New("voter is not eligible for this target")
	ErrElectionNotFound     = errors.New("election not found")
	ErrPositionNotFound     = errors.New("election position not found")
	ErrUnknownCandidate     = errors.New("candidate does not run for this position")
	ErrInvalidElectionState = errors.New("election state is invalid for tallying")
)
