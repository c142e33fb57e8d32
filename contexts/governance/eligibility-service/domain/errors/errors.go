package errors

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid eligibility request")
	ErrMemberNotFound   = errors.New("member not found")
	ErrPositionNotFound = errors.New("election position not found")
)
