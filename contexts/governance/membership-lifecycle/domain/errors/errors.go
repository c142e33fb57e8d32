package errors

import "errors"

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidRequest = errors.New("invalid membership request")
)
