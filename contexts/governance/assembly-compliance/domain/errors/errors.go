package errors

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid compliance request")
	ErrAssemblyNotFound = errors.New("assembly not found")
	ErrSeatNotFound     = errors.New("executive seat not found")
)
