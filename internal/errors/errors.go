package errors

import "errors"

// Sentinel errors for the booking path. Services wrap them with context,
// handlers unwrap with errors.Is to pick the response status.
var (
	ErrUnauthenticated  = errors.New("user is not authenticated")
	ErrInvalidRequest   = errors.New("invalid concert or date")
	ErrSeatsUnavailable = errors.New("one or more requested seats are unavailable")
	ErrForbidden        = errors.New("operation is forbidden for user")
	ErrNotFound         = errors.New("entity not found")
)
