package domain

import "errors"

// Error taxonomy of the membership core. Handlers and the HTTP error handler
// map these to status codes; anything unwrapped falls through as a 500.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")
)
