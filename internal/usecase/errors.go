package usecase

import crerr "github.com/cockroachdb/errors"

// Sentinel errors the transport layer maps to HTTP statuses. Services
// wrap these with crerr so callers can classify with crerr.Is while logs
// keep the full chain.
var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrUnauthorized          = crerr.New("unauthorized")
	ErrForbidden             = crerr.New("forbidden")
	ErrConflict              = crerr.New("conflict")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
)
