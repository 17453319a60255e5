package booking

import (
	"errors"

	"github.com/manoj0277/agrirent-backend/database/repository"
)

// Failure kinds returned by the lifecycle service. Storage-level kinds are
// re-exported so callers only import this package. All are typed failures;
// nothing is swallowed and nothing is retried here — retry policy belongs to
// the caller.
var (
	ErrNotFound               = repository.ErrNotFound
	ErrInvalidStateTransition = repository.ErrInvalidState
	ErrStaleWrite             = repository.ErrStaleWrite
	ErrInsufficientCapacity   = repository.ErrInsufficientCapacity

	// ErrOTPMismatch: submitted work code does not match the issued one.
	// Retryable; the issued code stays valid.
	ErrOTPMismatch = errors.New("work code does not match")

	// ErrInvalidDuration: non-positive or unusable work interval supplied to
	// the pricing engine.
	ErrInvalidDuration = errors.New("invalid work duration")
)
