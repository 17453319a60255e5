package repository

import "errors"

// Storage-level failure kinds shared by every repository implementation.
// Services wrap these with context; callers test with errors.Is.
var (
	// ErrNotFound: the referenced booking, item, or party does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidState: a guarded write found the booking in a status outside
	// the allowed precondition set.
	ErrInvalidState = errors.New("status precondition failed")

	// ErrStaleWrite: a guarded write lost a version race. The caller should
	// re-fetch and decide whether to retry; the repositories never retry.
	ErrStaleWrite = errors.New("stale write")

	// ErrInsufficientCapacity: the requested units exceed what the item has
	// available.
	ErrInsufficientCapacity = errors.New("insufficient capacity")
)
