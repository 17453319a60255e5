package ledgerRepo

import (
	"context"

	"github.com/manoj0277/agrirent-backend/models"
)

// CapacityDelta names the item capacity moved alongside a booking transition.
// Units 0 means a unique unit item: the available flag flips instead of a
// quantity moving.
type CapacityDelta struct {
	ItemID string
	Units  int
}

// Ledger composes a guarded booking write with an item capacity mutation as a
// single unit of work. Acceptance is at-most-once per capacity unit: two
// providers racing for the same booking or the same units cannot both commit.
// A failed commit leaves neither record mutated.
type Ledger interface {
	// CommitAcceptance persists an acceptance decision: the (possibly
	// mutated) original booking replaced under its status/version guard, an
	// optional split sibling inserted, and capacity consumed from the item.
	CommitAcceptance(ctx context.Context, original *models.Booking, from []models.BookingStatus, sibling *models.Booking, consume *CapacityDelta) error

	// CommitRelease persists a cancellation or rejection: the guarded booking
	// replace plus capacity returned to the item it had reserved.
	CommitRelease(ctx context.Context, booking *models.Booking, from []models.BookingStatus, release *CapacityDelta) error
}
