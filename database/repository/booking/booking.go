package bookingRepo

import (
	"context"

	"github.com/manoj0277/agrirent-backend/models"
)

// Repository is the durable store for booking records. All status mutation
// goes through UpdateGuarded so the precondition check and the write commit as
// one atomic operation; read-modify-write on a cached copy is never safe.
type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	Create(ctx context.Context, b *models.Booking) error

	// UpdateGuarded replaces the stored booking with updated, but only when
	// the stored status is one of from and the stored version equals
	// updated.Version. On success the version is advanced both in the store
	// and on the passed struct. Failure kinds: repository.ErrNotFound,
	// repository.ErrInvalidState, repository.ErrStaleWrite.
	UpdateGuarded(ctx context.Context, updated *models.Booking, from []models.BookingStatus) error

	// ListByStatus returns all bookings currently in any of the given states,
	// used to hydrate views and by the reminder worker.
	ListByStatus(ctx context.Context, statuses ...models.BookingStatus) ([]models.Booking, error)

	// ListDueOn returns bookings scheduled for the given date in any of the
	// given states.
	ListDueOn(ctx context.Context, date string, statuses ...models.BookingStatus) ([]models.Booking, error)

	// SaveInvoice persists the settlement record produced at payment time.
	SaveInvoice(ctx context.Context, inv *models.Invoice) error
}
