package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	bookingRepo "github.com/manoj0277/agrirent-backend/database/repository/booking"
	itemRepo "github.com/manoj0277/agrirent-backend/database/repository/item"
	ledgerRepo "github.com/manoj0277/agrirent-backend/database/repository/ledger"
	"github.com/manoj0277/agrirent-backend/models"
	"github.com/manoj0277/agrirent-backend/services/notification"
)

// AcceptRequest is a provider's attempt to resolve a pending request against
// a concrete item.
type AcceptRequest struct {
	BookingID  string `json:"bookingId"`
	ProviderID string `json:"providerId"`
	ItemID     string `json:"itemId"`
	// OperateSelf: for operator-capable machines, the provider will drive the
	// machine themselves rather than waiting for a separate operator.
	OperateSelf bool `json:"operateSelf,omitempty"`
	// QuantityToProvide: units offered against a quantity request; 0 means
	// the booking's full quantity (or 1 when the booking carries none).
	QuantityToProvide int `json:"quantityToProvide,omitempty"`
}

// AcceptResult is the explicit outcome of an acceptance: the possibly-mutated
// original booking plus at most one split sibling carved out of it.
type AcceptResult struct {
	Booking *models.Booking `json:"booking"`
	Split   *models.Booking `json:"split,omitempty"`
}

// LifecycleService owns every booking status transition from creation to a
// terminal state.
type LifecycleService interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)

	Accept(ctx context.Context, req AcceptRequest) (*AcceptResult, error)
	Reject(ctx context.Context, bookingID, providerID string) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID string) (*models.Booking, error)
	Expire(ctx context.Context, bookingID string) (*models.Booking, error)

	MarkArrived(ctx context.Context, bookingID, providerID string) (*models.Booking, error)
	VerifyWorkCode(ctx context.Context, bookingID, code string) (*models.Booking, error)
	CompleteWork(ctx context.Context, bookingID string) (*models.Booking, error)
	RecordPayment(ctx context.Context, bookingID, method string) (*models.Booking, error)

	RaiseDispute(ctx context.Context, bookingID string) (*models.Booking, error)
	ReportDamage(ctx context.Context, bookingID string) (*models.Booking, error)
}

// DefaultLifecycleService implements LifecycleService.
type DefaultLifecycleService struct {
	Bookings bookingRepo.Repository
	Items    itemRepo.Repository
	Ledger   ledgerRepo.Ledger
	Payments PaymentProcessor
	Notifier notification.Service
	Logger   *zap.Logger

	// Now is the wall clock; overridable in tests. Nil means time.Now.
	Now func() time.Time
}

func (s *DefaultLifecycleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultLifecycleService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.Bookings.GetByID(ctx, id)
}

// notify emits one lifecycle event. Delivery is fire-and-forget: a failure is
// logged and never fails the transition that triggered it.
func (s *DefaultLifecycleService) notify(ctx context.Context, recipientID, category, message string, b *models.Booking) {
	if s.Notifier == nil || recipientID == "" {
		return
	}
	event := models.NotificationEvent{
		RecipientID: recipientID,
		Message:     message,
		Category:    category,
		BookingID:   b.ID,
		Status:      b.Status,
	}
	if err := s.Notifier.Notify(ctx, event); err != nil {
		s.Logger.Warn("notification emit failed",
			zap.String("bookingId", b.ID),
			zap.String("category", category),
			zap.Error(err))
	}
}
