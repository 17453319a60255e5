package booking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	ledgerRepo "github.com/manoj0277/agrirent-backend/database/repository/ledger"
	"github.com/manoj0277/agrirent-backend/models"
	"github.com/manoj0277/agrirent-backend/utils"
)

// Reject reopens a rejected direct request as an open broadcast. The bound
// provider and item are dropped; no capacity moves because a direct request
// only consumes capacity at confirmation.
func (s *DefaultLifecycleService) Reject(ctx context.Context, bookingID, providerID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(models.StatusSearching) || b.ProviderID != providerID {
		return nil, fmt.Errorf("booking %s is %q: %w", b.ID, b.Status, ErrInvalidStateTransition)
	}

	from := b.Status
	b.Status = models.StatusSearching
	b.IsRebroadcast = true
	b.ProviderID = ""
	b.ItemID = ""
	b.DistanceCharge = 0
	if err := s.Bookings.UpdateGuarded(ctx, b, []models.BookingStatus{from}); err != nil {
		return nil, err
	}

	s.Logger.Info("direct request rejected, rebroadcast",
		zap.String("bookingId", b.ID),
		zap.String("providerId", providerID))
	s.notify(ctx, b.RequesterID, "booking_rebroadcast",
		"The supplier declined your request; it is now open to all suppliers.", b)
	return b, nil
}

// Cancel ends a booking before work starts and returns any reserved capacity
// to the item. A cancellation racing an acceptance serializes at the store;
// the loser sees a stale-state failure.
func (s *DefaultLifecycleService) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !b.Status.In(models.Cancellable...) {
		return nil, fmt.Errorf("booking %s is %q: %w", b.ID, b.Status, ErrInvalidStateTransition)
	}

	// Capacity is held only once an item is bound.
	var release *ledgerRepo.CapacityDelta
	if b.ItemID != "" && b.Status.In(models.StatusConfirmed, models.StatusAwaitingOperator) {
		release = &ledgerRepo.CapacityDelta{ItemID: b.ItemID, Units: b.ReservedUnits()}
	}

	from := b.Status
	b.Status = models.StatusCancelled
	if err := s.Ledger.CommitRelease(ctx, b, []models.BookingStatus{from}, release); err != nil {
		return nil, err
	}

	s.Logger.Info("booking cancelled", zap.String("bookingId", b.ID))
	if b.ProviderID != "" {
		s.notify(ctx, b.ProviderID, "booking_cancelled",
			"The farmer cancelled this booking.", b)
	}
	return b, nil
}

// Expire closes an open request whose scheduled date has passed. Driven by
// the reminder worker, never by user action.
func (s *DefaultLifecycleService) Expire(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(models.StatusExpired) {
		return nil, fmt.Errorf("booking %s is %q: %w", b.ID, b.Status, ErrInvalidStateTransition)
	}

	from := b.Status
	b.Status = models.StatusExpired
	if err := s.Bookings.UpdateGuarded(ctx, b, []models.BookingStatus{from}); err != nil {
		return nil, err
	}

	s.Logger.Info("booking expired", zap.String("bookingId", b.ID))
	s.notify(ctx, b.RequesterID, "booking_expired",
		"No supplier accepted your request before its date; it has expired.", b)
	return b, nil
}

// MarkArrived is the provider reporting physical arrival on site. A 6-digit
// work code is issued and stored unverified; it never regenerates while the
// booking stays Arrived.
func (s *DefaultLifecycleService) MarkArrived(ctx context.Context, bookingID, providerID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(models.StatusArrived) || b.ProviderID != providerID {
		return nil, fmt.Errorf("booking %s is %q: %w", b.ID, b.Status, ErrInvalidStateTransition)
	}

	code, err := utils.GenerateWorkCode()
	if err != nil {
		return nil, err
	}
	b.OTPCode = code
	b.OTPVerified = false
	b.Status = models.StatusArrived
	if err := s.Bookings.UpdateGuarded(ctx, b, []models.BookingStatus{models.StatusConfirmed}); err != nil {
		return nil, err
	}

	s.Logger.Info("provider arrived, work code issued", zap.String("bookingId", b.ID))
	s.notify(ctx, b.RequesterID, "provider_arrived",
		fmt.Sprintf("The supplier has arrived. Share code %s to start the work.", code), b)
	return b, nil
}

// VerifyWorkCode gates the Arrived -> In Process transition on the work code
// exchanged out-of-band. A mismatch keeps the code valid for another attempt;
// verifying an already-verified booking fails on the status precondition.
func (s *DefaultLifecycleService) VerifyWorkCode(ctx context.Context, bookingID, code string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(models.StatusInProcess) || b.OTPCode == "" {
		return nil, fmt.Errorf("booking %s is %q: %w", b.ID, b.Status, ErrInvalidStateTransition)
	}
	if b.OTPCode != code {
		return nil, fmt.Errorf("booking %s: %w", b.ID, ErrOTPMismatch)
	}

	b.OTPVerified = true
	b.WorkStartTime = s.now()
	b.Status = models.StatusInProcess
	if err := s.Bookings.UpdateGuarded(ctx, b, []models.BookingStatus{models.StatusArrived}); err != nil {
		return nil, err
	}

	s.Logger.Info("work code verified, work started", zap.String("bookingId", b.ID))
	s.notify(ctx, b.ProviderID, "work_started", "Work code verified; the job is now in process.", b)
	return b, nil
}

// CompleteWork closes the billable interval and computes the final price.
func (s *DefaultLifecycleService) CompleteWork(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(models.StatusPendingPayment) {
		return nil, fmt.Errorf("booking %s is %q: %w", b.ID, b.Status, ErrInvalidStateTransition)
	}
	it, err := s.Items.GetByID(ctx, b.ItemID)
	if err != nil {
		return nil, err
	}

	b.WorkEndTime = s.now()
	b.EndTime = b.WorkEndTime.Format("15:04")
	price, err := FinalPrice(b, it)
	if err != nil {
		return nil, err
	}
	b.FinalPrice = price
	b.Status = models.StatusPendingPayment
	if err := s.Bookings.UpdateGuarded(ctx, b, []models.BookingStatus{models.StatusInProcess}); err != nil {
		return nil, err
	}

	s.Logger.Info("work completed",
		zap.String("bookingId", b.ID),
		zap.Float64("finalPrice", price))
	s.notify(ctx, b.RequesterID, "payment_due",
		fmt.Sprintf("Work is complete. Amount due: %.2f.", price), b)
	return b, nil
}

// RecordPayment settles the final amount (simulated) and closes the booking.
func (s *DefaultLifecycleService) RecordPayment(ctx context.Context, bookingID, method string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(models.StatusCompleted) {
		return nil, fmt.Errorf("booking %s is %q: %w", b.ID, b.Status, ErrInvalidStateTransition)
	}

	inv, err := s.Payments.Settle(ctx, b, method)
	if err != nil {
		return nil, err
	}
	if err := s.Bookings.SaveInvoice(ctx, inv); err != nil {
		return nil, err
	}

	b.Status = models.StatusCompleted
	if err := s.Bookings.UpdateGuarded(ctx, b, []models.BookingStatus{models.StatusPendingPayment}); err != nil {
		return nil, err
	}

	s.Logger.Info("payment recorded",
		zap.String("bookingId", b.ID),
		zap.String("invoiceId", inv.InvoiceID))
	s.notify(ctx, b.ProviderID, "payment_received",
		fmt.Sprintf("Payment of %.2f received.", inv.Amount), b)
	return b, nil
}

// RaiseDispute flags a completed booking. The flag is independent of the
// primary status and never moves it.
func (s *DefaultLifecycleService) RaiseDispute(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusCompleted {
		return nil, fmt.Errorf("booking %s is %q: %w", b.ID, b.Status, ErrInvalidStateTransition)
	}

	b.DisputeRaised = true
	if err := s.Bookings.UpdateGuarded(ctx, b, []models.BookingStatus{models.StatusCompleted}); err != nil {
		return nil, err
	}

	s.Logger.Info("dispute raised", zap.String("bookingId", b.ID))
	s.notify(ctx, b.ProviderID, "dispute_raised", "The farmer raised a dispute on this booking.", b)
	return b, nil
}

// ReportDamage flags equipment damage observed on site. Like disputes, the
// flag never moves the primary status.
func (s *DefaultLifecycleService) ReportDamage(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.In(models.StatusArrived, models.StatusInProcess) {
		return nil, fmt.Errorf("booking %s is %q: %w", b.ID, b.Status, ErrInvalidStateTransition)
	}

	from := b.Status
	b.DamageReported = true
	if err := s.Bookings.UpdateGuarded(ctx, b, []models.BookingStatus{from}); err != nil {
		return nil, err
	}

	s.Logger.Info("damage reported", zap.String("bookingId", b.ID))
	s.notify(ctx, b.RequesterID, "damage_reported", "The supplier reported equipment damage on site.", b)
	return b, nil
}
