package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	ledgerRepo "github.com/manoj0277/agrirent-backend/database/repository/ledger"
	"github.com/manoj0277/agrirent-backend/models"
)

// Accept resolves a pending request against a concrete provider+item pair.
// The capacity check and the status transition commit as one unit of work
// through the ledger, so two providers racing for the same booking or the
// same units can never both win; the loser sees a typed failure.
func (s *DefaultLifecycleService) Accept(ctx context.Context, req AcceptRequest) (*AcceptResult, error) {
	b, err := s.Bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	it, err := s.Items.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if !b.Status.In(models.Acceptable...) {
		return nil, fmt.Errorf("booking %s is %q: %w", b.ID, b.Status, ErrInvalidStateTransition)
	}
	if it.ProviderID != req.ProviderID {
		return nil, fmt.Errorf("item %s belongs to provider %s, not %s: %w",
			it.ID, it.ProviderID, req.ProviderID, ErrInvalidStateTransition)
	}

	switch b.Status {
	case models.StatusAwaitingOperator:
		return s.acceptOperator(ctx, b, it, req)
	case models.StatusPendingConfirmation:
		return s.confirmDirect(ctx, b, it, req)
	default: // Searching, the only other acceptable state.
		return s.acceptBroadcast(ctx, b, it, req)
	}
}

// acceptOperator is the second stage of a two-stage acceptance: a driver
// takes over a machine booking that is waiting for its operator. The machine
// item and pricing are untouched; operator pay folds into the final price at
// completion.
func (s *DefaultLifecycleService) acceptOperator(ctx context.Context, b *models.Booking, it *models.Item, req AcceptRequest) (*AcceptResult, error) {
	if !it.Category.IsOperator() {
		return nil, fmt.Errorf("booking %s awaits an operator, item %s is %q: %w",
			b.ID, it.ID, it.Category, ErrInvalidStateTransition)
	}

	b.OperatorID = req.ProviderID
	b.Status = models.StatusConfirmed
	if err := s.Ledger.CommitAcceptance(ctx, b, []models.BookingStatus{models.StatusAwaitingOperator}, nil, nil); err != nil {
		return nil, err
	}

	s.Logger.Info("operator bound",
		zap.String("bookingId", b.ID),
		zap.String("operatorId", req.ProviderID))
	s.notify(ctx, b.RequesterID, "booking_confirmed",
		"An operator has been found; your booking is confirmed.", b)
	s.notify(ctx, b.ProviderID, "operator_assigned",
		"An operator accepted your machine booking.", b)
	return &AcceptResult{Booking: b}, nil
}

// confirmDirect handles a direct request: the provider it was created against
// confirms, and capacity for the already-bound item is consumed now.
func (s *DefaultLifecycleService) confirmDirect(ctx context.Context, b *models.Booking, it *models.Item, req AcceptRequest) (*AcceptResult, error) {
	if b.ProviderID != req.ProviderID || b.ItemID != it.ID || it.Category != b.ItemCategory {
		return nil, fmt.Errorf("booking %s is a direct request to another provider: %w", b.ID, ErrInvalidStateTransition)
	}

	b.Status = models.StatusConfirmed
	consume := &ledgerRepo.CapacityDelta{ItemID: it.ID, Units: b.ReservedUnits()}
	if err := s.Ledger.CommitAcceptance(ctx, b, []models.BookingStatus{models.StatusPendingConfirmation}, nil, consume); err != nil {
		return nil, err
	}

	s.Logger.Info("direct request confirmed",
		zap.String("bookingId", b.ID),
		zap.String("providerId", req.ProviderID))
	s.notify(ctx, b.RequesterID, "booking_confirmed",
		"Your request was confirmed by the supplier.", b)
	return &AcceptResult{Booking: b}, nil
}

// acceptBroadcast resolves an open broadcast. Three shapes:
//   - operator-required machine where the provider will not drive it: bind
//     and park in Awaiting Operator, consuming the machine;
//   - partial fulfillment of a quantity request: carve out a confirmed
//     sibling and leave the remainder searching;
//   - plain in-place confirmation.
func (s *DefaultLifecycleService) acceptBroadcast(ctx context.Context, b *models.Booking, it *models.Item, req AcceptRequest) (*AcceptResult, error) {
	if it.Category != b.ItemCategory {
		return nil, fmt.Errorf("booking %s asks for a %s, item %s is a %s: %w",
			b.ID, b.ItemCategory, it.ID, it.Category, ErrInvalidStateTransition)
	}

	from := []models.BookingStatus{models.StatusSearching}

	if b.OperatorRequired && b.ItemCategory.OperatorCapable() && !req.OperateSelf {
		b.ProviderID = req.ProviderID
		b.ItemID = it.ID
		b.DistanceCharge = DistanceCharge(b.ItemCategory, b.RequesterLocation, it.Location)
		b.Status = models.StatusAwaitingOperator

		consume := &ledgerRepo.CapacityDelta{ItemID: it.ID}
		if err := s.Ledger.CommitAcceptance(ctx, b, from, nil, consume); err != nil {
			return nil, err
		}

		s.Logger.Info("machine bound, awaiting operator",
			zap.String("bookingId", b.ID),
			zap.String("itemId", it.ID))
		s.notify(ctx, b.RequesterID, "awaiting_operator",
			"A machine was found for your request; searching for an operator.", b)
		return &AcceptResult{Booking: b}, nil
	}

	toConfirm := req.QuantityToProvide
	if toConfirm <= 0 {
		toConfirm = b.Quantity
	}
	if toConfirm <= 0 {
		toConfirm = 1
	}
	if b.Quantity > 0 && toConfirm > b.Quantity {
		toConfirm = b.Quantity
	}

	units := 0
	if b.ItemCategory.QuantityBased() {
		units = toConfirm
		if it.QuantityAvailable < units {
			return nil, fmt.Errorf("item %s has %d of %d requested units: %w",
				it.ID, it.QuantityAvailable, units, ErrInsufficientCapacity)
		}
	} else if !it.Available {
		return nil, fmt.Errorf("item %s: %w", it.ID, ErrInsufficientCapacity)
	}
	consume := &ledgerRepo.CapacityDelta{ItemID: it.ID, Units: units}

	// Partial fulfillment: the sibling takes the confirmed share and the
	// original keeps searching for the remainder under its own id. A booking
	// that disallows splitting takes all its units from one supplier or none.
	if b.Quantity > 0 && toConfirm < b.Quantity {
		if !b.AllowMultipleSuppliers {
			return nil, fmt.Errorf("booking %s needs %d units from a single supplier, offered %d: %w",
				b.ID, b.Quantity, toConfirm, ErrInsufficientCapacity)
		}
		sibling := s.splitBooking(b, it, req, toConfirm)
		b.Quantity -= toConfirm

		if err := s.Ledger.CommitAcceptance(ctx, b, from, sibling, consume); err != nil {
			return nil, err
		}

		s.Logger.Info("booking split",
			zap.String("bookingId", b.ID),
			zap.String("splitId", sibling.ID),
			zap.Int("confirmedUnits", toConfirm),
			zap.Int("remainingUnits", b.Quantity))
		s.notify(ctx, b.RequesterID, "booking_partially_confirmed",
			fmt.Sprintf("%d of your requested units are confirmed; still searching for the rest.", toConfirm), sibling)
		return &AcceptResult{Booking: b, Split: sibling}, nil
	}

	b.ProviderID = req.ProviderID
	b.ItemID = it.ID
	if b.ItemCategory.QuantityBased() {
		b.Quantity = toConfirm
	}
	if b.OperatorRequired && req.OperateSelf {
		b.OperatorID = req.ProviderID
	}
	b.DistanceCharge = DistanceCharge(b.ItemCategory, b.RequesterLocation, it.Location)
	b.Status = models.StatusConfirmed

	if err := s.Ledger.CommitAcceptance(ctx, b, from, nil, consume); err != nil {
		return nil, err
	}

	s.Logger.Info("broadcast accepted",
		zap.String("bookingId", b.ID),
		zap.String("providerId", req.ProviderID),
		zap.String("itemId", it.ID))
	s.notify(ctx, b.RequesterID, "booking_confirmed",
		"A supplier accepted your request.", b)
	return &AcceptResult{Booking: b}, nil
}

// splitBooking builds the confirmed sibling for a partial fulfillment.
func (s *DefaultLifecycleService) splitBooking(b *models.Booking, it *models.Item, req AcceptRequest, toConfirm int) *models.Booking {
	sibling := *b
	sibling.ID = uuid.New().String()
	sibling.SplitFrom = b.ID
	sibling.ProviderID = req.ProviderID
	sibling.ItemID = it.ID
	sibling.Quantity = toConfirm
	sibling.Status = models.StatusConfirmed
	sibling.DistanceCharge = DistanceCharge(b.ItemCategory, b.RequesterLocation, it.Location)
	sibling.CreatedAt = s.now()
	sibling.UpdatedAt = s.now()
	sibling.Version = 0
	return &sibling
}
