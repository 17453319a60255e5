package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/manoj0277/agrirent-backend/models"
)

// PaymentProcessor settles the final amount of a booking. The production
// implementation is a simulation: no gateway is involved, the invoice is the
// durable outcome.
type PaymentProcessor interface {
	Settle(ctx context.Context, b *models.Booking, method string) (*models.Invoice, error)
}

// SimulatedPaymentProcessor accepts cash and UPI and marks every invoice paid
// immediately.
type SimulatedPaymentProcessor struct {
	Logger   *zap.Logger
	Currency string
}

func NewSimulatedPaymentProcessor(logger *zap.Logger, currency string) *SimulatedPaymentProcessor {
	return &SimulatedPaymentProcessor{Logger: logger, Currency: currency}
}

func (p *SimulatedPaymentProcessor) Settle(ctx context.Context, b *models.Booking, method string) (*models.Invoice, error) {
	switch method {
	case "cash", "upi":
	default:
		return nil, fmt.Errorf("unsupported payment method: %s", method)
	}

	amount := b.FinalPrice - b.AdvanceAmount
	if amount < 0 {
		amount = 0
	}

	inv := &models.Invoice{
		InvoiceID: uuid.New().String(),
		BookingID: b.ID,
		PayerID:   b.RequesterID,
		PayeeID:   b.ProviderID,
		Amount:    amount,
		Currency:  p.Currency,
		Method:    method,
		Status:    "paid",
		CreatedAt: time.Now(),
	}

	p.Logger.Info("payment settled",
		zap.String("bookingId", b.ID),
		zap.String("invoiceId", inv.InvoiceID),
		zap.Float64("amount", amount),
		zap.String("method", method))
	return inv, nil
}
