package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/manoj0277/agrirent-backend/models"
)

// LogService writes events to the structured log instead of pushing them.
// Used in development and tests, and as the fallback when FCM credentials are
// not configured.
type LogService struct {
	Logger *zap.Logger
}

func (s *LogService) Notify(ctx context.Context, event models.NotificationEvent) error {
	s.Logger.Info("notification",
		zap.String("recipientId", event.RecipientID),
		zap.String("category", event.Category),
		zap.String("bookingId", event.BookingID),
		zap.String("message", event.Message))
	return nil
}
