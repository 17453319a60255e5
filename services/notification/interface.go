package notification

import (
	"context"

	"github.com/manoj0277/agrirent-backend/models"
)

// Service receives one event per booking state transition. Delivery is
// fire-and-forget: the lifecycle core logs a failure and moves on.
type Service interface {
	Notify(ctx context.Context, event models.NotificationEvent) error
}
