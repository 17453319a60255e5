package itemRepo

import (
	"context"

	"github.com/manoj0277/agrirent-backend/models"
)

// Repository is the capacity ledger over item records. Consume and Release
// are atomic check-and-mutate operations; the quantity never goes negative
// and available flips to false exactly when capacity runs out.
type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Item, error)
	Create(ctx context.Context, it *models.Item) error

	// Consume takes capacity from the item: units > 0 decrements
	// quantityAvailable for quantity-based items; units == 0 consumes a
	// unique unit by flipping available to false. Fails with
	// repository.ErrInsufficientCapacity when the item cannot cover it.
	Consume(ctx context.Context, id string, units int) error

	// Release returns previously consumed capacity, the inverse of Consume.
	Release(ctx context.Context, id string, units int) error
}
