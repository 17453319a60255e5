package partyRepo

import (
	"context"

	"github.com/manoj0277/agrirent-backend/models"
)

// Repository resolves requester/provider ids to display attributes and push
// tokens. Read-only from the lifecycle core's point of view.
type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Party, error)
}
