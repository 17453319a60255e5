package partyRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/manoj0277/agrirent-backend/database"
	"github.com/manoj0277/agrirent-backend/database/repository"
	"github.com/manoj0277/agrirent-backend/models"
)

// MongoPartyRepo reads party records out of the shared parties collection.
type MongoPartyRepo struct {
	coll *mongo.Collection
}

func NewMongoPartyRepo() *MongoPartyRepo {
	return &MongoPartyRepo{coll: database.DB().Collection("parties")}
}

func (r *MongoPartyRepo) GetByID(ctx context.Context, id string) (*models.Party, error) {
	var p models.Party
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("party %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch party %s: %w", id, err)
	}
	return &p, nil
}
