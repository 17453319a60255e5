package itemRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/manoj0277/agrirent-backend/database"
	"github.com/manoj0277/agrirent-backend/database/repository"
	"github.com/manoj0277/agrirent-backend/models"
)

// MongoItemRepo is the MongoDB-backed item store.
type MongoItemRepo struct {
	coll *mongo.Collection
}

func NewMongoItemRepo() *MongoItemRepo {
	return &MongoItemRepo{coll: database.DB().Collection("items")}
}

func (r *MongoItemRepo) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&it)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("item %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item %s: %w", id, err)
	}
	return &it, nil
}

func (r *MongoItemRepo) Create(ctx context.Context, it *models.Item) error {
	if _, err := r.coll.InsertOne(ctx, it); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (r *MongoItemRepo) Consume(ctx context.Context, id string, units int) error {
	res, err := r.coll.UpdateOne(ctx, ConsumeFilter(id, units), ConsumeUpdate(units))
	if err != nil {
		return fmt.Errorf("failed to consume capacity on item %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return r.classifyCapacityFailure(ctx, id)
	}
	return nil
}

func (r *MongoItemRepo) Release(ctx context.Context, id string, units int) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, ReleaseUpdate(units))
	if err != nil {
		return fmt.Errorf("failed to release capacity on item %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("item %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoItemRepo) classifyCapacityFailure(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("item %s: %w", id, repository.ErrInsufficientCapacity)
}

// ConsumeFilter matches the item only while it can still cover the requested
// units, making check and decrement a single conditional write.
func ConsumeFilter(id string, units int) bson.M {
	if units > 0 {
		return bson.M{"id": id, "quantity_available": bson.M{"$gte": units}}
	}
	return bson.M{"id": id, "available": true}
}

// ConsumeUpdate is a pipeline update so the available flag can flip in the
// same write that moves the quantity.
func ConsumeUpdate(units int) mongo.Pipeline {
	if units > 0 {
		return mongo.Pipeline{
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "quantity_available", Value: bson.D{{Key: "$subtract", Value: bson.A{"$quantity_available", units}}}},
				{Key: "version", Value: bson.D{{Key: "$add", Value: bson.A{"$version", 1}}}},
			}}},
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "available", Value: bson.D{{Key: "$gt", Value: bson.A{"$quantity_available", 0}}}},
			}}},
		}
	}
	return mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "available", Value: false},
			{Key: "version", Value: bson.D{{Key: "$add", Value: bson.A{"$version", 1}}}},
		}}},
	}
}

// ReleaseUpdate is the inverse of ConsumeUpdate.
func ReleaseUpdate(units int) mongo.Pipeline {
	if units > 0 {
		return mongo.Pipeline{
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "quantity_available", Value: bson.D{{Key: "$add", Value: bson.A{"$quantity_available", units}}}},
				{Key: "version", Value: bson.D{{Key: "$add", Value: bson.A{"$version", 1}}}},
			}}},
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "available", Value: bson.D{{Key: "$gt", Value: bson.A{"$quantity_available", 0}}}},
			}}},
		}
	}
	return mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "available", Value: true},
			{Key: "version", Value: bson.D{{Key: "$add", Value: bson.A{"$version", 1}}}},
		}}},
	}
}
