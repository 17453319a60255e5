package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/manoj0277/agrirent-backend/database"
	"github.com/manoj0277/agrirent-backend/database/repository"
	"github.com/manoj0277/agrirent-backend/models"
)

// MongoBookingRepo is the MongoDB-backed booking store.
type MongoBookingRepo struct {
	coll        *mongo.Collection
	invoiceColl *mongo.Collection
}

func NewMongoBookingRepo() *MongoBookingRepo {
	db := database.DB()
	return &MongoBookingRepo{
		coll:        db.Collection("bookings"),
		invoiceColl: db.Collection("invoices"),
	}
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.UpdatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// UpdateGuarded is an optimistic compare-and-swap: the replacement only lands
// when the stored status is still in from and the stored version matches.
func (r *MongoBookingRepo) UpdateGuarded(ctx context.Context, updated *models.Booking, from []models.BookingStatus) error {
	filter := guardFilter(updated.ID, updated.Version, from)

	replacement := *updated
	replacement.Version = updated.Version + 1
	replacement.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, filter, &replacement)
	if err != nil {
		return fmt.Errorf("guarded update for booking %s failed: %w", updated.ID, err)
	}
	if res.MatchedCount == 0 {
		return r.classifyGuardFailure(ctx, updated.ID, from)
	}
	updated.Version = replacement.Version
	updated.UpdatedAt = replacement.UpdatedAt
	return nil
}

// classifyGuardFailure re-reads the booking to tell the caller which
// precondition lost: missing record, wrong status, or a version race.
func (r *MongoBookingRepo) classifyGuardFailure(ctx context.Context, id string, from []models.BookingStatus) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	for _, s := range from {
		if current.Status == s {
			return fmt.Errorf("booking %s: %w", id, repository.ErrStaleWrite)
		}
	}
	return fmt.Errorf("booking %s is %q: %w", id, current.Status, repository.ErrInvalidState)
}

func (r *MongoBookingRepo) ListByStatus(ctx context.Context, statuses ...models.BookingStatus) ([]models.Booking, error) {
	cur, err := r.coll.Find(ctx, bson.M{"status": bson.M{"$in": statuses}})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by status: %w", err)
	}
	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return out, nil
}

func (r *MongoBookingRepo) ListDueOn(ctx context.Context, date string, statuses ...models.BookingStatus) ([]models.Booking, error) {
	cur, err := r.coll.Find(ctx, bson.M{"date": date, "status": bson.M{"$in": statuses}})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings due on %s: %w", date, err)
	}
	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return out, nil
}

func (r *MongoBookingRepo) SaveInvoice(ctx context.Context, inv *models.Invoice) error {
	if _, err := r.invoiceColl.InsertOne(ctx, inv); err != nil {
		return fmt.Errorf("failed to save invoice %s: %w", inv.InvoiceID, err)
	}
	return nil
}

// guardFilter builds the compare-and-swap filter for a guarded write.
func guardFilter(id string, version int, from []models.BookingStatus) bson.M {
	return bson.M{
		"id":      id,
		"version": version,
		"status":  bson.M{"$in": from},
	}
}
