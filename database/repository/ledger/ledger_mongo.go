package ledgerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/manoj0277/agrirent-backend/database"
	"github.com/manoj0277/agrirent-backend/database/repository"
	itemRepo "github.com/manoj0277/agrirent-backend/database/repository/item"
	"github.com/manoj0277/agrirent-backend/models"
)

// MongoLedger spans the bookings and items collections with one multi-document
// transaction per commit.
type MongoLedger struct {
	bookingColl *mongo.Collection
	itemColl    *mongo.Collection
}

func NewMongoLedger() *MongoLedger {
	db := database.DB()
	return &MongoLedger{
		bookingColl: db.Collection("bookings"),
		itemColl:    db.Collection("items"),
	}
}

// errGuardMiss marks a no-match inside the transaction; the commit aborts and
// the failure is classified against fresh reads afterwards.
var errGuardMiss = errors.New("guard miss")

func (l *MongoLedger) CommitAcceptance(ctx context.Context, original *models.Booking, from []models.BookingStatus, sibling *models.Booking, consume *CapacityDelta) error {
	txn := func(sc mongo.SessionContext) error {
		if err := l.replaceGuarded(sc, original, from); err != nil {
			return err
		}
		if sibling != nil {
			if _, err := l.bookingColl.InsertOne(sc, sibling); err != nil {
				return fmt.Errorf("insert split booking failed: %w", err)
			}
		}
		if consume != nil {
			res, err := l.itemColl.UpdateOne(sc, itemRepo.ConsumeFilter(consume.ItemID, consume.Units), itemRepo.ConsumeUpdate(consume.Units))
			if err != nil {
				return fmt.Errorf("consume capacity failed: %w", err)
			}
			if res.MatchedCount == 0 {
				return fmt.Errorf("item %s: %w", consume.ItemID, errGuardMiss)
			}
		}
		return nil
	}

	if err := l.runTransaction(ctx, txn); err != nil {
		if errors.Is(err, errGuardMiss) {
			return l.classify(ctx, original, from, consume)
		}
		return err
	}
	original.Version++
	return nil
}

func (l *MongoLedger) CommitRelease(ctx context.Context, booking *models.Booking, from []models.BookingStatus, release *CapacityDelta) error {
	txn := func(sc mongo.SessionContext) error {
		if err := l.replaceGuarded(sc, booking, from); err != nil {
			return err
		}
		if release != nil {
			res, err := l.itemColl.UpdateOne(sc, bson.M{"id": release.ItemID}, itemRepo.ReleaseUpdate(release.Units))
			if err != nil {
				return fmt.Errorf("release capacity failed: %w", err)
			}
			if res.MatchedCount == 0 {
				return fmt.Errorf("item %s: %w", release.ItemID, repository.ErrNotFound)
			}
		}
		return nil
	}

	if err := l.runTransaction(ctx, txn); err != nil {
		if errors.Is(err, errGuardMiss) {
			return l.classify(ctx, booking, from, nil)
		}
		return err
	}
	booking.Version++
	return nil
}

func (l *MongoLedger) replaceGuarded(sc mongo.SessionContext, b *models.Booking, from []models.BookingStatus) error {
	filter := bson.M{
		"id":      b.ID,
		"version": b.Version,
		"status":  bson.M{"$in": from},
	}
	replacement := *b
	replacement.Version = b.Version + 1
	replacement.UpdatedAt = time.Now()

	res, err := l.bookingColl.ReplaceOne(sc, filter, &replacement)
	if err != nil {
		return fmt.Errorf("guarded booking replace failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s: %w", b.ID, errGuardMiss)
	}
	return nil
}

func (l *MongoLedger) runTransaction(ctx context.Context, txn func(mongo.SessionContext) error) error {
	client := l.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// classify distinguishes which side of an aborted commit lost: a missing or
// wrongly-stated booking, a version race, or an item out of capacity.
func (l *MongoLedger) classify(ctx context.Context, b *models.Booking, from []models.BookingStatus, consume *CapacityDelta) error {
	var current models.Booking
	err := l.bookingColl.FindOne(ctx, bson.M{"id": b.ID}).Decode(&current)
	if err == mongo.ErrNoDocuments {
		return fmt.Errorf("booking %s: %w", b.ID, repository.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch booking %s: %w", b.ID, err)
	}

	inFrom := false
	for _, s := range from {
		if current.Status == s {
			inFrom = true
			break
		}
	}
	if !inFrom {
		return fmt.Errorf("booking %s is %q: %w", b.ID, current.Status, repository.ErrInvalidState)
	}
	if current.Version != b.Version {
		return fmt.Errorf("booking %s: %w", b.ID, repository.ErrStaleWrite)
	}
	if consume != nil {
		return fmt.Errorf("item %s: %w", consume.ItemID, repository.ErrInsufficientCapacity)
	}
	return fmt.Errorf("booking %s: %w", b.ID, repository.ErrStaleWrite)
}
