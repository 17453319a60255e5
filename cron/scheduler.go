package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	bookingRepo "github.com/manoj0277/agrirent-backend/database/repository/booking"
	"github.com/manoj0277/agrirent-backend/models"
	"github.com/manoj0277/agrirent-backend/services/booking"
)

// ReminderScheduler periodically scans bookings: confirmed work due tomorrow
// gets a reminder enqueued, and open requests whose date has passed are
// expired. Reminders dedupe through redis so each booking is reminded once
// per day no matter how often the scan runs.
type ReminderScheduler struct {
	Bookings  bookingRepo.Repository
	Lifecycle booking.LifecycleService
	Cache     *redis.Client
	Enqueue   func(payload models.ReminderPayload, fireAt time.Time) error
	Logger    *zap.Logger

	// Now is the wall clock; overridable in tests. Nil means time.Now.
	Now func() time.Time
}

func (s *ReminderScheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Run ticks ScanOnce until the context ends.
func (s *ReminderScheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ScanOnce(ctx); err != nil {
				s.Logger.Warn("reminder scan failed", zap.Error(err))
			}
		}
	}
}

// ScanOnce performs one reminder + expiry pass.
func (s *ReminderScheduler) ScanOnce(ctx context.Context) error {
	now := s.now()
	if err := s.remindDueTomorrow(ctx, now); err != nil {
		return err
	}
	return s.expireStale(ctx, now)
}

func (s *ReminderScheduler) remindDueTomorrow(ctx context.Context, now time.Time) error {
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")
	due, err := s.Bookings.ListDueOn(ctx, tomorrow, models.StatusConfirmed)
	if err != nil {
		return fmt.Errorf("failed to list bookings due tomorrow: %w", err)
	}

	for _, b := range due {
		for _, recipient := range []string{b.RequesterID, b.ProviderID} {
			if recipient == "" {
				continue
			}
			key := fmt.Sprintf("reminder:%s:%s:%s", b.ID, recipient, tomorrow)
			set, err := s.Cache.SetNX(ctx, key, 1, 48*time.Hour).Result()
			if err != nil {
				return fmt.Errorf("reminder dedupe check failed: %w", err)
			}
			if !set {
				continue
			}

			payload := models.ReminderPayload{
				BookingID:   b.ID,
				RecipientID: recipient,
				Title:       "Booking due tomorrow",
				Body:        fmt.Sprintf("Your %s booking is scheduled for %s at %s.", b.ItemCategory, b.Date, b.StartTime),
				FireDate:    tomorrow,
			}
			if err := s.Enqueue(payload, now); err != nil {
				s.Logger.Warn("failed to enqueue reminder",
					zap.String("bookingId", b.ID),
					zap.Error(err))
			}
		}
	}
	return nil
}

func (s *ReminderScheduler) expireStale(ctx context.Context, now time.Time) error {
	open, err := s.Bookings.ListByStatus(ctx, models.StatusSearching, models.StatusPendingConfirmation)
	if err != nil {
		return fmt.Errorf("failed to list open bookings: %w", err)
	}

	today := now.Format("2006-01-02")
	for _, b := range open {
		if b.Date == "" || b.Date >= today {
			continue
		}
		if _, err := s.Lifecycle.Expire(ctx, b.ID); err != nil {
			// Lost a race with an acceptance or cancellation; the next scan
			// will see the fresh state.
			s.Logger.Debug("expire skipped",
				zap.String("bookingId", b.ID),
				zap.Error(err))
		}
	}
	return nil
}
