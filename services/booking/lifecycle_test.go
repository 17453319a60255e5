package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manoj0277/agrirent-backend/database/repository/inmem"
	"github.com/manoj0277/agrirent-backend/models"
)

func TestMarkArrivedIssuesWorkCode(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)

	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-1", RequesterID: "farm-1", ProviderID: "sup-1",
		ItemCategory: models.CategoryTractor, Status: models.StatusConfirmed,
	}))

	b, err := svc.MarkArrived(ctx, "bk-1", "sup-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusArrived, b.Status)
	assert.Len(t, b.OTPCode, 6)
	assert.False(t, b.OTPVerified)

	// A second arrival report must not mint a fresh code.
	_, err = svc.MarkArrived(ctx, "bk-1", "sup-1")
	assert.True(t, errors.Is(err, ErrInvalidStateTransition))
	after, _ := store.GetByID(ctx, "bk-1")
	assert.Equal(t, b.OTPCode, after.OTPCode)
}

func TestMarkArrivedWrongProvider(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)

	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-1", ProviderID: "sup-1",
		ItemCategory: models.CategoryTractor, Status: models.StatusConfirmed,
	}))

	_, err := svc.MarkArrived(ctx, "bk-1", "sup-2")
	assert.True(t, errors.Is(err, ErrInvalidStateTransition))
}

func TestVerifyWorkCode(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)
	started := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return started }

	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-1", ProviderID: "sup-1", ItemCategory: models.CategoryTractor,
		Status: models.StatusArrived, OTPCode: "482913",
	}))

	t.Run("mismatch leaves the booking untouched", func(t *testing.T) {
		_, err := svc.VerifyWorkCode(ctx, "bk-1", "000000")
		assert.True(t, errors.Is(err, ErrOTPMismatch))

		b, _ := store.GetByID(ctx, "bk-1")
		assert.Equal(t, models.StatusArrived, b.Status)
		assert.Equal(t, "482913", b.OTPCode, "code stays valid for another attempt")
		assert.False(t, b.OTPVerified)
	})

	t.Run("match starts the work", func(t *testing.T) {
		b, err := svc.VerifyWorkCode(ctx, "bk-1", "482913")
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProcess, b.Status)
		assert.True(t, b.OTPVerified)
		assert.Equal(t, started, b.WorkStartTime)
	})

	t.Run("re-verification fails on status", func(t *testing.T) {
		_, err := svc.VerifyWorkCode(ctx, "bk-1", "482913")
		assert.True(t, errors.Is(err, ErrInvalidStateTransition))
	})
}

func TestVerifyWorkCodeWithoutIssuedCode(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)

	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-1", ItemCategory: models.CategoryTractor, Status: models.StatusArrived,
	}))

	_, err := svc.VerifyWorkCode(ctx, "bk-1", "123456")
	assert.True(t, errors.Is(err, ErrInvalidStateTransition))
}

func TestCompleteWorkPricesTheJob(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)

	started := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	ended := started.Add(2*time.Hour + 20*time.Minute) // bills as 3 hours
	svc.Now = func() time.Time { return ended }

	require.NoError(t, store.CreateItem(ctx, &models.Item{
		ID: "trac-1", Category: models.CategoryTractor, OperatorCharge: 200,
		Purposes: []models.PurposeRate{{Purpose: "ploughing", Price: 900}},
	}))
	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-1", ProviderID: "sup-1", ItemID: "trac-1",
		ItemCategory: models.CategoryTractor, Status: models.StatusInProcess,
		WorkPurpose: "ploughing", WorkStartTime: started,
		OperatorRequired: true, DistanceCharge: 150,
	}))

	b, err := svc.CompleteWork(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, b.Status)
	assert.Equal(t, ended, b.WorkEndTime)
	assert.Equal(t, "11:20", b.EndTime)
	assert.Equal(t, (900.0+200.0)*3+150, b.FinalPrice)
}

func TestRecordPaymentSettlesAndCloses(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)

	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-1", RequesterID: "farm-1", ProviderID: "sup-1",
		ItemCategory: models.CategoryTractor, Status: models.StatusPendingPayment,
		FinalPrice: 2850, AdvanceAmount: 500,
	}))

	b, err := svc.RecordPayment(ctx, "bk-1", "upi")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, b.Status)

	invs := store.Invoices()
	require.Len(t, invs, 1)
	assert.Equal(t, "bk-1", invs[0].BookingID)
	assert.Equal(t, 2350.0, invs[0].Amount, "advance is deducted from the settlement")
	assert.Equal(t, "paid", invs[0].Status)
	assert.Equal(t, "upi", invs[0].Method)

	_, err = svc.RecordPayment(ctx, "bk-1", "upi")
	assert.True(t, errors.Is(err, ErrInvalidStateTransition))
}

func TestCancelReleasesCapacity(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)

	require.NoError(t, store.CreateItem(ctx, &models.Item{
		ID: "gang-1", Category: models.CategoryWorker, QuantityAvailable: 12, Available: true,
	}))
	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-1", ItemID: "gang-1", ItemCategory: models.CategoryWorker,
		Status: models.StatusConfirmed, Quantity: 8,
	}))
	require.NoError(t, store.Consume(ctx, "gang-1", 8))

	b, err := svc.Cancel(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, b.Status)

	it, _ := store.GetItemByID(ctx, "gang-1")
	assert.Equal(t, 12, it.QuantityAvailable)
	assert.True(t, it.Available)
}

func TestCancelUnitItemReleasesAvailability(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)

	require.NoError(t, store.CreateItem(ctx, &models.Item{
		ID: "trac-1", Category: models.CategoryTractor, Available: false,
	}))
	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-1", ItemID: "trac-1", ItemCategory: models.CategoryTractor,
		Status: models.StatusAwaitingOperator,
	}))

	_, err := svc.Cancel(ctx, "bk-1")
	require.NoError(t, err)

	it, _ := store.GetItemByID(ctx, "trac-1")
	assert.True(t, it.Available)
}

func TestCancelSearchingHoldsNoCapacity(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)

	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-1", ItemCategory: models.CategoryTractor, Status: models.StatusSearching,
	}))

	b, err := svc.Cancel(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, b.Status)
}

func TestCancelAllowedExactlyFromCancellableStates(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)

	all := []models.BookingStatus{
		models.StatusSearching, models.StatusPendingConfirmation, models.StatusAwaitingOperator,
		models.StatusConfirmed, models.StatusArrived, models.StatusInProcess,
		models.StatusPendingPayment, models.StatusCompleted, models.StatusCancelled,
		models.StatusExpired,
	}
	for _, st := range all {
		id := "bk-" + string(st)
		require.NoError(t, store.Create(ctx, &models.Booking{
			ID: id, ItemCategory: models.CategoryTractor, Status: st,
		}))

		b, err := svc.Cancel(ctx, id)
		if st.In(models.Cancellable...) {
			require.NoError(t, err, "cancel from %q must succeed", st)
			assert.Equal(t, models.StatusCancelled, b.Status)
		} else {
			assert.True(t, errors.Is(err, ErrInvalidStateTransition), "cancel from %q must fail", st)
		}
	}
}

func TestRejectRebroadcasts(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)

	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-1", RequesterID: "farm-1", ProviderID: "sup-1", ItemID: "trac-1",
		ItemCategory: models.CategoryTractor, Status: models.StatusPendingConfirmation,
		DistanceCharge: 120,
	}))

	b, err := svc.Reject(ctx, "bk-1", "sup-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSearching, b.Status)
	assert.True(t, b.IsRebroadcast)
	assert.Empty(t, b.ProviderID)
	assert.Empty(t, b.ItemID)
	assert.Zero(t, b.DistanceCharge)
}

func TestRejectByWrongProvider(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)

	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-1", ProviderID: "sup-1",
		ItemCategory: models.CategoryTractor, Status: models.StatusPendingConfirmation,
	}))

	_, err := svc.Reject(ctx, "bk-1", "sup-9")
	assert.True(t, errors.Is(err, ErrInvalidStateTransition))
}

func TestExpire(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)

	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-1", ItemCategory: models.CategoryTractor, Status: models.StatusSearching,
	}))
	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-2", ItemCategory: models.CategoryTractor, Status: models.StatusConfirmed,
	}))

	b, err := svc.Expire(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, b.Status)

	_, err = svc.Expire(ctx, "bk-2")
	assert.True(t, errors.Is(err, ErrInvalidStateTransition), "confirmed bookings never expire")
}

func TestDisputeAndDamageFlags(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)

	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-1", ItemCategory: models.CategoryTractor, Status: models.StatusCompleted,
	}))
	require.NoError(t, store.Create(ctx, &models.Booking{
		ID: "bk-2", ItemCategory: models.CategoryTractor, Status: models.StatusInProcess,
	}))

	b, err := svc.RaiseDispute(ctx, "bk-1")
	require.NoError(t, err)
	assert.True(t, b.DisputeRaised)
	assert.Equal(t, models.StatusCompleted, b.Status, "flag never moves the status")

	_, err = svc.RaiseDispute(ctx, "bk-2")
	assert.True(t, errors.Is(err, ErrInvalidStateTransition))

	b, err = svc.ReportDamage(ctx, "bk-2")
	require.NoError(t, err)
	assert.True(t, b.DamageReported)
	assert.Equal(t, models.StatusInProcess, b.Status)

	_, err = svc.ReportDamage(ctx, "bk-1")
	assert.True(t, errors.Is(err, ErrInvalidStateTransition))
}

func TestUnknownBooking(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(inmem.NewStore())

	_, err := svc.GetBooking(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}
