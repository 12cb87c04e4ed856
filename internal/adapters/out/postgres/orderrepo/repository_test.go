package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + kernel.NewUUID().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.LineItemDTO{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newRepository(t *testing.T) (*orderrepo.GormOrderRepository, *MockAggregateTracker, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	return orderrepo.NewGormOrderRepository(db, tracker), tracker, db
}

func newOrder(t *testing.T, customerID kernel.UUID, mode order.PaymentMode) *order.Order {
	t.Helper()
	first, err := order.NewLineItem(kernel.NewUUID(), 2, kernel.MustMoney("100"))
	require.NoError(t, err)
	second, err := order.NewLineItem(kernel.NewUUID(), 1, kernel.MustMoney("50.25"))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), order.NewTrackingID(), customerID,
		[]order.LineItem{first, second}, mode)
	require.NoError(t, err)
	return o
}

func actor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func TestGormOrderRepository_AddAndGet(t *testing.T) {
	repo, tracker, _ := newRepository(t)
	ctx := context.Background()
	o := newOrder(t, kernel.NewUUID(), order.PaymentCOD)

	require.NoError(t, repo.Add(ctx, o))
	tracker.AssertCalled(t, "TrackAggregate", o.ID(), o)

	got, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)

	assert.True(t, got.ID().IsEqual(o.ID()))
	assert.Equal(t, o.TrackingID(), got.TrackingID())
	assert.True(t, got.CustomerID().IsEqual(o.CustomerID()))
	assert.Equal(t, order.Pending, got.Status())
	assert.True(t, got.Total().Equal(kernel.MustMoney("250.25")), got.Total().String())
	assert.Equal(t, o.Payment(), got.Payment())
	assert.Equal(t, int64(1), got.Version())
	assert.WithinDuration(t, o.CreatedAt(), got.CreatedAt(), time.Millisecond)
	require.Len(t, got.Items(), 2)
	assert.True(t, got.Items()[0].ProductID().IsEqual(o.Items()[0].ProductID()))
	assert.Equal(t, 2, got.Items()[0].Quantity())
	assert.True(t, got.Items()[1].UnitPrice().Equal(kernel.MustMoney("50.25")))
}

func TestGormOrderRepository_AddDuplicate(t *testing.T) {
	repo, _, _ := newRepository(t)
	ctx := context.Background()
	o := newOrder(t, kernel.NewUUID(), order.PaymentCOD)
	require.NoError(t, repo.Add(ctx, o))

	err := repo.Add(ctx, o)

	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestGormOrderRepository_GetUnknown(t *testing.T) {
	repo, _, _ := newRepository(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	_, err = repo.GetByTrackingID(ctx, order.NewTrackingID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	_, err = repo.GetByRefundID(ctx, kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGormOrderRepository_Update(t *testing.T) {
	ctx := context.Background()
	admin := actor(t, kernel.RoleAdmin)

	t.Run("should persist changes and bump the version", func(t *testing.T) {
		repo, _, _ := newRepository(t)
		o := newOrder(t, kernel.NewUUID(), order.PaymentCOD)
		require.NoError(t, repo.Add(ctx, o))

		loaded, err := repo.Get(ctx, o.ID())
		require.NoError(t, err)
		driverID := kernel.NewUUID()
		require.NoError(t, loaded.StartProcessing(admin))
		require.NoError(t, loaded.AssignDriver(admin, driverID))
		notes := "fragile"
		require.NoError(t, loaded.UpdateShipment(admin, order.ShipmentUpdate{CarrierNotes: &notes}))

		require.NoError(t, repo.Update(ctx, loaded))
		assert.Equal(t, int64(2), loaded.Version())

		got, err := repo.Get(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Processing, got.Status())
		assert.Equal(t, int64(2), got.Version())
		assert.Equal(t, "fragile", got.CarrierNotes())
		require.NotNil(t, got.Driver())
		assert.True(t, got.Driver().IsEqual(driverID))
	})

	t.Run("should reject a stale version", func(t *testing.T) {
		repo, _, _ := newRepository(t)
		o := newOrder(t, kernel.NewUUID(), order.PaymentCOD)
		require.NoError(t, repo.Add(ctx, o))

		first, err := repo.Get(ctx, o.ID())
		require.NoError(t, err)
		second, err := repo.Get(ctx, o.ID())
		require.NoError(t, err)

		require.NoError(t, first.StartProcessing(admin))
		require.NoError(t, repo.Update(ctx, first))

		require.NoError(t, second.Cancel(admin, "duplicate", nil, kernel.NewUUID()))
		err = repo.Update(ctx, second)

		require.ErrorIs(t, err, errs.ErrVersionConflict)
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, int64(1), second.Version())

		got, err := repo.Get(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Processing, got.Status())
	})

	t.Run("should report missing orders", func(t *testing.T) {
		repo, _, _ := newRepository(t)
		o := newOrder(t, kernel.NewUUID(), order.PaymentCOD)

		err := repo.Update(ctx, o)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestGormOrderRepository_RefundRoundTrip(t *testing.T) {
	repo, _, _ := newRepository(t)
	ctx := context.Background()
	customer := actor(t, kernel.RoleCustomer)
	admin := actor(t, kernel.RoleAdmin)

	o := newOrder(t, customer.ID(), order.PaymentOnline)
	_, err := o.RecordPayment(admin, "pay_1")
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, o))

	refundID := kernel.NewUUID()
	require.NoError(t, o.Cancel(customer, "changed my mind", nil, refundID))
	require.NoError(t, repo.Update(ctx, o))

	got, err := repo.GetByRefundID(ctx, refundID)
	require.NoError(t, err)
	require.NotNil(t, got.Refund())
	assert.Equal(t, order.RefundPending, got.Refund().Status)
	assert.True(t, got.Refund().Amount.Equal(o.Total()))
	assert.Nil(t, got.Refund().Date)
	assert.Equal(t, "changed my mind", got.CancellationReason())

	_, err = got.CompleteRefund(admin, order.RefundProcessed, "rf_1", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, got))

	done, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.PaymentRefunded, done.Payment().Status)
	assert.Equal(t, order.RefundProcessed, done.Refund().Status)
	assert.Equal(t, "rf_1", done.Refund().TransactionRef)
	assert.NotNil(t, done.Refund().Date)
}

func TestGormOrderRepository_DeliveryRoundTrip(t *testing.T) {
	repo, _, _ := newRepository(t)
	ctx := context.Background()
	admin := actor(t, kernel.RoleAdmin)
	driver := actor(t, kernel.RoleDriver)

	o := newOrder(t, kernel.NewUUID(), order.PaymentCOD)
	require.NoError(t, o.StartProcessing(admin))
	require.NoError(t, o.AssignDriver(admin, driver.ID()))
	require.NoError(t, o.Ship(admin))
	require.NoError(t, repo.Add(ctx, o))

	loc, err := kernel.NewLocation(12.9716, 77.5946)
	require.NoError(t, err)
	_, err = o.Deliver(driver, order.DeliveryReport{Proof: "1234", Location: &loc, At: time.Now()}, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, o))

	got, err := repo.GetByTrackingID(ctx, o.TrackingID())
	require.NoError(t, err)
	assert.Equal(t, order.Delivered, got.Status())
	assert.Equal(t, "1234", got.DeliveryConfirmation())
	require.NotNil(t, got.LastLocation())
	same, err := got.LastLocation().IsEqual(loc)
	require.NoError(t, err)
	assert.True(t, same)
	assert.NotNil(t, got.LastLocationAt())
}

func TestGormOrderRepository_Lists(t *testing.T) {
	repo, _, db := newRepository(t)
	ctx := context.Background()
	admin := actor(t, kernel.RoleAdmin)
	customerID := kernel.NewUUID()
	driverID := kernel.NewUUID()

	older := newOrder(t, customerID, order.PaymentCOD)
	newer := newOrder(t, customerID, order.PaymentCOD)
	require.NoError(t, newer.StartProcessing(admin))
	require.NoError(t, newer.AssignDriver(admin, driverID))
	foreign := newOrder(t, kernel.NewUUID(), order.PaymentCOD)
	require.NoError(t, foreign.AssignDriver(admin, driverID))

	for _, o := range []*order.Order{older, newer, foreign} {
		require.NoError(t, repo.Add(ctx, o))
	}
	require.NoError(t, db.Model(&orderrepo.OrderDTO{}).
		Where("id = ?", older.ID().Bytes()).
		Update("created_at", time.Now().UTC().Add(-2*time.Hour)).Error)

	t.Run("by customer newest first", func(t *testing.T) {
		got, err := repo.ListByCustomer(ctx, customerID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.True(t, got[0].ID().IsEqual(newer.ID()))
		assert.True(t, got[1].ID().IsEqual(older.ID()))
		assert.Len(t, got[1].Items(), 2)
	})

	t.Run("active by driver", func(t *testing.T) {
		got, err := repo.ListActiveByDriver(ctx, driverID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].ID().IsEqual(newer.ID()))
	})

	t.Run("pending created before cutoff", func(t *testing.T) {
		got, err := repo.ListPendingCreatedBefore(ctx, time.Now().UTC().Add(-time.Hour), 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].ID().IsEqual(older.ID()))

		got, err = repo.ListPendingCreatedBefore(ctx, time.Now().UTC().Add(time.Hour), 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].ID().IsEqual(older.ID()))
	})
}
