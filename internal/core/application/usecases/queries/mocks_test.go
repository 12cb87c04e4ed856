package queries_test

import (
	"context"
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct {
	mock.Mock
}

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderReader) ListByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderReader) ListActiveByDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockProductCatalog struct {
	mock.Mock
}

func (m *MockProductCatalog) GetProducts(ctx context.Context, ids []kernel.UUID) ([]product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func actorWithID(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return a
}

// newOrder builds a Pending COD order of 2 x 100 + 1 x 50 for customerID.
func newOrder(t *testing.T, customerID kernel.UUID, productIDs ...kernel.UUID) *order.Order {
	t.Helper()
	if len(productIDs) < 2 {
		productIDs = []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
	}
	first, err := order.NewLineItem(productIDs[0], 2, kernel.MustMoney("100"))
	require.NoError(t, err)
	second, err := order.NewLineItem(productIDs[1], 1, kernel.MustMoney("50"))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), order.NewTrackingID(), customerID,
		[]order.LineItem{first, second}, order.PaymentCOD)
	require.NoError(t, err)
	return o
}
