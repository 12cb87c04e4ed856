package commands_test

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderRepository) GetByTrackingID(ctx context.Context, id order.TrackingID) (*order.Order, error) {
	args := m.Called(ctx, id)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderRepository) GetByRefundID(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, id kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, id)
	return ordersOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderRepository) ListActiveByDriver(ctx context.Context, id kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, id)
	return ordersOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderRepository) ListPendingCreatedBefore(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff, limit)
	return ordersOrNil(args.Get(0)), args.Error(1)
}

func orderOrNil(v any) *order.Order {
	if v == nil {
		return nil
	}
	return v.(*order.Order)
}

func ordersOrNil(v any) []*order.Order {
	if v == nil {
		return nil
	}
	return v.([]*order.Order)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

type MockProductCatalog struct{ mock.Mock }

func (m *MockProductCatalog) GetProducts(ctx context.Context, ids []kernel.UUID) ([]product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

type MockOTPStore struct{ mock.Mock }

func (m *MockOTPStore) Save(ctx context.Context, orderID kernel.UUID, code string, ttl time.Duration) error {
	args := m.Called(ctx, orderID, code, ttl)
	return args.Error(0)
}

func (m *MockOTPStore) Verify(ctx context.Context, orderID kernel.UUID, code string) error {
	args := m.Called(ctx, orderID, code)
	return args.Error(0)
}

func (m *MockOTPStore) Consume(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

// MockUoW satisfies every unit of work flavor used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockUoW) ProductCatalog() ports.ProductCatalog {
	args := m.Called()
	return args.Get(0).(ports.ProductCatalog)
}

// newMockUoW returns a unit of work whose transaction calls always succeed and
// whose repositories are the given mocks. Commit is counted so tests can assert
// how many attempts committed.
func newMockUoW(orders *MockOrderRepository, drivers *MockDriverRepository, catalog *MockProductCatalog) *MockUoW {
	uow := new(MockUoW)
	uow.On("Begin", mock.Anything).Return(nil).Maybe()
	uow.On("Commit", mock.Anything).Return(nil).Maybe()
	uow.On("Rollback", mock.Anything).Return(nil).Maybe()
	if orders != nil {
		uow.On("OrderRepository").Return(orders).Maybe()
	}
	if drivers != nil {
		uow.On("DriverRepository").Return(drivers).Maybe()
	}
	if catalog != nil {
		uow.On("ProductCatalog").Return(catalog).Maybe()
	}
	return uow
}

type uowFactory struct{ uow *MockUoW }

func (f uowFactory) Create() commands.UoW {
	return f.uow
}

type orderUoWFactory struct{ uow *MockUoW }

func (f orderUoWFactory) Create() commands.OrderUoW {
	return f.uow
}

type driverUoWFactory struct{ uow *MockUoW }

func (f driverUoWFactory) Create() commands.DriverUoW {
	return f.uow
}
