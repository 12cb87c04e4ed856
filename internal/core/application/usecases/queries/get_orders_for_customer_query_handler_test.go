package queries_test

import (
	"context"
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrdersForCustomerQuery(t *testing.T) {
	_, err := queries.NewGetOrdersForCustomerQuery(kernel.Actor{}, kernel.NewUUID())
	require.Error(t, err)

	_, err = queries.NewGetOrdersForCustomerQuery(newActor(t, kernel.RoleAdmin), kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestGetOrdersForCustomerQueryHandler_Handle(t *testing.T) {
	ctx := context.Background()
	customerID := kernel.NewUUID()

	t.Run("customer lists own orders", func(t *testing.T) {
		orders := new(MockOrderReader)
		newer := newOrder(t, customerID)
		older := newOrder(t, customerID)
		orders.On("ListByCustomer", ctx, customerID).Return([]*order.Order{newer, older}, nil)
		handler, err := queries.NewGetOrdersForCustomerQueryHandler(orders)
		require.NoError(t, err)
		query, err := queries.NewGetOrdersForCustomerQuery(actorWithID(t, customerID, kernel.RoleCustomer), customerID)
		require.NoError(t, err)

		got, err := handler.Handle(ctx, query)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID(), got[0].ID)
		assert.Equal(t, "Pending", got[0].Status)
		assert.True(t, got[0].Total.Equal(kernel.MustMoney("250")))
		assert.Equal(t, "Unpaid", got[0].Payment.Status)
		assert.Len(t, got[0].Items, 2)
		assert.Empty(t, got[0].Items[0].ProductName)
		assert.Nil(t, got[0].Refund)
	})

	t.Run("warehouse manager lists any customer", func(t *testing.T) {
		orders := new(MockOrderReader)
		orders.On("ListByCustomer", ctx, customerID).Return([]*order.Order{}, nil)
		handler, _ := queries.NewGetOrdersForCustomerQueryHandler(orders)
		query, err := queries.NewGetOrdersForCustomerQuery(newActor(t, kernel.RoleWarehouseManager), customerID)
		require.NoError(t, err)

		got, err := handler.Handle(ctx, query)

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("customer cannot list another customer", func(t *testing.T) {
		orders := new(MockOrderReader)
		handler, _ := queries.NewGetOrdersForCustomerQueryHandler(orders)
		query, err := queries.NewGetOrdersForCustomerQuery(newActor(t, kernel.RoleCustomer), customerID)
		require.NoError(t, err)

		_, err = handler.Handle(ctx, query)

		require.ErrorIs(t, err, errs.ErrAccessDenied)
		orders.AssertNotCalled(t, "ListByCustomer", mock.Anything, mock.Anything)
	})

	t.Run("driver is denied", func(t *testing.T) {
		handler, _ := queries.NewGetOrdersForCustomerQueryHandler(new(MockOrderReader))
		query, err := queries.NewGetOrdersForCustomerQuery(newActor(t, kernel.RoleDriver), customerID)
		require.NoError(t, err)

		_, err = handler.Handle(ctx, query)

		assert.Equal(t, errs.KindAuthorization, errs.KindOf(err))
	})

	t.Run("repository failure is returned", func(t *testing.T) {
		orders := new(MockOrderReader)
		boom := errors.New("db down")
		orders.On("ListByCustomer", ctx, customerID).Return(nil, boom)
		handler, _ := queries.NewGetOrdersForCustomerQueryHandler(orders)
		query, _ := queries.NewGetOrdersForCustomerQuery(newActor(t, kernel.RoleAdmin), customerID)

		_, err := handler.Handle(ctx, query)

		require.ErrorIs(t, err, boom)
	})

	t.Run("unconstructed query is rejected", func(t *testing.T) {
		handler, _ := queries.NewGetOrdersForCustomerQueryHandler(new(MockOrderReader))

		_, err := handler.Handle(ctx, queries.GetOrdersForCustomerQuery{})

		require.ErrorIs(t, err, queries.ErrGetOrdersForCustomerQueryIsNotConstructed)
	})
}
