package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCancelOrderCommand(t *testing.T) {
	t.Run("should require a reason", func(t *testing.T) {
		_, err := commands.NewCancelOrderCommand(newActor(t, kernel.RoleAdmin), kernel.NewUUID(), "  ", nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should keep a nil refund amount", func(t *testing.T) {
		c, err := commands.NewCancelOrderCommand(newActor(t, kernel.RoleAdmin), kernel.NewUUID(), "duplicate", nil)
		require.NoError(t, err)
		assert.Nil(t, c.RefundAmount())
		assert.Equal(t, "duplicate", c.Reason())
	})
}

func TestCancelOrderCommandHandler_Handle(t *testing.T) {
	customer := newActor(t, kernel.RoleCustomer)
	admin := newActor(t, kernel.RoleAdmin)

	paidOrder := func(t *testing.T) *order.Order {
		t.Helper()
		o := newOrder(t, customer, order.PaymentOnline)
		_, err := o.RecordPayment(admin, "pay_123")
		require.NoError(t, err)
		return o
	}

	cancel := func(t *testing.T, actor kernel.Actor, id kernel.UUID, amount *kernel.Money) commands.CancelOrderCommand {
		t.Helper()
		c, err := commands.NewCancelOrderCommand(actor, id, "changed my mind", amount)
		require.NoError(t, err)
		return c
	}

	t.Run("should refund the full total of a paid order", func(t *testing.T) {
		o := paidOrder(t)
		orders := new(MockOrderRepository)
		uow := newMockUoW(orders, nil, nil)
		orders.On("Get", mock.Anything, o.ID()).Return(restore(t, o), nil).Once()
		orders.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

		handler := commands.NewCancelOrderCommandHandler(orderUoWFactory{uow}, false, 3)
		snapshot, err := handler.Handle(t.Context(), cancel(t, customer, o.ID(), nil))

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, snapshot.Status)
		assert.Equal(t, "changed my mind", snapshot.CancellationReason)
		require.NotNil(t, snapshot.Refund)
		assert.Equal(t, order.RefundPending, snapshot.Refund.Status)
		assert.True(t, snapshot.Refund.Amount.Equal(kernel.MustMoney("250")))
		assert.False(t, snapshot.Refund.ID.IsZero())
	})

	t.Run("should not create a refund for unpaid orders", func(t *testing.T) {
		o := newOrder(t, customer, order.PaymentCOD)
		orders := new(MockOrderRepository)
		uow := newMockUoW(orders, nil, nil)
		orders.On("Get", mock.Anything, o.ID()).Return(restore(t, o), nil).Once()
		orders.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

		handler := commands.NewCancelOrderCommandHandler(orderUoWFactory{uow}, false, 3)
		snapshot, err := handler.Handle(t.Context(), cancel(t, admin, o.ID(), nil))

		require.NoError(t, err)
		assert.Nil(t, snapshot.Refund)
	})

	t.Run("should reject partial amounts when partial refunds are disabled", func(t *testing.T) {
		o := paidOrder(t)
		orders := new(MockOrderRepository)
		uow := newMockUoW(orders, nil, nil)
		orders.On("Get", mock.Anything, o.ID()).Return(restore(t, o), nil).Once()

		partial := kernel.MustMoney("100")
		handler := commands.NewCancelOrderCommandHandler(orderUoWFactory{uow}, false, 3)
		_, err := handler.Handle(t.Context(), cancel(t, admin, o.ID(), &partial))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("should accept partial amounts when enabled", func(t *testing.T) {
		o := paidOrder(t)
		orders := new(MockOrderRepository)
		uow := newMockUoW(orders, nil, nil)
		orders.On("Get", mock.Anything, o.ID()).Return(restore(t, o), nil).Once()
		orders.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

		partial := kernel.MustMoney("100")
		handler := commands.NewCancelOrderCommandHandler(orderUoWFactory{uow}, true, 3)
		snapshot, err := handler.Handle(t.Context(), cancel(t, admin, o.ID(), &partial))

		require.NoError(t, err)
		require.NotNil(t, snapshot.Refund)
		assert.True(t, snapshot.Refund.Amount.Equal(partial))
	})

	t.Run("should deny customers once the order shipped", func(t *testing.T) {
		o := shippedOrder(t, customer, admin, kernel.NewUUID())
		orders := new(MockOrderRepository)
		uow := newMockUoW(orders, nil, nil)
		orders.On("Get", mock.Anything, o.ID()).Return(restore(t, o), nil).Once()

		handler := commands.NewCancelOrderCommandHandler(orderUoWFactory{uow}, false, 3)
		_, err := handler.Handle(t.Context(), cancel(t, customer, o.ID(), nil))

		require.ErrorIs(t, err, errs.ErrAccessDenied)
	})

	t.Run("should conflict on cancelled orders", func(t *testing.T) {
		o := newOrder(t, customer, order.PaymentCOD)
		require.NoError(t, o.Cancel(admin, "duplicate", nil, kernel.NewUUID()))
		orders := new(MockOrderRepository)
		uow := newMockUoW(orders, nil, nil)
		orders.On("Get", mock.Anything, o.ID()).Return(restore(t, o), nil).Once()

		handler := commands.NewCancelOrderCommandHandler(orderUoWFactory{uow}, false, 3)
		_, err := handler.Handle(t.Context(), cancel(t, admin, o.ID(), nil))

		require.ErrorIs(t, err, errs.ErrConflict)
	})
}
