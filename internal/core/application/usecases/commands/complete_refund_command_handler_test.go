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

func TestNewCompleteRefundCommand(t *testing.T) {
	_, err := commands.NewCompleteRefundCommand(kernel.SystemActor(), kernel.NewUUID(), order.RefundPending, "")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewCompleteRefundCommand(kernel.SystemActor(), kernel.UUID{}, order.RefundProcessed, "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestCompleteRefundCommandHandler_Handle(t *testing.T) {
	customer := newActor(t, kernel.RoleCustomer)
	admin := newActor(t, kernel.RoleAdmin)
	system := kernel.SystemActor()

	cancelledPaid := func(t *testing.T) (*order.Order, kernel.UUID) {
		t.Helper()
		o := newOrder(t, customer, order.PaymentOnline)
		_, err := o.RecordPayment(admin, "pay_123")
		require.NoError(t, err)
		refundID := kernel.NewUUID()
		require.NoError(t, o.Cancel(customer, "changed my mind", nil, refundID))
		return o, refundID
	}

	complete := func(t *testing.T, refundID kernel.UUID, outcome order.RefundStatus) commands.CompleteRefundCommand {
		t.Helper()
		c, err := commands.NewCompleteRefundCommand(system, refundID, outcome, "rf_789")
		require.NoError(t, err)
		return c
	}

	t.Run("should apply a processed refund once for duplicate callbacks", func(t *testing.T) {
		o, refundID := cancelledPaid(t)
		orders := new(MockOrderRepository)
		uow := newMockUoW(orders, nil, nil)
		orders.On("GetByRefundID", mock.Anything, refundID).Return(restore(t, o), nil).Once()
		orders.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

		handler := commands.NewCompleteRefundCommandHandler(orderUoWFactory{uow}, 3)
		snapshot, err := handler.Handle(t.Context(), complete(t, refundID, order.RefundProcessed))

		require.NoError(t, err)
		assert.Equal(t, order.PaymentRefunded, snapshot.Payment.Status)
		require.NotNil(t, snapshot.Refund)
		assert.Equal(t, order.RefundProcessed, snapshot.Refund.Status)
		assert.Equal(t, "rf_789", snapshot.Refund.TransactionRef)
		assert.NotNil(t, snapshot.Refund.Date)

		processed, err := order.RestoreOrder(snapshot)
		require.NoError(t, err)
		orders.On("GetByRefundID", mock.Anything, refundID).Return(processed, nil).Once()

		_, err = handler.Handle(t.Context(), complete(t, refundID, order.RefundProcessed))

		require.NoError(t, err)
		orders.AssertNumberOfCalls(t, "Update", 1)
	})

	t.Run("should keep the payment Paid on a failed refund", func(t *testing.T) {
		o, refundID := cancelledPaid(t)
		orders := new(MockOrderRepository)
		uow := newMockUoW(orders, nil, nil)
		orders.On("GetByRefundID", mock.Anything, refundID).Return(restore(t, o), nil).Once()
		orders.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

		handler := commands.NewCompleteRefundCommandHandler(orderUoWFactory{uow}, 3)
		snapshot, err := handler.Handle(t.Context(), complete(t, refundID, order.RefundFailed))

		require.NoError(t, err)
		assert.Equal(t, order.PaymentPaid, snapshot.Payment.Status)
		assert.Equal(t, order.RefundFailed, snapshot.Refund.Status)
	})

	t.Run("should fail with NotFound for unknown refunds", func(t *testing.T) {
		refundID := kernel.NewUUID()
		orders := new(MockOrderRepository)
		uow := newMockUoW(orders, nil, nil)
		orders.On("GetByRefundID", mock.Anything, refundID).
			Return(nil, errs.NewObjectNotFoundError("refund", refundID)).Once()

		handler := commands.NewCompleteRefundCommandHandler(orderUoWFactory{uow}, 3)
		_, err := handler.Handle(t.Context(), complete(t, refundID, order.RefundProcessed))

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})
}
