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

func TestConfirmDeliveryCommandHandler_Handle(t *testing.T) {
	customer := newActor(t, kernel.RoleCustomer)
	admin := newActor(t, kernel.RoleAdmin)
	driverID := kernel.NewUUID()

	confirm := func(t *testing.T, actor kernel.Actor, id kernel.UUID, proof string) commands.ConfirmDeliveryCommand {
		t.Helper()
		c, err := commands.NewConfirmDeliveryCommand(actor, id, proof)
		require.NoError(t, err)
		return c
	}

	t.Run("should let the customer confirm with the issued code", func(t *testing.T) {
		o := shippedOrder(t, customer, admin, driverID)
		orders := new(MockOrderRepository)
		otps := new(MockOTPStore)
		uow := newMockUoW(orders, nil, nil)

		orders.On("Get", mock.Anything, o.ID()).Return(restore(t, o), nil).Once()
		otps.On("Verify", mock.Anything, o.ID(), "482913").Return(nil).Once()
		otps.On("Consume", mock.Anything, o.ID()).Return(nil).Once()
		orders.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

		handler := commands.NewConfirmDeliveryCommandHandler(orderUoWFactory{uow}, otps, 3)
		snapshot, err := handler.Handle(t.Context(), confirm(t, customer, o.ID(), "482913"))

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, snapshot.Status)
		uow.AssertCalled(t, "Commit", mock.Anything)
		otps.AssertExpectations(t)
	})

	t.Run("should succeed without writing when confirmed twice", func(t *testing.T) {
		o := shippedOrder(t, customer, admin, driverID)
		_, err := o.Deliver(admin, order.DeliveryReport{Proof: "482913"}, nil)
		require.NoError(t, err)
		orders := new(MockOrderRepository)
		otps := new(MockOTPStore)
		uow := newMockUoW(orders, nil, nil)
		orders.On("Get", mock.Anything, o.ID()).Return(restore(t, o), nil).Once()

		handler := commands.NewConfirmDeliveryCommandHandler(orderUoWFactory{uow}, otps, 3)
		snapshot, err := handler.Handle(t.Context(), confirm(t, customer, o.ID(), "482913"))

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, snapshot.Status)
		orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		otps.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should conflict on a different proof after delivery", func(t *testing.T) {
		o := shippedOrder(t, customer, admin, driverID)
		_, err := o.Deliver(admin, order.DeliveryReport{Proof: "482913"}, nil)
		require.NoError(t, err)
		orders := new(MockOrderRepository)
		uow := newMockUoW(orders, nil, nil)
		orders.On("Get", mock.Anything, o.ID()).Return(restore(t, o), nil).Once()

		handler := commands.NewConfirmDeliveryCommandHandler(orderUoWFactory{uow}, new(MockOTPStore), 3)
		_, err = handler.Handle(t.Context(), confirm(t, customer, o.ID(), "111111"))

		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("should deny warehouse managers", func(t *testing.T) {
		uow := new(MockUoW)
		handler := commands.NewConfirmDeliveryCommandHandler(orderUoWFactory{uow}, new(MockOTPStore), 3)

		_, err := handler.Handle(t.Context(),
			confirm(t, newActor(t, kernel.RoleWarehouseManager), kernel.NewUUID(), "482913"))

		require.ErrorIs(t, err, errs.ErrAccessDenied)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("should deny customers confirming someone else's order", func(t *testing.T) {
		o := shippedOrder(t, customer, admin, driverID)
		orders := new(MockOrderRepository)
		uow := newMockUoW(orders, nil, nil)
		orders.On("Get", mock.Anything, o.ID()).Return(restore(t, o), nil).Once()

		handler := commands.NewConfirmDeliveryCommandHandler(orderUoWFactory{uow}, new(MockOTPStore), 3)
		_, err := handler.Handle(t.Context(), confirm(t, newActor(t, kernel.RoleCustomer), o.ID(), "482913"))

		require.ErrorIs(t, err, errs.ErrAccessDenied)
	})
}
