package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// RecordPaymentCommandHandler marks an order as paid. Repeated callbacks with
// the same payment id succeed without writing.
type RecordPaymentCommandHandler struct {
	mutation orderMutation
}

func NewRecordPaymentCommandHandler(uowFactory OrderUoWFactory, maxAttempts int) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{
		mutation: newOrderMutation(uowFactory, maxAttempts),
	}
}

func (h RecordPaymentCommandHandler) Handle(ctx context.Context, command RecordPaymentCommand) (order.Snapshot, error) {
	if err := command.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	return h.mutation.run(ctx, orderByID(command.OrderID()), func(_ context.Context, o *order.Order) (bool, error) {
		return o.RecordPayment(command.Actor(), command.PaymentID())
	})
}
