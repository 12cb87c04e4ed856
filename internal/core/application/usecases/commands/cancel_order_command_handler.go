package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// CancelOrderCommandHandler runs the cancellation path. Paid orders get a
// Pending refund of the full total unless an explicit amount is given and
// partial refunds are enabled.
type CancelOrderCommandHandler struct {
	mutation           orderMutation
	allowPartialRefund bool
}

func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	allowPartialRefund bool,
	maxAttempts int,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		mutation:           newOrderMutation(uowFactory, maxAttempts),
		allowPartialRefund: allowPartialRefund,
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) (order.Snapshot, error) {
	if err := command.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	return h.mutation.run(ctx, orderByID(command.OrderID()), func(_ context.Context, o *order.Order) (bool, error) {
		amount := command.RefundAmount()
		if amount != nil && !amount.Equal(o.Total()) && !h.allowPartialRefund {
			return false, errs.NewValueIsInvalidErrorWithCause(
				"refund amount", errors.New("partial refunds are disabled"))
		}
		return true, o.Cancel(command.Actor(), command.Reason(), amount, kernel.NewUUID())
	})
}
