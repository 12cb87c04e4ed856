package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// CompleteRefundCommandHandler records refund outcomes reported by the gateway.
// Repeated identical callbacks succeed without writing.
type CompleteRefundCommandHandler struct {
	mutation orderMutation
}

func NewCompleteRefundCommandHandler(uowFactory OrderUoWFactory, maxAttempts int) CompleteRefundCommandHandler {
	return CompleteRefundCommandHandler{
		mutation: newOrderMutation(uowFactory, maxAttempts),
	}
}

func (h CompleteRefundCommandHandler) Handle(ctx context.Context, command CompleteRefundCommand) (order.Snapshot, error) {
	if err := command.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	load := func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error) {
		return repo.GetByRefundID(ctx, command.RefundID())
	}

	return h.mutation.run(ctx, load, func(_ context.Context, o *order.Order) (bool, error) {
		return o.CompleteRefund(command.Actor(), command.Outcome(), command.TransactionRef(), time.Now().UTC())
	})
}
