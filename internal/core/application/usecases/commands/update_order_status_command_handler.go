package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// UpdateOrderStatusCommandHandler applies staff-driven status changes.
// Cancelled is routed through the cancellation path with a full refund for
// paid orders; every other target goes through the matching aggregate method.
type UpdateOrderStatusCommandHandler struct {
	mutation orderMutation
}

func NewUpdateOrderStatusCommandHandler(uowFactory OrderUoWFactory, maxAttempts int) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		mutation: newOrderMutation(uowFactory, maxAttempts),
	}
}

func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, command UpdateOrderStatusCommand) (order.Snapshot, error) {
	if err := command.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	actor := command.Actor()
	if !actor.Role().IsStaff() {
		return order.Snapshot{}, errs.NewAccessDeniedError(
			fmt.Sprintf("%s may not use the general status update", actor.Role()))
	}

	return h.mutation.run(ctx, orderByID(command.OrderID()), func(_ context.Context, o *order.Order) (bool, error) {
		return applyStatus(o, actor, command)
	})
}

// applyStatus never treats a repeated target as a no-op: every edge out of a
// terminal status is a conflict on this path.
func applyStatus(o *order.Order, actor kernel.Actor, command UpdateOrderStatusCommand) (bool, error) {
	if o.Status().IsTerminal() {
		return false, order.Authorize(o.Status(), command.NewStatus(), actor.Role())
	}

	switch command.NewStatus() {
	case order.Processing:
		return true, o.StartProcessing(actor)
	case order.Shipped:
		return true, o.Ship(actor)
	case order.Delivered:
		return o.Deliver(actor, order.DeliveryReport{Proof: command.Proof()}, nil)
	case order.Cancelled:
		return true, o.Cancel(actor, command.Reason(), nil, kernel.NewUUID())
	default:
		return false, order.Authorize(o.Status(), command.NewStatus(), actor.Role())
	}
}
