package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// UpdateShipmentCommandHandler records carrier metadata and optionally advances
// a Processing order to Shipped.
type UpdateShipmentCommandHandler struct {
	mutation orderMutation
}

func NewUpdateShipmentCommandHandler(uowFactory OrderUoWFactory, maxAttempts int) UpdateShipmentCommandHandler {
	return UpdateShipmentCommandHandler{
		mutation: newOrderMutation(uowFactory, maxAttempts),
	}
}

func (h UpdateShipmentCommandHandler) Handle(ctx context.Context, command UpdateShipmentCommand) (order.Snapshot, error) {
	if err := command.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	load := func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error) {
		return repo.GetByTrackingID(ctx, command.TrackingID())
	}

	return h.mutation.run(ctx, load, func(_ context.Context, o *order.Order) (bool, error) {
		return true, o.UpdateShipment(command.Actor(), command.Update())
	})
}
