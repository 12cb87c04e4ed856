package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateShipmentCommandIsNotConstructed = errors.New(
	"UpdateShipmentCommand must be created via NewUpdateShipmentCommand constructor",
)

// UpdateShipmentCommand updates shipment metadata of the order identified by
// its tracking id (the shipment id exposed to carriers).
type UpdateShipmentCommand struct {
	actor      kernel.Actor
	trackingID order.TrackingID
	update     order.ShipmentUpdate

	guard guard.ConstructorGuard
}

func NewUpdateShipmentCommand(
	actor kernel.Actor,
	trackingID order.TrackingID,
	estimatedDelivery *time.Time,
	carrierNotes *string,
	advanceToShipped bool,
) (UpdateShipmentCommand, error) {
	if err := errors.Join(actor.Validate(), trackingID.Validate()); err != nil {
		return UpdateShipmentCommand{}, err
	}

	return UpdateShipmentCommand{
		actor:      actor,
		trackingID: trackingID,
		update: order.ShipmentUpdate{
			EstimatedDelivery: estimatedDelivery,
			CarrierNotes:      carrierNotes,
			AdvanceToShipped:  advanceToShipped,
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrUpdateShipmentCommandIsNotConstructed)
}

func (c UpdateShipmentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c UpdateShipmentCommand) TrackingID() order.TrackingID {
	return c.trackingID
}

func (c UpdateShipmentCommand) Update() order.ShipmentUpdate {
	return c.update
}
