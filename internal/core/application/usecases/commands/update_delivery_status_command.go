package commands

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateDeliveryStatusCommandIsNotConstructed = errors.New(
	"UpdateDeliveryStatusCommand must be created via NewUpdateDeliveryStatusCommand constructor",
)

// UpdateDeliveryStatusCommand is submitted by the assigned driver from the road.
// Shipped reports the current location; Delivered confirms the drop-off with an
// OTP or signature and an optional location.
type UpdateDeliveryStatusCommand struct {
	actor     kernel.Actor
	orderID   kernel.UUID
	newStatus order.Status
	location  *kernel.Location
	proof     string

	guard guard.ConstructorGuard
}

func NewUpdateDeliveryStatusCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	newStatus order.Status,
	location *kernel.Location,
	proof string,
) (UpdateDeliveryStatusCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}

	switch newStatus {
	case order.Shipped:
		if location == nil {
			return UpdateDeliveryStatusCommand{}, errs.NewValueIsRequiredError("location")
		}
	case order.Delivered:
	default:
		return UpdateDeliveryStatusCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("drivers report Shipped or Delivered, got %s", newStatus))
	}

	if location != nil {
		if err := location.Validate(); err != nil {
			return UpdateDeliveryStatusCommand{}, err
		}
	}

	return UpdateDeliveryStatusCommand{
		actor:     actor,
		orderID:   orderID,
		newStatus: newStatus,
		location:  location,
		proof:     strings.TrimSpace(proof),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryStatusCommandIsNotConstructed)
}

func (c UpdateDeliveryStatusCommand) Actor() kernel.Actor {
	return c.actor
}

func (c UpdateDeliveryStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateDeliveryStatusCommand) NewStatus() order.Status {
	return c.newStatus
}

func (c UpdateDeliveryStatusCommand) Location() *kernel.Location {
	return c.location
}

func (c UpdateDeliveryStatusCommand) Proof() string {
	return c.proof
}
