package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand is the general status update issued by staff.
// Reason is used only for Cancelled, proof only for Delivered.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	actor     kernel.Actor
	orderID   kernel.UUID
	newStatus order.Status
	reason    string
	proof     string

	guard guard.ConstructorGuard
}

func NewUpdateOrderStatusCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	newStatus order.Status,
	reason string,
	proof string,
) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		reason: strings.TrimSpace(reason),
		proof:  strings.TrimSpace(proof),
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		actor.Validate(),
		orderID.Validate(),
		newStatus.Validate(),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	switch {
	case newStatus == order.Cancelled && cmd.reason == "":
		return UpdateOrderStatusCommand{}, errs.NewValueIsRequiredError("cancellation reason")
	case newStatus == order.Delivered && cmd.proof == "":
		return UpdateOrderStatusCommand{}, errs.NewValueIsRequiredError("delivery proof")
	}

	cmd.actor = actor
	cmd.orderID = orderID
	cmd.newStatus = newStatus
	return cmd, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) Actor() kernel.Actor {
	return c.actor
}

func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderStatusCommand) NewStatus() order.Status {
	return c.newStatus
}

func (c UpdateOrderStatusCommand) Reason() string {
	return c.reason
}

func (c UpdateOrderStatusCommand) Proof() string {
	return c.proof
}
