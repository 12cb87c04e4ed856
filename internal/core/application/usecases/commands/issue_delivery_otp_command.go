package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrIssueDeliveryOTPCommandIsNotConstructed = errors.New(
	"IssueDeliveryOTPCommand must be created via NewIssueDeliveryOTPCommand constructor",
)

// IssueDeliveryOTPCommand requests a fresh delivery code for an order.
type IssueDeliveryOTPCommand struct {
	actor   kernel.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewIssueDeliveryOTPCommand(actor kernel.Actor, orderID kernel.UUID) (IssueDeliveryOTPCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return IssueDeliveryOTPCommand{}, err
	}
	return IssueDeliveryOTPCommand{
		actor:   actor,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c IssueDeliveryOTPCommand) Validate() error {
	return c.guard.Validate(ErrIssueDeliveryOTPCommandIsNotConstructed)
}

func (c IssueDeliveryOTPCommand) Actor() kernel.Actor {
	return c.actor
}

func (c IssueDeliveryOTPCommand) OrderID() kernel.UUID {
	return c.orderID
}
