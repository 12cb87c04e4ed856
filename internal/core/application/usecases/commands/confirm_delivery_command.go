package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand confirms receipt with the delivery code, typically by
// the customer reading the OTP back to the driver or entering it in the app.
type ConfirmDeliveryCommand struct {
	actor   kernel.Actor
	orderID kernel.UUID
	proof   string

	guard guard.ConstructorGuard
}

func NewConfirmDeliveryCommand(actor kernel.Actor, orderID kernel.UUID, proof string) (ConfirmDeliveryCommand, error) {
	proof = strings.TrimSpace(proof)

	var missing error
	if proof == "" {
		missing = errs.NewValueIsRequiredError("delivery proof")
	}
	if err := errors.Join(actor.Validate(), orderID.Validate(), missing); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	return ConfirmDeliveryCommand{
		actor:   actor,
		orderID: orderID,
		proof:   proof,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

func (c ConfirmDeliveryCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ConfirmDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ConfirmDeliveryCommand) Proof() string {
	return c.proof
}
