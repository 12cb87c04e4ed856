package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand assigns a registered driver to an order.
//
// Example:
//
//	cmd, err := NewAssignDriverCommand(admin, orderID, driverID)
//	if err != nil {
//	    return err
//	}
//	assigned, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // unknown order or driver
//	case errors.Is(err, errs.ErrConflict):
//	    // already assigned, inactive driver or order past Processing
//	}
type AssignDriverCommand struct {
	actor    kernel.Actor
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignDriverCommand(actor kernel.Actor, orderID, driverID kernel.UUID) (AssignDriverCommand, error) {
	var driverErr error
	if err := driverID.Validate(); err != nil {
		driverErr = errs.NewValueIsRequiredErrorWithCause("driver id", err)
	}
	if err := errors.Join(actor.Validate(), orderID.Validate(), driverErr); err != nil {
		return AssignDriverCommand{}, err
	}

	return AssignDriverCommand{
		actor:    actor,
		orderID:  orderID,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

func (c AssignDriverCommand) Actor() kernel.Actor {
	return c.actor
}

func (c AssignDriverCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}
