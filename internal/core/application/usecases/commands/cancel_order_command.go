package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand withdraws an order. RefundAmount is nil for a full refund.
type CancelOrderCommand struct {
	actor        kernel.Actor
	orderID      kernel.UUID
	reason       string
	refundAmount *kernel.Money

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	reason string,
	refundAmount *kernel.Money,
) (CancelOrderCommand, error) {
	reason = strings.TrimSpace(reason)

	var problems []error
	if reason == "" {
		problems = append(problems, errs.NewValueIsRequiredError("cancellation reason"))
	}
	if refundAmount != nil {
		if err := refundAmount.Validate(); err != nil {
			problems = append(problems, err)
		}
	}
	if err := errors.Join(append(problems, actor.Validate(), orderID.Validate())...); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		actor:        actor,
		orderID:      orderID,
		reason:       reason,
		refundAmount: refundAmount,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CancelOrderCommand) Reason() string {
	return c.reason
}

func (c CancelOrderCommand) RefundAmount() *kernel.Money {
	return c.refundAmount
}
