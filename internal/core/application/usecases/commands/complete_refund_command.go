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

var ErrCompleteRefundCommandIsNotConstructed = errors.New(
	"CompleteRefundCommand must be created via NewCompleteRefundCommand constructor",
)

// CompleteRefundCommand carries the gateway outcome of a refund, keyed by refund id.
type CompleteRefundCommand struct {
	actor          kernel.Actor
	refundID       kernel.UUID
	outcome        order.RefundStatus
	transactionRef string

	guard guard.ConstructorGuard
}

func NewCompleteRefundCommand(
	actor kernel.Actor,
	refundID kernel.UUID,
	outcome order.RefundStatus,
	transactionRef string,
) (CompleteRefundCommand, error) {
	var outcomeErr error
	if outcome != order.RefundProcessed && outcome != order.RefundFailed {
		outcomeErr = errs.NewValueIsInvalidErrorWithCause(
			"refund outcome", fmt.Errorf("%q is not Processed or Failed", string(outcome)))
	}
	var refundErr error
	if err := refundID.Validate(); err != nil {
		refundErr = errs.NewValueIsRequiredErrorWithCause("refund id", err)
	}
	if err := errors.Join(actor.Validate(), refundErr, outcomeErr); err != nil {
		return CompleteRefundCommand{}, err
	}

	return CompleteRefundCommand{
		actor:          actor,
		refundID:       refundID,
		outcome:        outcome,
		transactionRef: strings.TrimSpace(transactionRef),
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteRefundCommand) Validate() error {
	return c.guard.Validate(ErrCompleteRefundCommandIsNotConstructed)
}

func (c CompleteRefundCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CompleteRefundCommand) RefundID() kernel.UUID {
	return c.refundID
}

func (c CompleteRefundCommand) Outcome() order.RefundStatus {
	return c.outcome
}

func (c CompleteRefundCommand) TransactionRef() string {
	return c.transactionRef
}
