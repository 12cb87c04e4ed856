package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordPaymentCommandIsNotConstructed = errors.New(
	"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
)

// RecordPaymentCommand is issued by the payment gateway callback once a payment settled.
type RecordPaymentCommand struct {
	actor     kernel.Actor
	orderID   kernel.UUID
	paymentID string

	guard guard.ConstructorGuard
}

func NewRecordPaymentCommand(actor kernel.Actor, orderID kernel.UUID, paymentID string) (RecordPaymentCommand, error) {
	paymentID = strings.TrimSpace(paymentID)

	var missing error
	if paymentID == "" {
		missing = errs.NewValueIsRequiredError("payment id")
	}
	if err := errors.Join(actor.Validate(), orderID.Validate(), missing); err != nil {
		return RecordPaymentCommand{}, err
	}

	return RecordPaymentCommand{
		actor:     actor,
		orderID:   orderID,
		paymentID: paymentID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

func (c RecordPaymentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c RecordPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RecordPaymentCommand) PaymentID() string {
	return c.paymentID
}
