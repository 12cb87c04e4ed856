package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderItemInput is one requested product line before pricing.
type OrderItemInput struct {
	ProductID kernel.UUID
	Quantity  int
}

// CreateOrderCommand represents a customer checkout.
// Lines referencing the same product are merged, keeping the first position.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(actor, actor.ID(), []OrderItemInput{
//	    {ProductID: shirtID, Quantity: 2},
//	    {ProductID: capID, Quantity: 1},
//	}, order.PaymentCOD)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	actor       kernel.Actor
	customerID  kernel.UUID
	items       []OrderItemInput
	paymentMode order.PaymentMode

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the checkout request.
// Returns a validation error listing every invalid parameter.
func NewCreateOrderCommand(
	actor kernel.Actor,
	customerID kernel.UUID,
	items []OrderItemInput,
	paymentMode order.PaymentMode,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setCustomerID(customerID),
		cmd.setItems(items),
		cmd.setPaymentMode(paymentMode),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Items returns the merged product lines.
func (c CreateOrderCommand) Items() []OrderItemInput {
	items := make([]OrderItemInput, len(c.items))
	copy(items, c.items)
	return items
}

func (c CreateOrderCommand) PaymentMode() order.PaymentMode {
	return c.paymentMode
}

func (c *CreateOrderCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}
	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	merged := make([]OrderItemInput, 0, len(items))
	positions := make(map[string]int, len(items))
	var problems []error

	for i, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			problems = append(problems, errs.NewValueIsRequiredErrorWithCause(fmt.Sprintf("items[%d].productId", i), err))
			continue
		}
		if item.Quantity <= 0 {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].quantity", i), fmt.Errorf("%d is not greater than 0", item.Quantity)))
			continue
		}

		key := item.ProductID.String()
		if pos, ok := positions[key]; ok {
			merged[pos].Quantity += item.Quantity
			continue
		}
		positions[key] = len(merged)
		merged = append(merged, item)
	}

	if len(problems) > 0 {
		return errors.Join(problems...)
	}

	c.items = merged
	return nil
}

func (c *CreateOrderCommand) setPaymentMode(mode order.PaymentMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	c.paymentMode = mode
	return nil
}
