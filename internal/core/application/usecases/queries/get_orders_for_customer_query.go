package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrdersForCustomerQueryIsNotConstructed = errors.New(
	"GetOrdersForCustomerQuery must be created via NewGetOrdersForCustomerQuery constructor",
)

// GetOrdersForCustomerQuery lists a customer's orders, newest first.
type GetOrdersForCustomerQuery struct {
	actor      kernel.Actor
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrdersForCustomerQuery(actor kernel.Actor, customerID kernel.UUID) (GetOrdersForCustomerQuery, error) {
	if err := errors.Join(actor.Validate(), customerID.Validate()); err != nil {
		return GetOrdersForCustomerQuery{}, err
	}
	return GetOrdersForCustomerQuery{
		actor:      actor,
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrdersForCustomerQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersForCustomerQueryIsNotConstructed)
}

func (q GetOrdersForCustomerQuery) Actor() kernel.Actor {
	return q.actor
}

func (q GetOrdersForCustomerQuery) CustomerID() kernel.UUID {
	return q.customerID
}
