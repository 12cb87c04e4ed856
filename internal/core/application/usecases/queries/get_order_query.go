package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery fetches a single order with its line items resolved against
// the product catalog.
type GetOrderQuery struct {
	actor   kernel.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(actor kernel.Actor, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{
		actor:   actor,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) Actor() kernel.Actor {
	return q.actor
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}
