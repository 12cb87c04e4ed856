package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetDriversQueryIsNotConstructed = errors.New(
	"GetDriversQuery must be created via NewGetDriversQuery constructor",
)

// GetDriversQuery lists every registered driver together with the number of
// orders they are currently carrying.
//
// Example:
//
//	query, err := NewGetDriversQuery(admin)
//	if err != nil {
//	    return err
//	}
//	drivers, err := handler.Handle(ctx, query)
type GetDriversQuery struct {
	actor kernel.Actor

	guard guard.ConstructorGuard
}

func NewGetDriversQuery(actor kernel.Actor) (GetDriversQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetDriversQuery{}, err
	}
	return GetDriversQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDriversQuery) Validate() error {
	return q.guard.Validate(ErrGetDriversQueryIsNotConstructed)
}

func (q GetDriversQuery) Actor() kernel.Actor {
	return q.actor
}

// GetDriversQueryResponse is the driver read model.
type GetDriversQueryResponse struct {
	ID           kernel.UUID
	Name         string
	Phone        string
	Active       bool
	ActiveOrders int
}
