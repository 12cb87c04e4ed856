package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetDriverOrdersQueryIsNotConstructed = errors.New(
	"GetDriverOrdersQuery must be created via NewGetDriverOrdersQuery constructor",
)

// GetDriverOrdersQuery lists the Processing and Shipped orders assigned to a driver.
type GetDriverOrdersQuery struct {
	actor    kernel.Actor
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetDriverOrdersQuery(actor kernel.Actor, driverID kernel.UUID) (GetDriverOrdersQuery, error) {
	if err := errors.Join(actor.Validate(), driverID.Validate()); err != nil {
		return GetDriverOrdersQuery{}, err
	}
	return GetDriverOrdersQuery{
		actor:    actor,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetDriverOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverOrdersQueryIsNotConstructed)
}

func (q GetDriverOrdersQuery) Actor() kernel.Actor {
	return q.actor
}

func (q GetDriverOrdersQuery) DriverID() kernel.UUID {
	return q.driverID
}
