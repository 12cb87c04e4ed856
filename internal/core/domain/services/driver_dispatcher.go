package services

import (
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// DriverDispatcher is a domain service that hands an order to a registered
// driver. Neither aggregate can check the other's invariants, so the rules
// that span both live here.
//
// Business rules:
//   - Both aggregates must be valid
//   - The driver must be active
//   - The order decides whether the actor and its status allow assignment
//
// Example usage:
//
//	dispatcher := NewDriverDispatcher()
//	if err := dispatcher.Dispatch(actor, o, d); err != nil {
//	    return err
//	}
//	// o is now assigned to d
type DriverDispatcher struct{}

func NewDriverDispatcher() DriverDispatcher {
	return DriverDispatcher{}
}

// Dispatch assigns d to o on behalf of actor.
func (DriverDispatcher) Dispatch(actor kernel.Actor, o *order.Order, d *driver.Driver) error {
	if o == nil {
		return errs.NewValueIsRequiredError("order")
	}
	if d == nil {
		return errs.NewValueIsRequiredError("driver")
	}
	if err := o.Validate(); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}

	if err := d.EnsureAssignable(); err != nil {
		return err
	}
	return o.AssignDriver(actor, d.ID())
}
