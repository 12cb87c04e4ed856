package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// AssignDriverCommandHandler coordinates the driver registry and the order
// aggregate within one transaction.
//
// Business rules:
//   - Only administrative actors may assign drivers
//   - The driver must be registered (NotFound) and active (Conflict)
//   - The order must be Pending or Processing and not yet assigned (Conflict)
type AssignDriverCommandHandler struct {
	uowFactory  UoWFactory
	dispatcher  services.DriverDispatcher
	maxAttempts int
}

func NewAssignDriverCommandHandler(uowFactory UoWFactory, maxAttempts int) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory:  uowFactory,
		dispatcher:  services.NewDriverDispatcher(),
		maxAttempts: maxAttempts,
	}
}

func (h AssignDriverCommandHandler) Handle(ctx context.Context, command AssignDriverCommand) (order.Snapshot, error) {
	if err := command.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	actor := command.Actor()
	if !actor.Role().IsAdministrative() {
		return order.Snapshot{}, errs.NewAccessDeniedError(fmt.Sprintf("%s may not assign drivers", actor.Role()))
	}

	var snapshot order.Snapshot
	err := retryOnVersionConflict(ctx, h.maxAttempts, func(ctx context.Context) error {
		uow := h.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		ordersRepo := uow.OrderRepository()
		driverRepo := uow.DriverRepository()

		o, err := ordersRepo.Get(ctx, command.OrderID())
		if err != nil {
			return err
		}

		d, err := driverRepo.Get(ctx, command.DriverID())
		if err != nil {
			return err
		}

		if err = h.dispatcher.Dispatch(actor, o, d); err != nil {
			return err
		}

		if err = ordersRepo.Update(ctx, o); err != nil {
			return err
		}

		if err = uow.Commit(ctx); err != nil {
			return err
		}

		snapshot = o.Snapshot()
		return nil
	})

	return snapshot, err
}
