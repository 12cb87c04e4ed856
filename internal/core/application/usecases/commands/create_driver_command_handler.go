package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// CreateDriverCommandHandler registers drivers. Only administrative actors may do so.
type CreateDriverCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewCreateDriverCommandHandler(uowFactory DriverUoWFactory) CreateDriverCommandHandler {
	return CreateDriverCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle persists the driver and returns its identifier.
func (h CreateDriverCommandHandler) Handle(ctx context.Context, command CreateDriverCommand) (kernel.UUID, error) {
	if err := command.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	if role := command.Actor().Role(); !role.IsAdministrative() {
		return kernel.UUID{}, errs.NewAccessDeniedError(fmt.Sprintf("%s may not register drivers", role))
	}

	d, err := driver.NewDriver(kernel.NewUUID(), command.Name(), command.Phone())
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DriverRepository().Add(ctx, d); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return d.ID(), nil
}
