package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// GetDriverOrdersQueryHandler serves a driver's active work list.
// Drivers may read only their own list; staff may read any driver's.
type GetDriverOrdersQueryHandler struct {
	orders OrderReader
}

func NewGetDriverOrdersQueryHandler(orders OrderReader) (*GetDriverOrdersQueryHandler, error) {
	if orders == nil {
		return nil, errs.NewValueIsRequiredError("orders")
	}
	return &GetDriverOrdersQueryHandler{orders: orders}, nil
}

func (h *GetDriverOrdersQueryHandler) Handle(ctx context.Context, query GetDriverOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	actor := query.Actor()
	switch {
	case actor.Role().IsStaff():
	case actor.Role() == kernel.RoleDriver && actor.Is(query.DriverID()):
	default:
		return nil, errs.NewAccessDeniedError("list orders of another driver")
	}

	orders, err := h.orders.ListActiveByDriver(ctx, query.DriverID())
	if err != nil {
		return nil, err
	}
	return newOrderViews(orders), nil
}
