package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// GetOrdersForCustomerQueryHandler serves a customer's order history.
// Customers may only list their own orders; staff may list anyone's.
type GetOrdersForCustomerQueryHandler struct {
	orders OrderReader
}

func NewGetOrdersForCustomerQueryHandler(orders OrderReader) (*GetOrdersForCustomerQueryHandler, error) {
	if orders == nil {
		return nil, errs.NewValueIsRequiredError("orders")
	}
	return &GetOrdersForCustomerQueryHandler{orders: orders}, nil
}

func (h *GetOrdersForCustomerQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersForCustomerQuery,
) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	actor := query.Actor()
	switch {
	case actor.Role().IsStaff():
	case actor.Role() == kernel.RoleCustomer && actor.Is(query.CustomerID()):
	default:
		return nil, errs.NewAccessDeniedError("list orders of another customer")
	}

	orders, err := h.orders.ListByCustomer(ctx, query.CustomerID())
	if err != nil {
		return nil, err
	}
	return newOrderViews(orders), nil
}
