package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// GetOrderQueryHandler builds the invoice snapshot of an order.
//
// Customers see only their own orders and drivers only the orders assigned to
// them. Products that have since left the catalog keep an empty name; the
// captured unit price is always the one from the order.
type GetOrderQueryHandler struct {
	orders  OrderReader
	catalog ports.ProductCatalog
}

func NewGetOrderQueryHandler(orders OrderReader, catalog ports.ProductCatalog) (*GetOrderQueryHandler, error) {
	if orders == nil {
		return nil, errs.NewValueIsRequiredError("orders")
	}
	if catalog == nil {
		return nil, errs.NewValueIsRequiredError("catalog")
	}
	return &GetOrderQueryHandler{orders: orders, catalog: catalog}, nil
}

func (h *GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return OrderView{}, err
	}
	if !o.CanBeViewedBy(query.Actor()) {
		return OrderView{}, errs.NewAccessDeniedError("view order")
	}

	items := o.Items()
	ids := make([]kernel.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID())
	}
	products, err := h.catalog.GetProducts(ctx, ids)
	if err != nil {
		return OrderView{}, err
	}

	names := make(map[kernel.UUID]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return NewOrderView(o.Snapshot(), names), nil
}
