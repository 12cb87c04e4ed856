package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CreateOrderCommandHandler prices the requested lines against the catalog and
// persists a new Pending order.
//
// Business rules:
//   - Customers order for themselves; admins may order on behalf of a customer
//   - Every product must resolve in the catalog (NotFound otherwise)
//   - Unit prices are captured once; the total is never recomputed
//   - A tracking id collision is retried with a fresh id
type CreateOrderCommandHandler struct {
	uowFactory  UoWFactory
	maxAttempts int
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(uowFactory UoWFactory, maxAttempts int) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:  uowFactory,
		maxAttempts: maxAttempts,
	}
}

// Handle creates the order and returns its snapshot.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, command CreateOrderCommand) (order.Snapshot, error) {
	if err := command.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	actor := command.Actor()
	switch {
	case actor.Role() == kernel.RoleCustomer && actor.Is(command.CustomerID()):
	case actor.Role() == kernel.RoleAdmin:
	default:
		return order.Snapshot{}, errs.NewAccessDeniedError("create order for another customer")
	}

	var snapshot order.Snapshot
	err := retry(ctx, h.maxAttempts, func(err error) bool {
		return errors.Is(err, errs.ErrConflict)
	}, func(ctx context.Context) error {
		uow := h.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		items, err := priceItems(ctx, uow.ProductCatalog(), command.Items())
		if err != nil {
			return err
		}

		created, err := order.NewOrder(
			kernel.NewUUID(),
			order.NewTrackingID(),
			command.CustomerID(),
			items,
			command.PaymentMode(),
		)
		if err != nil {
			return err
		}

		if err = uow.OrderRepository().Add(ctx, created); err != nil {
			return err
		}

		if err = uow.Commit(ctx); err != nil {
			return err
		}

		snapshot = created.Snapshot()
		return nil
	})

	return snapshot, err
}

func priceItems(ctx context.Context, catalog ports.ProductCatalog, inputs []OrderItemInput) ([]order.LineItem, error) {
	ids := make([]kernel.UUID, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ProductID)
	}

	products, err := catalog.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]product.Product, len(products))
	for _, p := range products {
		byID[p.ID.String()] = p
	}

	items := make([]order.LineItem, 0, len(inputs))
	for _, in := range inputs {
		p, ok := byID[in.ProductID.String()]
		if !ok {
			return nil, errs.NewObjectNotFoundError("product", in.ProductID.String())
		}
		item, err := order.NewLineItem(p.ID, in.Quantity, p.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}
