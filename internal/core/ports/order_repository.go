// Package ports defines the contracts between the fulfillment core and its
// infrastructure: persistence, the product catalog, the delivery OTP store and
// transition observers.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	// Returns a ConflictError if the id or tracking id is already taken.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, conditionally on
	// the stored version still matching aggregate.Version(). The stored version
	// is incremented on success.
	//
	// Returns:
	//   - *errs.VersionConflictError if another writer won the race
	//   - *errs.ObjectNotFoundError if the order does not exist
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its internal identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByTrackingID retrieves an order by its customer-facing identifier.
	GetByTrackingID(ctx context.Context, trackingID order.TrackingID) (*order.Order, error)

	// GetByRefundID retrieves the order owning the refund refundID.
	GetByRefundID(ctx context.Context, refundID kernel.UUID) (*order.Order, error)

	// ListByCustomer returns the customer's orders, newest first.
	ListByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error)

	// ListActiveByDriver returns the Processing and Shipped orders assigned to
	// driverID, newest first.
	ListActiveByDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error)

	// ListPendingCreatedBefore returns up to limit Pending orders created
	// before cutoff, oldest first.
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error)
}
