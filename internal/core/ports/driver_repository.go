package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for registered drivers.
type DriverRepository interface {
	// Add persists a newly registered driver.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Get retrieves a driver by identifier.
	// Returns an ObjectNotFoundError if no such driver is registered.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)
}
