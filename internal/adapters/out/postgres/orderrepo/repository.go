package orderrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker receives every aggregate written through the repository.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order and its line items. The database must be opened with
// TranslateError so that duplicate keys surface as gorm.ErrDuplicatedKey.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("order "+aggregate.ID().String()+" already exists", err)
		}
		return err
	}

	r.track(aggregate)
	return nil
}

// Update writes the mutable columns conditionally on the version the
// aggregate was loaded with, then stamps the aggregate with the new version.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	expected := aggregate.Version()
	next := expected + 1
	now := time.Now().UTC()

	values := dto.mutableColumns()
	values["version"] = next
	values["updated_at"] = now

	db := r.db.WithContext(ctx)
	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Updates(values)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("refund id already in use", result.Error)
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewVersionConflictError("order", aggregate.ID().String(), expected)
	}

	aggregate.Persisted(next, now)
	r.track(aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "order", id.String(), "id = ?", id.Bytes())
}

// GetByTrackingID retrieves an order by its customer-facing identifier.
func (r *GormOrderRepository) GetByTrackingID(ctx context.Context, trackingID order.TrackingID) (*order.Order, error) {
	if err := trackingID.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "shipment", trackingID.String(), "tracking_id = ?", trackingID.String())
}

// GetByRefundID retrieves the order that owns the refund.
func (r *GormOrderRepository) GetByRefundID(ctx context.Context, refundID kernel.UUID) (*order.Order, error) {
	if err := refundID.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "refund", refundID.String(), "refund_id = ?", refundID.Bytes())
}

// ListByCustomer returns the customer's orders, newest first.
func (r *GormOrderRepository) ListByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}
	return r.find(ctx, r.withItems(ctx).
		Where("customer_id = ?", customerID.Bytes()).
		Order("created_at DESC"))
}

// ListActiveByDriver returns the Processing and Shipped orders assigned to the driver.
func (r *GormOrderRepository) ListActiveByDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}
	return r.find(ctx, r.withItems(ctx).
		Where("driver_id = ? AND status IN ?", driverID.Bytes(),
			[]string{order.Processing.String(), order.Shipped.String()}).
		Order("created_at DESC"))
}

// ListPendingCreatedBefore returns up to limit Pending orders created before cutoff, oldest first.
func (r *GormOrderRepository) ListPendingCreatedBefore(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*order.Order, error) {
	return r.find(ctx, r.withItems(ctx).
		Where("status = ? AND created_at < ?", order.Pending.String(), cutoff.UTC()).
		Order("created_at ASC").
		Limit(limit))
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func (r *GormOrderRepository) first(
	ctx context.Context,
	subject, key string,
	query string,
	args ...any,
) (*order.Order, error) {
	var dto OrderDTO
	if err := r.withItems(ctx).Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(subject, key)
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormOrderRepository) find(_ context.Context, query *gorm.DB) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *GormOrderRepository) track(aggregate *order.Order) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	}
}
