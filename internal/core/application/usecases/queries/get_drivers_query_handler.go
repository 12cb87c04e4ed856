package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDriversQueryHandler reads the driver registry with plain SQL.
// Only admin and warehouse staff may list drivers.
type GetDriversQueryHandler struct {
	db *gorm.DB
}

func NewGetDriversQueryHandler(db *gorm.DB) (*GetDriversQueryHandler, error) {
	if db == nil {
		return nil, errs.NewValueIsRequiredError("db")
	}
	return &GetDriversQueryHandler{db: db}, nil
}

// Handle returns the drivers sorted by name.
func (h *GetDriversQueryHandler) Handle(ctx context.Context, query GetDriversQuery) ([]GetDriversQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if !query.Actor().Role().IsStaff() {
		return nil, errs.NewAccessDeniedError("list drivers")
	}

	drivers := make([]GetDriversQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			d.id,
			d.name,
			d.phone,
			d.active,
			(
				SELECT COUNT(*)
				FROM orders o
				WHERE o.driver_id = d.id AND o.status IN (?, ?)
			) AS active_orders
		FROM drivers d
		ORDER BY d.name, d.id
	`, order.Processing.String(), order.Shipped.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d GetDriversQueryResponse
		var id uuid.UUID

		if err = rows.Scan(&id, &d.Name, &d.Phone, &d.Active, &d.ActiveOrders); err != nil {
			return nil, err
		}

		driverID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		d.ID = driverID
		drivers = append(drivers, d)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return drivers, nil
}
