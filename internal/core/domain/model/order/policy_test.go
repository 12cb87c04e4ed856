package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		from    order.Status
		to      order.Status
		role    kernel.Role
		wantErr error
	}{
		{"warehouse starts processing", order.Pending, order.Processing, kernel.RoleWarehouseManager, nil},
		{"system starts processing", order.Pending, order.Processing, kernel.RoleSystem, nil},
		{"customer cannot start processing", order.Pending, order.Processing, kernel.RoleCustomer, errs.ErrAccessDenied},
		{"driver ships", order.Processing, order.Shipped, kernel.RoleDriver, nil},
		{"customer cannot ship", order.Processing, order.Shipped, kernel.RoleCustomer, errs.ErrAccessDenied},
		{"customer confirms delivery", order.Shipped, order.Delivered, kernel.RoleCustomer, nil},
		{"customer cancels pending", order.Pending, order.Cancelled, kernel.RoleCustomer, nil},
		{"customer cancels processing", order.Processing, order.Cancelled, kernel.RoleCustomer, nil},
		{"customer cannot cancel shipped", order.Shipped, order.Cancelled, kernel.RoleCustomer, errs.ErrAccessDenied},
		{"admin cancels shipped", order.Shipped, order.Cancelled, kernel.RoleAdmin, nil},
		{"warehouse cannot cancel", order.Pending, order.Cancelled, kernel.RoleWarehouseManager, errs.ErrAccessDenied},
		{"driver cannot cancel", order.Shipped, order.Cancelled, kernel.RoleDriver, errs.ErrAccessDenied},
		{"no skipping to delivered", order.Processing, order.Delivered, kernel.RoleAdmin, errs.ErrConflict},
		{"no skipping to shipped", order.Pending, order.Shipped, kernel.RoleAdmin, errs.ErrConflict},
		{"delivered is terminal", order.Delivered, order.Cancelled, kernel.RoleAdmin, errs.ErrConflict},
		{"cancelled is terminal", order.Cancelled, order.Pending, kernel.RoleSystem, errs.ErrConflict},
		{"no going back", order.Shipped, order.Processing, kernel.RoleAdmin, errs.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := order.Authorize(tt.from, tt.to, tt.role)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, order.CanTransition(order.Pending, order.Processing))
	assert.True(t, order.CanTransition(order.Shipped, order.Cancelled))
	assert.False(t, order.CanTransition(order.Delivered, order.Cancelled))
	assert.False(t, order.CanTransition(order.Pending, order.Pending))
}
