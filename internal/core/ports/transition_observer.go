package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// TransitionObserver is notified of every status change after the transaction
// that applied it committed.
type TransitionObserver interface {
	OrderTransitioned(ctx context.Context, change order.StatusChange)
}
