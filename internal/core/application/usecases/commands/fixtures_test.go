package commands_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

// newOrder builds the 2×100 + 1×50 order used across handler tests.
func newOrder(t *testing.T, customer kernel.Actor, mode order.PaymentMode) *order.Order {
	t.Helper()
	first, err := order.NewLineItem(kernel.NewUUID(), 2, kernel.MustMoney("100"))
	require.NoError(t, err)
	second, err := order.NewLineItem(kernel.NewUUID(), 1, kernel.MustMoney("50"))
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), order.NewTrackingID(), customer.ID(),
		[]order.LineItem{first, second}, mode)
	require.NoError(t, err)
	return o
}

// restore returns an independent copy, as a repository would on every read.
func restore(t *testing.T, o *order.Order) *order.Order {
	t.Helper()
	copied, err := order.RestoreOrder(o.Snapshot())
	require.NoError(t, err)
	return copied
}

func shippedOrder(t *testing.T, customer, admin kernel.Actor, driverID kernel.UUID) *order.Order {
	t.Helper()
	o := newOrder(t, customer, order.PaymentCOD)
	require.NoError(t, o.StartProcessing(admin))
	require.NoError(t, o.AssignDriver(admin, driverID))
	require.NoError(t, o.Ship(admin))
	o.PullChanges()
	return o
}
