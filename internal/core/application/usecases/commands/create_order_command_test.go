package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	customer := newActor(t, kernel.RoleCustomer)
	productA := kernel.NewUUID()
	productB := kernel.NewUUID()

	t.Run("should merge duplicate product lines", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand(customer, customer.ID(), []commands.OrderItemInput{
			{ProductID: productA, Quantity: 1},
			{ProductID: productB, Quantity: 1},
			{ProductID: productA, Quantity: 2},
		}, order.PaymentCOD)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		items := cmd.Items()
		require.Len(t, items, 2)
		assert.True(t, items[0].ProductID.IsEqual(productA))
		assert.Equal(t, 3, items[0].Quantity)
		assert.Equal(t, 1, items[1].Quantity)
	})

	t.Run("should reject empty items", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(customer, customer.ID(), nil, order.PaymentCOD)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should report every invalid line", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(customer, customer.ID(), []commands.OrderItemInput{
			{ProductID: productA, Quantity: 0},
			{Quantity: 1},
		}, "Barter")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "items[0].quantity")
		assert.Contains(t, err.Error(), "items[1].productId")
		assert.Contains(t, err.Error(), "payment mode")
	})

	t.Run("should fail validation when not constructed", func(t *testing.T) {
		var cmd commands.CreateOrderCommand
		assert.Equal(t, commands.ErrCreateOrderCommandIsNotConstructed, cmd.Validate())
	})
}
