package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActor(t *testing.T) {
	id := kernel.NewUUID()

	actor, err := kernel.NewActor(id, kernel.RoleDriver)
	require.NoError(t, err)
	assert.True(t, actor.Is(id))
	assert.Equal(t, kernel.RoleDriver, actor.Role())

	_, err = kernel.NewActor(id, kernel.Role("courier"))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = kernel.NewActor(kernel.UUID{}, kernel.RoleAdmin)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestRole_Capabilities(t *testing.T) {
	tests := []struct {
		role           kernel.Role
		administrative bool
		staff          bool
	}{
		{kernel.RoleAdmin, true, true},
		{kernel.RoleSystem, true, true},
		{kernel.RoleWarehouseManager, false, true},
		{kernel.RoleDriver, false, false},
		{kernel.RoleCustomer, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.administrative, tt.role.IsAdministrative())
			assert.Equal(t, tt.staff, tt.role.IsStaff())
		})
	}
}

func TestSystemActor(t *testing.T) {
	actor := kernel.SystemActor()

	require.NoError(t, actor.Validate())
	assert.Equal(t, kernel.RoleSystem, actor.Role())
	assert.True(t, actor.Is(kernel.SystemActorID))
}
