package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name      string
		latitude  float64
		longitude float64
		wantErr   bool
	}{
		{name: "valid location", latitude: 12.9716, longitude: 77.5946},
		{name: "bounds are inclusive", latitude: kernel.LatitudeMax, longitude: kernel.LongitudeMin},
		{name: "latitude too small", latitude: -90.5, longitude: 0, wantErr: true},
		{name: "latitude too large", latitude: 91, longitude: 0, wantErr: true},
		{name: "longitude too large", latitude: 0, longitude: 180.01, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := kernel.NewLocation(tt.latitude, tt.longitude)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				return
			}
			require.NoError(t, err)
			require.NoError(t, loc.Validate())
			assert.InDelta(t, tt.latitude, loc.Latitude(), 1e-9)
			assert.InDelta(t, tt.longitude, loc.Longitude(), 1e-9)
		})
	}
}

func TestNewLocation_ReportsBothCoordinates(t *testing.T) {
	_, err := kernel.NewLocation(100, 200)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")
	assert.Contains(t, err.Error(), "longitude")
}

func TestLocation_IsEqual(t *testing.T) {
	a, _ := kernel.NewLocation(1.5, 2.5)
	b, _ := kernel.NewLocation(1.5, 2.5)
	c, _ := kernel.NewLocation(1.5, 2.6)

	eq, err := a.IsEqual(b)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = a.IsEqual(c)
	require.NoError(t, err)
	assert.False(t, eq)

	_, err = a.IsEqual(kernel.Location{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
