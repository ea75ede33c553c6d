package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/model"
)

func TestDistanceKm_ZeroAtIdentity(t *testing.T) {
	p := model.Coordinates{Lat: 13.0069, Lng: 76.0991}
	assert.Zero(t, DistanceKm(p, p))
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := model.Coordinates{Lat: 13.0069, Lng: 76.0991}
	b := model.Coordinates{Lat: 12.9716, Lng: 77.5946}

	assert.InDelta(t, DistanceKm(a, b), DistanceKm(b, a), 1e-9)
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	// Hassan to Bengaluru is roughly 163 km as the crow flies.
	hassan := model.Coordinates{Lat: 13.0069, Lng: 76.0991}
	bengaluru := model.Coordinates{Lat: 12.9716, Lng: 77.5946}

	km := DistanceKm(hassan, bengaluru)
	assert.Greater(t, km, 150.0)
	assert.Less(t, km, 180.0)
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		coords  model.Coordinates
		wantErr bool
	}{
		{name: "valid", coords: model.Coordinates{Lat: 13.0, Lng: 76.1}},
		{name: "boundary", coords: model.Coordinates{Lat: -90, Lng: 180}},
		{name: "lat too high", coords: model.Coordinates{Lat: 90.1, Lng: 0}, wantErr: true},
		{name: "lat too low", coords: model.Coordinates{Lat: -91, Lng: 0}, wantErr: true},
		{name: "lng too high", coords: model.Coordinates{Lat: 0, Lng: 181}, wantErr: true},
		{name: "lng too low", coords: model.Coordinates{Lat: 0, Lng: -180.5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinates(tt.coords)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidCoordinates)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
