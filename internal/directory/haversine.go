package directory

import (
	"fmt"
	"math"

	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/model"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm computes the great-circle distance between two coordinates in
// kilometers using the haversine formula.
func DistanceKm(a, b model.Coordinates) float64 {
	lat1 := degToRad(a.Lat)
	lat2 := degToRad(b.Lat)
	deltaLat := degToRad(b.Lat - a.Lat)
	deltaLng := degToRad(b.Lng - a.Lng)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// roundKm rounds a distance to two decimal places for display.
func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// ValidateCoordinates rejects positions outside the WGS84 domain.
func ValidateCoordinates(c model.Coordinates) error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", common.ErrInvalidCoordinates, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", common.ErrInvalidCoordinates, c.Lng)
	}
	return nil
}
