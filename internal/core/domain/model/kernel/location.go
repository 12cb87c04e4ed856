package kernel

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation")

// Location is a geographic point (WGS84 degrees) reported by a driver.
type Location struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewLocation validates both coordinates and returns the point.
// All coordinate errors are reported together.
func NewLocation(latitude, longitude float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLatitude(latitude), loc.setLongitude(longitude)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) Latitude() float64 {
	return l.latitude
}

func (l Location) Longitude() float64 {
	return l.longitude
}

func (l Location) String() string {
	return fmt.Sprintf("Location(%.6f,%.6f)", l.latitude, l.longitude)
}

func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.latitude == other.latitude && l.longitude == other.longitude, nil
}

func (l *Location) setLatitude(v float64) error {
	if v < LatitudeMin || v > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", v, LatitudeMin, LatitudeMax)
	}
	l.latitude = v
	return nil
}

func (l *Location) setLongitude(v float64) error {
	if v < LongitudeMin || v > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", v, LongitudeMin, LongitudeMax)
	}
	l.longitude = v
	return nil
}
