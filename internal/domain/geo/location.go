package geo

import (
	"errors"
	"math"
	"time"
)

// Point represents a plain latitude/longitude pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is a single vehicle location report. It is validated at the
// boundary and treated as immutable once constructed.
type Location struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters *float64
	SpeedKmh       *float64
	HeadingDegrees *float64
	RecordedAt     time.Time
}

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
	ErrNegativeAccuracy = errors.New("accuracy_meters cannot be negative")
	ErrNegativeSpeed    = errors.New("speed_kmh cannot be negative")
	ErrInvalidHeading   = errors.New("heading_degrees must be between 0 and 360")
)

// NewLocation constructs a validated Location. Only latitude and longitude
// are required; the optional metrics may be nil. A zero recordedAt defaults
// to now (UTC).
func NewLocation(
	latitude, longitude float64,
	accuracyMeters, speedKmh, headingDegrees *float64,
	recordedAt time.Time,
) (Location, error) {
	location := Location{
		Latitude:       latitude,
		Longitude:      longitude,
		AccuracyMeters: accuracyMeters,
		SpeedKmh:       speedKmh,
		HeadingDegrees: headingDegrees,
		RecordedAt:     recordedAt,
	}
	if location.RecordedAt.IsZero() {
		location.RecordedAt = time.Now().UTC()
	}
	if err := location.Validate(); err != nil {
		return Location{}, err
	}
	return location, nil
}

// Validate checks invariants of the Location value.
func (location Location) Validate() error {
	if location.Latitude < -90 || location.Latitude > 90 || math.IsNaN(location.Latitude) {
		return ErrInvalidLatitude
	}
	if location.Longitude < -180 || location.Longitude > 180 || math.IsNaN(location.Longitude) {
		return ErrInvalidLongitude
	}
	if location.AccuracyMeters != nil {
		if *location.AccuracyMeters < 0 || math.IsNaN(*location.AccuracyMeters) {
			return ErrNegativeAccuracy
		}
	}
	if location.SpeedKmh != nil {
		if *location.SpeedKmh < 0 || math.IsNaN(*location.SpeedKmh) {
			return ErrNegativeSpeed
		}
	}
	if location.HeadingDegrees != nil {
		// allow exactly 0 and 360 (some SDKs report 360.0 instead of 0.0)
		if *location.HeadingDegrees < 0 || *location.HeadingDegrees > 360 || math.IsNaN(*location.HeadingDegrees) {
			return ErrInvalidHeading
		}
	}
	return nil
}

// Point returns the bare coordinate pair of the report.
func (location Location) Point() Point {
	return Point{Latitude: location.Latitude, Longitude: location.Longitude}
}
