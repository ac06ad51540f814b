package geo

import (
	"errors"
	"strings"
)

// FenceKind corresponds to the values in the `geofence_kind` column.
type FenceKind string

const (
	FencePickup  FenceKind = "PICKUP"
	FenceDropoff FenceKind = "DROPOFF"
	FenceOther   FenceKind = "OTHER"
)

var (
	ErrInvalidFenceKind = errors.New("invalid geofence kind")
	ErrEmptyFenceID     = errors.New("geofence id cannot be empty")
	ErrEmptyFenceName   = errors.New("geofence name cannot be empty")
	ErrDegenerateFence  = errors.New("geofence boundary needs at least 3 vertices")
)

// ParseFenceKind normalizes (uppercases+trims) and validates a kind string.
func ParseFenceKind(input string) (FenceKind, error) {
	kind := FenceKind(strings.ToUpper(strings.TrimSpace(input)))
	if kind.Valid() {
		return kind, nil
	}
	return "", ErrInvalidFenceKind
}

// Valid reports whether kind is one of the allowed kind constants.
func (kind FenceKind) Valid() bool {
	switch kind {
	case FencePickup, FenceDropoff, FenceOther:
		return true
	default:
		return false
	}
}

// String returns the string representation of the FenceKind.
func (kind FenceKind) String() string {
	return string(kind)
}

// Geofence is a named polygonal region used to detect vehicle proximity to
// pickup/dropoff points. The boundary is an ordered simple polygon; the
// closing edge between the last and first vertex is implicit.
//
// Containment checks treat latitude/longitude as a local planar projection,
// which is only an approximation. It is fine at the short distances the
// fences cover; do not reuse these polygons for large-area work.
type Geofence struct {
	ID       string
	Name     string
	Kind     FenceKind
	Boundary []Point
	Active   bool
}

// Validate checks invariants of the Geofence entity.
func (fence Geofence) Validate() error {
	if strings.TrimSpace(fence.ID) == "" {
		return ErrEmptyFenceID
	}
	if strings.TrimSpace(fence.Name) == "" {
		return ErrEmptyFenceName
	}
	if !fence.Kind.Valid() {
		return ErrInvalidFenceKind
	}
	if len(fence.Boundary) < 3 {
		return ErrDegenerateFence
	}
	for _, vertex := range fence.Boundary {
		if vertex.Latitude < -90 || vertex.Latitude > 90 {
			return ErrInvalidLatitude
		}
		if vertex.Longitude < -180 || vertex.Longitude > 180 {
			return ErrInvalidLongitude
		}
	}
	return nil
}

// Contains reports whether point falls inside the fence boundary.
func (fence Geofence) Contains(point Point) bool {
	return PolygonContains(fence.Boundary, point)
}
