package geo

import (
	"errors"
	"testing"
	"time"
)

func fptr(v float64) *float64 { return &v }

func TestNewLocationValidation(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		accuracy *float64
		speed    *float64
		heading  *float64
		wantErr  error
	}{
		{name: "valid minimal", lat: 41.3, lng: 69.2},
		{name: "valid with metrics", lat: 41.3, lng: 69.2, accuracy: fptr(4.5), speed: fptr(35), heading: fptr(270)},
		{name: "heading of exactly 360 accepted", lat: 0, lng: 0, heading: fptr(360)},
		{name: "latitude too high", lat: 90.1, lng: 0, wantErr: ErrInvalidLatitude},
		{name: "latitude too low", lat: -91, lng: 0, wantErr: ErrInvalidLatitude},
		{name: "longitude too high", lat: 0, lng: 180.5, wantErr: ErrInvalidLongitude},
		{name: "longitude too low", lat: 0, lng: -181, wantErr: ErrInvalidLongitude},
		{name: "negative accuracy", lat: 0, lng: 0, accuracy: fptr(-1), wantErr: ErrNegativeAccuracy},
		{name: "negative speed", lat: 0, lng: 0, speed: fptr(-0.1), wantErr: ErrNegativeSpeed},
		{name: "heading above 360", lat: 0, lng: 0, heading: fptr(361), wantErr: ErrInvalidHeading},
		{name: "heading below zero", lat: 0, lng: 0, heading: fptr(-5), wantErr: ErrInvalidHeading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLocation(tt.lat, tt.lng, tt.accuracy, tt.speed, tt.heading, time.Now())
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewLocation() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewLocation() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewLocationDefaultsRecordedAt(t *testing.T) {
	before := time.Now().UTC()
	loc, err := NewLocation(1, 2, nil, nil, nil, time.Time{})
	if err != nil {
		t.Fatalf("NewLocation: %v", err)
	}
	if loc.RecordedAt.Before(before) || loc.RecordedAt.After(time.Now().UTC().Add(time.Second)) {
		t.Fatalf("zero recordedAt should default to now, got %v", loc.RecordedAt)
	}
}

func TestGeofenceValidate(t *testing.T) {
	valid := Geofence{
		ID:   "gf-1",
		Name: "school yard",
		Kind: FencePickup,
		Boundary: []Point{
			{Latitude: 0, Longitude: 0},
			{Latitude: 0, Longitude: 1},
			{Latitude: 1, Longitude: 1},
		},
		Active: true,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid fence rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Geofence)
		wantErr error
	}{
		{"empty id", func(g *Geofence) { g.ID = " " }, ErrEmptyFenceID},
		{"empty name", func(g *Geofence) { g.Name = "" }, ErrEmptyFenceName},
		{"bad kind", func(g *Geofence) { g.Kind = "CIRCLE" }, ErrInvalidFenceKind},
		{"two vertices", func(g *Geofence) { g.Boundary = g.Boundary[:2] }, ErrDegenerateFence},
		{"vertex out of range", func(g *Geofence) { g.Boundary[0].Latitude = 95 }, ErrInvalidLatitude},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fence := valid
			fence.Boundary = append([]Point(nil), valid.Boundary...)
			tt.mutate(&fence)
			if err := fence.Validate(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseFenceKind(t *testing.T) {
	if kind, err := ParseFenceKind("  pickup "); err != nil || kind != FencePickup {
		t.Fatalf("ParseFenceKind(pickup) = %v, %v", kind, err)
	}
	if _, err := ParseFenceKind("hexagon"); !errors.Is(err, ErrInvalidFenceKind) {
		t.Fatalf("ParseFenceKind(hexagon) error = %v, want ErrInvalidFenceKind", err)
	}
}
