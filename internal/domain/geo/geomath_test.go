package geo

import (
	"math"
	"testing"
	"time"
)

func TestHaversineKnownDistances(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Point
		wantM   float64
		within  float64
	}{
		{
			name:   "same point",
			a:      Point{Latitude: 41.3, Longitude: 69.2},
			b:      Point{Latitude: 41.3, Longitude: 69.2},
			wantM:  0,
			within: 0.001,
		},
		{
			name:   "one degree of longitude on the equator",
			a:      Point{Latitude: 0, Longitude: 0},
			b:      Point{Latitude: 0, Longitude: 1},
			wantM:  111195, // 6371000 * pi/180
			within: 10,
		},
		{
			name:   "one degree of latitude",
			a:      Point{Latitude: 10, Longitude: 20},
			b:      Point{Latitude: 11, Longitude: 20},
			wantM:  111195,
			within: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.a, tt.b)
			if math.Abs(got-tt.wantM) > tt.within {
				t.Fatalf("Haversine() = %.2f m, want %.2f m (+-%.2f)", got, tt.wantM, tt.within)
			}
		})
	}
}

func TestHaversineIsSymmetric(t *testing.T) {
	a := Point{Latitude: 41.311, Longitude: 69.279}
	b := Point{Latitude: 41.326, Longitude: 69.228}

	if d1, d2 := Haversine(a, b), Haversine(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("Haversine not symmetric: %.6f vs %.6f", d1, d2)
	}
}

func TestPolygonContains(t *testing.T) {
	square := []Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 2},
		{Latitude: 2, Longitude: 2},
		{Latitude: 2, Longitude: 0},
	}

	tests := []struct {
		name  string
		point Point
		want  bool
	}{
		{"center of the square", Point{Latitude: 1, Longitude: 1}, true},
		{"clearly outside", Point{Latitude: 5, Longitude: 5}, false},
		{"outside on one axis only", Point{Latitude: 1, Longitude: 3}, false},
		{"negative quadrant", Point{Latitude: -1, Longitude: 1}, false},
		{"near a corner but inside", Point{Latitude: 0.1, Longitude: 0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonContains(square, tt.point); got != tt.want {
				t.Fatalf("PolygonContains(%+v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestPolygonContainsDegenerate(t *testing.T) {
	line := []Point{{Latitude: 0, Longitude: 0}, {Latitude: 1, Longitude: 1}}
	if PolygonContains(line, Point{Latitude: 0.5, Longitude: 0.5}) {
		t.Fatal("a two-vertex boundary must contain nothing")
	}
	if PolygonContains(nil, Point{}) {
		t.Fatal("an empty boundary must contain nothing")
	}
}

func TestPolygonContainsConcave(t *testing.T) {
	// an L-shaped polygon: the notch at the top right is outside
	lShape := []Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 4},
		{Latitude: 2, Longitude: 4},
		{Latitude: 2, Longitude: 2},
		{Latitude: 4, Longitude: 2},
		{Latitude: 4, Longitude: 0},
	}

	if !PolygonContains(lShape, Point{Latitude: 1, Longitude: 3}) {
		t.Fatal("point in the lower arm should be inside")
	}
	if PolygonContains(lShape, Point{Latitude: 3, Longitude: 3}) {
		t.Fatal("point in the notch should be outside")
	}
}

func TestPathDistance(t *testing.T) {
	mkLoc := func(lat, lng float64) Location {
		loc, err := NewLocation(lat, lng, nil, nil, nil, time.Now())
		if err != nil {
			t.Fatalf("NewLocation: %v", err)
		}
		return loc
	}

	t.Run("short paths yield zero", func(t *testing.T) {
		if d := PathDistance(nil); d != 0 {
			t.Fatalf("PathDistance(nil) = %f, want 0", d)
		}
		if d := PathDistance([]Location{mkLoc(1, 1)}); d != 0 {
			t.Fatalf("PathDistance(single) = %f, want 0", d)
		}
	})

	t.Run("sums consecutive legs", func(t *testing.T) {
		// three colinear points, roughly 1 km apart along a meridian
		path := []Location{
			mkLoc(0, 0),
			mkLoc(0.009, 0),
			mkLoc(0.018, 0),
		}
		got := PathDistance(path)
		want := Haversine(path[0].Point(), path[1].Point()) + Haversine(path[1].Point(), path[2].Point())
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("PathDistance() = %f, want %f", got, want)
		}
		if got < 1900 || got > 2100 {
			t.Fatalf("PathDistance() = %f m, expected about 2000 m", got)
		}
	})
}
