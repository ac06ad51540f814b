package geo

import "math"

// earthRadiusMeters is the mean Earth radius used for great-circle math.
const earthRadiusMeters = 6371000.0

// Haversine returns the great-circle distance in meters between two points.
func Haversine(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// PolygonContains reports whether point lies inside the polygon formed by
// boundary, using the even-odd ray-casting rule over a local planar
// projection of the coordinates. The edge between the last and first vertex
// is implied, so the boundary does not have to be explicitly closed.
//
// Points exactly on an edge may land on either side depending on rounding;
// callers must not depend on boundary inclusivity.
func PolygonContains(boundary []Point, point Point) bool {
	if len(boundary) < 3 {
		return false
	}

	inside := false
	j := len(boundary) - 1
	for i := 0; i < len(boundary); i, j = i+1, i {
		vi, vj := boundary[i], boundary[j]

		crosses := (vi.Longitude > point.Longitude) != (vj.Longitude > point.Longitude)
		if !crosses {
			continue
		}
		intersectLat := (vj.Latitude-vi.Latitude)*(point.Longitude-vi.Longitude)/
			(vj.Longitude-vi.Longitude) + vi.Latitude
		if point.Latitude < intersectLat {
			inside = !inside
		}
	}
	return inside
}

// PathDistance sums the great-circle distances between every consecutive
// pair of locations in arrival order. A path with fewer than two points
// yields 0.
func PathDistance(path []Location) float64 {
	if len(path) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(path); i++ {
		total += Haversine(path[i-1].Point(), path[i].Point())
	}
	return total
}
