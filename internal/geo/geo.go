// Package geo provides great-circle distance math and bounding-box
// construction for hotspot queries.
package geo

import "math"

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Bounds is a latitude/longitude bounding box. When West > East the box
// wraps across the antimeridian.
type Bounds struct {
	West  float64
	South float64
	East  float64
	North float64
}

// WrapsAntimeridian reports whether the box crosses the ±180° meridian.
func (b Bounds) WrapsAntimeridian() bool {
	return b.West > b.East
}

// Contains reports whether the point lies inside the box, honoring
// antimeridian wrapping.
func (b Bounds) Contains(p Point) bool {
	if p.Lat < b.South || p.Lat > b.North {
		return false
	}
	if b.WrapsAntimeridian() {
		return p.Lng >= b.West || p.Lng <= b.East
	}
	return p.Lng >= b.West && p.Lng <= b.East
}

// DistanceKm returns the haversine great-circle distance between two
// points in kilometers.
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180.0
	lon1 := a.Lng * math.Pi / 180.0
	lat2 := b.Lat * math.Pi / 180.0
	lon2 := b.Lng * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// RadiusBounds returns the bounding box covering a circle of the given
// radius around center. Latitudes are clamped at the poles; longitudes
// that overflow ±180° are normalized so the resulting box wraps the
// antimeridian (West > East).
func RadiusBounds(center Point, radiusKm float64) Bounds {
	latDelta := radiusKm / earthRadiusKm * 180.0 / math.Pi

	south := center.Lat - latDelta
	north := center.Lat + latDelta
	if south < -90 {
		south = -90
	}
	if north > 90 {
		north = 90
	}

	// Longitude span grows toward the poles; near them the circle covers
	// every longitude.
	cosLat := math.Cos(center.Lat * math.Pi / 180.0)
	if cosLat < 1e-9 {
		return Bounds{West: -180, South: south, East: 180, North: north}
	}
	lngDelta := latDelta / cosLat
	if lngDelta >= 180 {
		return Bounds{West: -180, South: south, East: 180, North: north}
	}

	west := normalizeLng(center.Lng - lngDelta)
	east := normalizeLng(center.Lng + lngDelta)
	return Bounds{West: west, South: south, East: east, North: north}
}

// normalizeLng wraps a longitude into [-180, 180].
func normalizeLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}
