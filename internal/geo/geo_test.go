package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	t.Parallel()

	helsinki := Point{Lat: 60.1699, Lng: 24.9384}
	tallinn := Point{Lat: 59.4370, Lng: 24.7536}

	d := DistanceKm(helsinki, tallinn)
	assert.InDelta(t, 82.0, d, 2.0, "Helsinki-Tallinn is roughly 82 km")

	assert.Zero(t, DistanceKm(helsinki, helsinki))
}

func TestDistanceAcrossAntimeridian(t *testing.T) {
	t.Parallel()

	a := Point{Lat: 0, Lng: 179.5}
	b := Point{Lat: 0, Lng: -179.5}

	// One degree of longitude at the equator, not 359 degrees.
	assert.InDelta(t, 111.2, DistanceKm(a, b), 1.0)
}

func TestBoundsContains(t *testing.T) {
	t.Parallel()

	normal := Bounds{West: 20, South: 55, East: 30, North: 65}
	assert.True(t, normal.Contains(Point{Lat: 60, Lng: 25}))
	assert.False(t, normal.Contains(Point{Lat: 60, Lng: 35}))
	assert.False(t, normal.Contains(Point{Lat: 50, Lng: 25}))
	assert.False(t, normal.WrapsAntimeridian())

	wrapped := Bounds{West: 170, South: -10, East: -170, North: 10}
	assert.True(t, wrapped.WrapsAntimeridian())
	assert.True(t, wrapped.Contains(Point{Lat: 0, Lng: 175}))
	assert.True(t, wrapped.Contains(Point{Lat: 0, Lng: -175}))
	assert.False(t, wrapped.Contains(Point{Lat: 0, Lng: 0}))
}

func TestRadiusBounds(t *testing.T) {
	t.Parallel()

	center := Point{Lat: 60, Lng: 25}
	b := RadiusBounds(center, 50)

	assert.True(t, b.South < center.Lat && center.Lat < b.North)
	assert.True(t, b.West < center.Lng && center.Lng < b.East)
	// 50 km is about 0.45 degrees of latitude.
	assert.InDelta(t, 0.45, b.North-center.Lat, 0.05)
}

func TestRadiusBoundsWrapsAntimeridian(t *testing.T) {
	t.Parallel()

	b := RadiusBounds(Point{Lat: 0, Lng: 179.8}, 100)
	assert.True(t, b.WrapsAntimeridian(), "box near the dateline must wrap")
	assert.True(t, b.Contains(Point{Lat: 0, Lng: -179.9}))
}

func TestRadiusBoundsNearPole(t *testing.T) {
	t.Parallel()

	b := RadiusBounds(Point{Lat: 89.5, Lng: 0}, 200)
	assert.Equal(t, 90.0, b.North)
	assert.Equal(t, -180.0, b.West)
	assert.Equal(t, 180.0, b.East)
}

func TestUsesMiles(t *testing.T) {
	t.Parallel()

	assert.True(t, UsesMiles("en-US"))
	assert.True(t, UsesMiles("en-GB"))
	assert.False(t, UsesMiles("fi-FI"))
	assert.False(t, UsesMiles("de"))
	assert.False(t, UsesMiles("not a locale"))
}

func TestFormatDistance(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "5.0 km", FormatDistance(5, "fi-FI"))
	assert.Equal(t, "42 km", FormatDistance(42.4, "fi-FI"))
	assert.Equal(t, "3.1 mi", FormatDistance(5, "en-US"))
}
