// Package geo provides the coordinate primitives shared by the
// interpolator, the renderers and the map builders.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used for haversine distances.
const EarthRadiusMeters = 6371000.0

// Point is a WGS84 coordinate pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds is an axis-aligned bounding region in degrees.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
}

// Center returns the midpoint of the bounding region.
func (b Bounds) Center() Point {
	return Point{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lon: (b.MinLon + b.MaxLon) / 2,
	}
}

// LatSpan returns the latitude extent of the region in degrees.
func (b Bounds) LatSpan() float64 { return b.MaxLat - b.MinLat }

// LonSpan returns the longitude extent of the region in degrees.
func (b Bounds) LonSpan() float64 { return b.MaxLon - b.MinLon }

// Pad expands the region by the given fraction of each span on every side.
// A zero or negative margin leaves the region unchanged.
func (b Bounds) Pad(margin float64) Bounds {
	if margin <= 0 {
		return b
	}
	latPad := b.LatSpan() * margin
	lonPad := b.LonSpan() * margin
	return Bounds{
		MinLat: b.MinLat - latPad,
		MinLon: b.MinLon - lonPad,
		MaxLat: b.MaxLat + latPad,
		MaxLon: b.MaxLon + lonPad,
	}
}

// Extend grows the region to include p. The zero Bounds must not be
// extended directly; use BoundsOf instead.
func (b Bounds) Extend(p Point) Bounds {
	return Bounds{
		MinLat: math.Min(b.MinLat, p.Lat),
		MinLon: math.Min(b.MinLon, p.Lon),
		MaxLat: math.Max(b.MaxLat, p.Lat),
		MaxLon: math.Max(b.MaxLon, p.Lon),
	}
}

// BoundsOf computes the bounding region of a non-empty point set.
// It returns false when no points are given.
func BoundsOf(points []Point) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := Bounds{
		MinLat: points[0].Lat,
		MinLon: points[0].Lon,
		MaxLat: points[0].Lat,
		MaxLon: points[0].Lon,
	}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b, true
}

// PlanarDistance returns the Euclidean distance between two points in raw
// coordinate-degree units. No geodesic correction is applied; at the scale
// this pipeline operates on (cells of roughly 111 m) the latitude-dependent
// distortion is an accepted approximation.
func PlanarDistance(a, b Point) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// HaversineDistance returns the great-circle distance between two points
// in meters.
func HaversineDistance(a, b Point) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}
