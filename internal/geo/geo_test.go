package geo

import (
	"math"
	"testing"
)

func TestBoundsOf(t *testing.T) {
	if _, ok := BoundsOf(nil); ok {
		t.Error("Expected no bounds for an empty point set")
	}

	points := []Point{
		{Lat: -33.8, Lon: 151.2},
		{Lat: -33.9, Lon: 151.1},
		{Lat: -33.7, Lon: 151.3},
	}
	b, ok := BoundsOf(points)
	if !ok {
		t.Fatal("Expected bounds, got none")
	}

	want := Bounds{MinLat: -33.9, MinLon: 151.1, MaxLat: -33.7, MaxLon: 151.3}
	if b != want {
		t.Errorf("Expected bounds %+v, got %+v", want, b)
	}

	center := b.Center()
	if math.Abs(center.Lat-(-33.8)) > 1e-12 || math.Abs(center.Lon-151.2) > 1e-12 {
		t.Errorf("Expected center (-33.8, 151.2), got (%g, %g)", center.Lat, center.Lon)
	}
}

func TestBounds_Pad(t *testing.T) {
	b := Bounds{MinLat: 0, MinLon: 10, MaxLat: 1, MaxLon: 12}

	padded := b.Pad(0.1)
	want := Bounds{MinLat: -0.1, MinLon: 9.8, MaxLat: 1.1, MaxLon: 12.2}
	if padded != want {
		t.Errorf("Expected padded bounds %+v, got %+v", want, padded)
	}

	if b.Pad(0) != b {
		t.Error("Zero margin must leave the bounds unchanged")
	}
	if b.Pad(-1) != b {
		t.Error("Negative margin must leave the bounds unchanged")
	}
}

func TestPlanarDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"same point", Point{1, 2}, Point{1, 2}, 0},
		{"one degree east", Point{0, 0}, Point{0, 1}, 1},
		{"3-4-5 triangle", Point{0, 0}, Point{3, 4}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlanarDistance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Expected %g, got %g", tt.want, got)
			}
		})
	}
}

func TestHaversineDistance(t *testing.T) {
	// One degree of longitude at the equator spans 1/360 of the Earth's
	// circumference, about 111.19 km.
	got := HaversineDistance(Point{0, 0}, Point{0, 1})
	want := 2 * math.Pi * EarthRadiusMeters / 360
	if math.Abs(got-want) > 1 {
		t.Errorf("Expected about %0.1fm, got %0.1fm", want, got)
	}

	if d := HaversineDistance(Point{51.5, -0.12}, Point{51.5, -0.12}); d != 0 {
		t.Errorf("Expected zero distance for identical points, got %g", d)
	}
}
