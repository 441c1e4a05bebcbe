package interp

import (
	"errors"
	"math"
	"testing"

	"github.com/mkruger/drone-crop-survey/internal/geo"
)

func TestInterpolate_NoSamples(t *testing.T) {
	_, err := Interpolate(nil, DefaultConfig())
	if !errors.Is(err, ErrNoSamples) {
		t.Fatalf("Expected ErrNoSamples, got %v", err)
	}
}

func TestInterpolate_InvalidConfig(t *testing.T) {
	samples := []Sample{{Point: geo.Point{Lat: 0, Lon: 0}, Value: 50}}

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"zero rows", func(c *Config) { c.Rows = 0 }},
		{"negative cols", func(c *Config) { c.Cols = -1 }},
		{"zero power", func(c *Config) { c.Power = 0 }},
		{"zero max distance", func(c *Config) { c.MaxDistance = 0 }},
		{"negative epsilon", func(c *Config) { c.Epsilon = -1 }},
		{"unknown mode", func(c *Config) { c.Mode = "spherical" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)
			if _, err := Interpolate(samples, config); err == nil {
				t.Error("Expected an error, got nil")
			}
		})
	}
}

func TestInterpolate_SingleSample(t *testing.T) {
	samples := []Sample{{Point: geo.Point{Lat: -33.8, Lon: 151.2}, Value: 42.0}}

	grid, err := Interpolate(samples, DefaultConfig())
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	// A single sample collapses the bounds, so every cell center sits on
	// the sample itself and takes its exact value.
	if n := grid.DataCells(); n != grid.Rows*grid.Cols {
		t.Errorf("Expected %d data cells, got %d", grid.Rows*grid.Cols, n)
	}
	for i := range grid.Cells {
		if v := grid.Cells[i].Value; v == nil || *v != 42.0 {
			t.Fatalf("Cell %d: expected exact value 42.0, got %v", i, v)
		}
	}
}

func TestInterpolate_ValuesWithinSampleRange(t *testing.T) {
	samples := []Sample{
		{Point: geo.Point{Lat: 0, Lon: 0}, Value: 15},
		{Point: geo.Point{Lat: 0, Lon: 1}, Value: 90},
		{Point: geo.Point{Lat: 1, Lon: 0}, Value: 55},
		{Point: geo.Point{Lat: 1, Lon: 1}, Value: 70},
	}

	config := DefaultConfig()
	config.Rows, config.Cols = 16, 16
	config.MaxDistance = 2.0

	grid, err := Interpolate(samples, config)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	minV, maxV, ok := grid.ValueRange()
	if !ok {
		t.Fatal("Expected data cells, got none")
	}
	if minV < 15 || maxV > 90 {
		t.Errorf("Interpolated range [%g, %g] exceeds sample extremes [15, 90]", minV, maxV)
	}
}

func TestInterpolate_TwoSampleGradient(t *testing.T) {
	samples := []Sample{
		{Point: geo.Point{Lat: 0, Lon: 0}, Value: 100},
		{Point: geo.Point{Lat: 0, Lon: 1}, Value: 0},
	}

	config := DefaultConfig()
	config.Rows, config.Cols = 1, 8
	config.MaxDistance = 2.0

	grid, err := Interpolate(samples, config)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	// Values must fall monotonically from the 100-valued sample toward
	// the 0-valued one.
	prev := math.Inf(1)
	for col := 0; col < grid.Cols; col++ {
		cell := grid.At(0, col)
		if cell.Value == nil {
			t.Fatalf("Cell (0,%d): expected a value, got no data", col)
		}
		if *cell.Value >= prev {
			t.Errorf("Cell (0,%d): value %g did not decrease from %g", col, *cell.Value, prev)
		}
		prev = *cell.Value
	}

	// The gradient is symmetric: mirrored cells sum to 100.
	for col := 0; col < grid.Cols/2; col++ {
		a, b := *grid.At(0, col).Value, *grid.At(0, grid.Cols-1-col).Value
		if math.Abs(a+b-100) > 1e-9 {
			t.Errorf("Cells (0,%d) and (0,%d): %g + %g != 100", col, grid.Cols-1-col, a, b)
		}
	}
}

func TestInterpolate_TwoCellCoincidence(t *testing.T) {
	samples := []Sample{
		{Point: geo.Point{Lat: 0, Lon: 0}, Value: 100},
		{Point: geo.Point{Lat: 0, Lon: 1}, Value: 0},
	}

	// Padding a 1x2 grid by half the span puts the two cell centers
	// exactly on the samples.
	config := DefaultConfig()
	config.Rows, config.Cols = 1, 2
	config.Margin = 0.5
	config.MaxDistance = 3.0

	grid, err := Interpolate(samples, config)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	if v := grid.At(0, 0).Value; v == nil || *v != 100 {
		t.Errorf("Expected exact value 100 at the first sample, got %v", v)
	}
	if v := grid.At(0, 1).Value; v == nil || *v != 0 {
		t.Errorf("Expected exact value 0 at the second sample, got %v", v)
	}
}

func TestInterpolate_Coincidence(t *testing.T) {
	// Grid over [0,1]x[0,1] with 4x4 cells puts a center at (0.375, 0.625);
	// the third sample sits exactly there and must win verbatim, bypassing
	// the weighted average.
	samples := []Sample{
		{Point: geo.Point{Lat: 0, Lon: 0}, Value: 10},
		{Point: geo.Point{Lat: 1, Lon: 1}, Value: 20},
		{Point: geo.Point{Lat: 0.375, Lon: 0.625}, Value: 77.77},
	}

	config := DefaultConfig()
	config.Rows, config.Cols = 4, 4
	config.MaxDistance = 2.0

	grid, err := Interpolate(samples, config)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	cell := grid.At(1, 2)
	if cell.Value == nil {
		t.Fatal("Expected a value at the coincident cell, got no data")
	}
	if *cell.Value != 77.77 {
		t.Errorf("Expected exact sample value 77.77, got %g", *cell.Value)
	}
	if cell.Weight != 1 {
		t.Errorf("Expected coincident cell weight 1, got %g", cell.Weight)
	}
}

func TestInterpolate_CoincidenceFirstSampleWins(t *testing.T) {
	samples := []Sample{
		{Point: geo.Point{Lat: 0, Lon: 0}, Value: 30},
		{Point: geo.Point{Lat: 0, Lon: 0}, Value: 60},
		{Point: geo.Point{Lat: 0, Lon: 1}, Value: 90},
	}

	config := DefaultConfig()
	config.Rows, config.Cols = 1, 2
	config.MaxDistance = 2.0
	config.Epsilon = 0.3

	grid, err := Interpolate(samples, config)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	// The left cell center (0, 0.25) is within epsilon of both stacked
	// samples; the first one in input order decides.
	cell := grid.At(0, 0)
	if cell.Value == nil || *cell.Value != 30 {
		t.Errorf("Expected first coincident sample's value 30, got %v", cell.Value)
	}
}

func TestInterpolate_NoDataBeyondMaxDistance(t *testing.T) {
	samples := []Sample{
		{Point: geo.Point{Lat: 0, Lon: 0}, Value: 100},
		{Point: geo.Point{Lat: 0, Lon: 1}, Value: 0},
	}

	config := DefaultConfig()
	config.Rows, config.Cols = 1, 10
	config.MaxDistance = 0.15

	grid, err := Interpolate(samples, config)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	// Cells in the middle of the span are farther than 0.15 degrees from
	// both samples and must stay empty.
	if mid := grid.At(0, 5); mid.Value != nil {
		t.Errorf("Expected no data in the middle cell, got %g", *mid.Value)
	}
	if n := grid.DataCells(); n == 0 || n == grid.Cols {
		t.Errorf("Expected a partial grid, got %d of %d data cells", n, grid.Cols)
	}
}

func TestInterpolate_PowerPullsTowardNearest(t *testing.T) {
	samples := []Sample{
		{Point: geo.Point{Lat: 0, Lon: 0}, Value: 100},
		{Point: geo.Point{Lat: 0, Lon: 1}, Value: 0},
	}

	base := DefaultConfig()
	base.Rows, base.Cols = 1, 8
	base.MaxDistance = 2.0

	sharp := base
	sharp.Power = 4.0

	gridBase, err := Interpolate(samples, base)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}
	gridSharp, err := Interpolate(samples, sharp)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	// A higher exponent concentrates influence on the closest sample, so
	// near the 100-valued end the estimate must rise.
	v2, v4 := *gridBase.At(0, 1).Value, *gridSharp.At(0, 1).Value
	if v4 <= v2 {
		t.Errorf("Expected power 4 estimate %g > power 2 estimate %g near the high sample", v4, v2)
	}
}

func TestInterpolate_DeterministicAcrossWorkers(t *testing.T) {
	samples := []Sample{
		{Point: geo.Point{Lat: 51.50, Lon: -0.12}, Value: 81.5},
		{Point: geo.Point{Lat: 51.51, Lon: -0.11}, Value: 64.25},
		{Point: geo.Point{Lat: 51.49, Lon: -0.13}, Value: 92.0},
		{Point: geo.Point{Lat: 51.505, Lon: -0.125}, Value: 73.1},
	}

	config := DefaultConfig()
	config.Rows, config.Cols = 24, 24
	config.MaxDistance = 0.05

	sequential, err := Interpolate(samples, config)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	config.Workers = 4
	parallel, err := Interpolate(samples, config)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	for i := range sequential.Cells {
		a, b := sequential.Cells[i].Value, parallel.Cells[i].Value
		switch {
		case a == nil && b == nil:
		case a == nil || b == nil:
			t.Fatalf("Cell %d: data presence differs between worker counts", i)
		case *a != *b:
			t.Fatalf("Cell %d: sequential %v != parallel %v", i, *a, *b)
		}
	}
}

func TestInterpolate_Idempotent(t *testing.T) {
	samples := []Sample{
		{Point: geo.Point{Lat: 0, Lon: 0}, Value: 10},
		{Point: geo.Point{Lat: 0.001, Lon: 0.001}, Value: 90},
	}

	config := DefaultConfig()

	first, err := Interpolate(samples, config)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}
	second, err := Interpolate(samples, config)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	for i := range first.Cells {
		a, b := first.Cells[i].Value, second.Cells[i].Value
		if (a == nil) != (b == nil) || (a != nil && *a != *b) {
			t.Fatalf("Cell %d: repeated runs disagree", i)
		}
	}
}

func TestInterpolate_GeodesicMode(t *testing.T) {
	// 0.001 degrees of longitude at the equator is roughly 111 meters.
	samples := []Sample{
		{Point: geo.Point{Lat: 0, Lon: 0}, Value: 100},
		{Point: geo.Point{Lat: 0, Lon: 0.001}, Value: 0},
	}

	config := DefaultConfig()
	config.Rows, config.Cols = 1, 4
	config.Mode = ModeGeodesic
	config.MaxDistance = 200 // meters
	config.Epsilon = 0.5     // meters

	grid, err := Interpolate(samples, config)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	if n := grid.DataCells(); n != grid.Cols {
		t.Fatalf("Expected all %d cells within 200m of a sample, got %d", grid.Cols, n)
	}
	minV, maxV, _ := grid.ValueRange()
	if minV < 0 || maxV > 100 {
		t.Errorf("Interpolated range [%g, %g] exceeds sample extremes [0, 100]", minV, maxV)
	}
	if *grid.At(0, 0).Value <= *grid.At(0, 3).Value {
		t.Error("Expected the cell near the 100-valued sample to exceed the far cell")
	}
}

func TestInterpolate_IdenticalCoordinates(t *testing.T) {
	samples := []Sample{
		{Point: geo.Point{Lat: 12.34, Lon: 56.78}, Value: 41},
		{Point: geo.Point{Lat: 12.34, Lon: 56.78}, Value: 43},
		{Point: geo.Point{Lat: 12.34, Lon: 56.78}, Value: 45},
	}

	grid, err := Interpolate(samples, DefaultConfig())
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	// The collapsed bounds put every cell center on the shared position,
	// so each cell takes the first sample's value through the coincidence
	// path.
	for i := range grid.Cells {
		if v := grid.Cells[i].Value; v == nil || *v != 41 {
			t.Fatalf("Cell %d: expected 41, got %v", i, v)
		}
	}
}

func TestGrid_ValueRange(t *testing.T) {
	grid := &Grid{Rows: 1, Cols: 3, Cells: make([]Cell, 3)}
	if _, _, ok := grid.ValueRange(); ok {
		t.Error("Expected no range for an empty grid")
	}

	lo, hi := 12.5, 87.5
	grid.Cells[0].Value = &hi
	grid.Cells[2].Value = &lo

	minV, maxV, ok := grid.ValueRange()
	if !ok || minV != 12.5 || maxV != 87.5 {
		t.Errorf("Expected range [12.5, 87.5], got [%g, %g] ok=%v", minV, maxV, ok)
	}
}
