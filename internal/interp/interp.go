// Package interp builds a dense regular grid of estimated vegetation
// health values from scattered geotagged samples, using inverse distance
// weighting (IDW).
package interp

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/mkruger/drone-crop-survey/internal/geo"
)

// ErrNoSamples is returned when interpolation is requested over an empty
// sample set.
var ErrNoSamples = errors.New("interp: no samples")

// DistanceMode selects the metric used between grid cells and samples.
type DistanceMode string

const (
	// ModePlanar measures Euclidean distance in raw coordinate degrees.
	// This matches the documented behavior of the pipeline and is the
	// default; MaxDistance and Epsilon are then in degrees.
	ModePlanar DistanceMode = "planar"

	// ModeGeodesic measures great-circle distance in meters. MaxDistance
	// and Epsilon are then in meters.
	ModeGeodesic DistanceMode = "geodesic"
)

const (
	DefaultPower       = 2.0
	DefaultMaxDistance = 0.001 // degrees, ~111 m
	DefaultRows        = 80
	DefaultCols        = 80
	DefaultEpsilon     = 1e-5 // degrees, coincidence threshold
)

// Sample is a single geotagged scalar observation. Value is a vegetation
// health index in [0,100].
type Sample struct {
	Point geo.Point `json:"point"`
	Value float64   `json:"value"`
}

// Config holds the interpolation parameters. The zero value is not usable;
// call DefaultConfig and override as needed.
type Config struct {
	Power       float64      // Inverse distance exponent
	MaxDistance float64      // Maximum influence distance; samples beyond it carry zero weight
	Rows        int          // Grid rows
	Cols        int          // Grid columns
	Epsilon     float64      // Below this distance a cell takes the sample's value directly
	Margin      float64      // Fraction of each bounds span to pad on every side
	Mode        DistanceMode // Distance metric, ModePlanar when empty
	Workers     int          // Rows processed concurrently; <=1 means sequential
}

// DefaultConfig returns the documented defaults: power 2.0, maximum
// influence distance 0.001 degrees, an 80x80 grid and planar distances.
func DefaultConfig() Config {
	return Config{
		Power:       DefaultPower,
		MaxDistance: DefaultMaxDistance,
		Rows:        DefaultRows,
		Cols:        DefaultCols,
		Epsilon:     DefaultEpsilon,
		Mode:        ModePlanar,
	}
}

func (c Config) validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("interp: invalid grid resolution %dx%d", c.Rows, c.Cols)
	}
	if c.Power <= 0 {
		return fmt.Errorf("interp: invalid power %g", c.Power)
	}
	if c.MaxDistance <= 0 {
		return fmt.Errorf("interp: invalid max distance %g", c.MaxDistance)
	}
	if c.Epsilon < 0 {
		return fmt.Errorf("interp: invalid epsilon %g", c.Epsilon)
	}
	switch c.Mode {
	case "", ModePlanar, ModeGeodesic:
	default:
		return fmt.Errorf("interp: unknown distance mode %q", c.Mode)
	}
	return nil
}

// Cell is a single grid cell. Value is nil for no-data cells, i.e. cells
// with no sample within the maximum influence distance; renderers omit
// those instead of painting them as zero.
type Cell struct {
	Center geo.Point `json:"center"`
	Value  *float64  `json:"value,omitempty"`
	Weight float64   `json:"weight"` // Accumulated IDW weight, a confidence proxy
}

// Grid is the fully materialized interpolation result: Rows x Cols cells
// covering the (padded) bounding region of the input samples, in row-major
// order from MinLat/MinLon.
type Grid struct {
	Bounds  geo.Bounds `json:"bounds"`
	Rows    int        `json:"rows"`
	Cols    int        `json:"cols"`
	Cells   []Cell     `json:"cells"`
	LatStep float64    `json:"latStep"` // Cell height in degrees
	LonStep float64    `json:"lonStep"` // Cell width in degrees
}

// At returns the cell at the given row and column.
func (g *Grid) At(row, col int) *Cell {
	return &g.Cells[row*g.Cols+col]
}

// DataCells returns the number of cells holding an interpolated value.
func (g *Grid) DataCells() int {
	n := 0
	for i := range g.Cells {
		if g.Cells[i].Value != nil {
			n++
		}
	}
	return n
}

// ValueRange returns the minimum and maximum interpolated values. The
// second return is false when the grid holds no data cells at all.
func (g *Grid) ValueRange() (minV, maxV float64, ok bool) {
	for i := range g.Cells {
		v := g.Cells[i].Value
		if v == nil {
			continue
		}
		if !ok {
			minV, maxV, ok = *v, *v, true
			continue
		}
		if *v < minV {
			minV = *v
		}
		if *v > maxV {
			maxV = *v
		}
	}
	return minV, maxV, ok
}

// Interpolate estimates a value for every grid cell as the inverse distance
// weighted average of the samples within MaxDistance of its center. A cell
// closer than Epsilon to a sample takes that sample's exact value (first
// such sample in input order); a cell with no sample in range is left as
// no data. The computation is deterministic: identical inputs produce a
// bit-identical grid regardless of the worker count.
func Interpolate(samples []Sample, config Config) (*Grid, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	points := make([]geo.Point, len(samples))
	for i, s := range samples {
		points[i] = s.Point
	}
	bounds, _ := geo.BoundsOf(points)
	bounds = bounds.Pad(config.Margin)

	grid := &Grid{
		Bounds:  bounds,
		Rows:    config.Rows,
		Cols:    config.Cols,
		Cells:   make([]Cell, config.Rows*config.Cols),
		LatStep: bounds.LatSpan() / float64(config.Rows),
		LonStep: bounds.LonSpan() / float64(config.Cols),
	}

	distance := geo.PlanarDistance
	if config.Mode == ModeGeodesic {
		distance = geo.HaversineDistance
	}

	fillRow := func(row int) {
		centerLat := bounds.MinLat + (float64(row)+0.5)*grid.LatStep
		for col := 0; col < config.Cols; col++ {
			cell := grid.At(row, col)
			cell.Center = geo.Point{
				Lat: centerLat,
				Lon: bounds.MinLon + (float64(col)+0.5)*grid.LonStep,
			}
			estimateCell(cell, samples, config, distance)
		}
	}

	if config.Workers > 1 {
		// Each cell is written exactly once by exactly one worker, so the
		// grid needs no synchronization beyond the final wait.
		rows := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < config.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for row := range rows {
					fillRow(row)
				}
			}()
		}
		for row := 0; row < config.Rows; row++ {
			rows <- row
		}
		close(rows)
		wg.Wait()
	} else {
		for row := 0; row < config.Rows; row++ {
			fillRow(row)
		}
	}

	return grid, nil
}

// estimateCell computes the IDW estimate for a single cell.
func estimateCell(cell *Cell, samples []Sample, config Config, distance func(a, b geo.Point) float64) {
	var weightedSum, weightSum float64

	for i := range samples {
		d := distance(cell.Center, samples[i].Point)
		if d > config.MaxDistance {
			continue
		}
		if d < config.Epsilon {
			// Coincident with a sample: take its value directly. First
			// match wins; no division by zero can occur.
			v := samples[i].Value
			cell.Value = &v
			cell.Weight = 1
			return
		}
		w := 1.0 / pow(d, config.Power)
		weightedSum += samples[i].Value * w
		weightSum += w
	}

	if weightSum == 0 {
		return // no sample in range, cell stays no-data
	}
	v := weightedSum / weightSum
	cell.Value = &v
	cell.Weight = weightSum
}

// pow is math.Pow with a fast path for the default exponent.
func pow(d, p float64) float64 {
	if p == 2.0 {
		return d * d
	}
	return math.Pow(d, p)
}
