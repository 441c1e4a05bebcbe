// Package webmap assembles interactive Leaflet maps from stored survey
// data. Leaflet itself is an external collaborator loaded from a CDN; this
// package only prepares the data layers and fills the HTML templates.
package webmap

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/mkruger/drone-crop-survey/internal/geo"
	"github.com/mkruger/drone-crop-survey/internal/health"
	"github.com/mkruger/drone-crop-survey/internal/interp"
	"github.com/mkruger/drone-crop-survey/internal/render"
	"github.com/mkruger/drone-crop-survey/internal/storage"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// trackPoint is one frame in a flight track layer.
type trackPoint struct {
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Frame     int      `json:"frame"`
	Timestamp string   `json:"timestamp"`
	RelAlt    *float64 `json:"relAlt"`
	ISO       *int64   `json:"iso"`
	Shutter   *string  `json:"shutter"`
	Aperture  *float64 `json:"aperture"`
	AltColor  string   `json:"altColor"`
}

// track is a single flight's ordered point sequence.
type track struct {
	Name   string       `json:"name"`
	Points []trackPoint `json:"points"`
}

// healthPoint is one sampled frame in the analytical map layers.
type healthPoint struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Health float64 `json:"health"`
	Color  string  `json:"color"`
	Frame  int     `json:"frame"`
	Flight string  `json:"flight"`
}

// gridCell is one rectangle of the IDW overlay.
type gridCell struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
	Health float64 `json:"health"`
	Color  string  `json:"color"`
}

type flightMapData struct {
	CenterLat float64
	CenterLon float64
	Bounds    template.JS
	Tracks    template.JS
	MinAlt    float64
	MaxAlt    float64
}

type analyticalMapData struct {
	CenterLat float64
	CenterLon float64
	Bounds    template.JS
	Points    template.JS
	Cells     template.JS
	HeatData  template.JS
	Stats     health.Summary
	MinHealth float64
	MaxHealth float64
}

// BuildFlightMap writes an interactive map of all flight tracks: one
// colored polyline and marker set per flight, plus an altitude-gradient
// layer.
func BuildFlightMap(w io.Writer, records []*storage.FrameRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("no frames to map")
	}

	minAlt, maxAlt, haveAlt := altitudeRange(records)

	grouped := make(map[string][]*storage.FrameRecord)
	for _, rec := range records {
		grouped[rec.Flight] = append(grouped[rec.Flight], rec)
	}
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	tracks := make([]track, 0, len(names))
	points := make([]geo.Point, 0, len(records))
	for _, name := range names {
		recs := grouped[name]
		sort.Slice(recs, func(i, j int) bool { return recs[i].FrameIndex < recs[j].FrameIndex })

		t := track{Name: name, Points: make([]trackPoint, 0, len(recs))}
		for _, rec := range recs {
			ts := ""
			if !rec.Timestamp.IsZero() {
				ts = rec.Timestamp.Format("2006-01-02 15:04:05.000")
			}
			altColor := "#888888"
			if haveAlt && rec.RelativeAltitude != nil {
				altColor = altitudeColor(*rec.RelativeAltitude, minAlt, maxAlt)
			}
			t.Points = append(t.Points, trackPoint{
				Lat:       rec.Latitude,
				Lon:       rec.Longitude,
				Frame:     rec.FrameIndex,
				Timestamp: ts,
				RelAlt:    rec.RelativeAltitude,
				ISO:       rec.ISO,
				Shutter:   rec.Shutter,
				Aperture:  rec.Aperture,
				AltColor:  altColor,
			})
			points = append(points, geo.Point{Lat: rec.Latitude, Lon: rec.Longitude})
		}
		tracks = append(tracks, t)
	}

	bounds, _ := geo.BoundsOf(points)
	center := bounds.Center()

	boundsJSON, err := marshalJS([][]float64{
		{bounds.MinLat, bounds.MinLon},
		{bounds.MaxLat, bounds.MaxLon},
	})
	if err != nil {
		return err
	}
	tracksJSON, err := marshalJS(tracks)
	if err != nil {
		return err
	}

	return templates.ExecuteTemplate(w, "flight_map.html.tmpl", flightMapData{
		CenterLat: center.Lat,
		CenterLon: center.Lon,
		Bounds:    boundsJSON,
		Tracks:    tracksJSON,
		MinAlt:    minAlt,
		MaxAlt:    maxAlt,
	})
}

// BuildAnalyticalMap writes the analytical map: sample points colored by
// health, the IDW grid overlay, heat-layer data and a statistics panel.
// Only records with an assigned health index contribute.
func BuildAnalyticalMap(w io.Writer, records []*storage.FrameRecord, grid *interp.Grid) error {
	var values []float64
	for _, rec := range records {
		if rec.HealthIndex != nil {
			values = append(values, *rec.HealthIndex)
		}
	}
	if len(values) == 0 {
		return fmt.Errorf("no health-indexed frames to map")
	}

	stats := health.Summarize(values)

	points := make([]healthPoint, 0, len(values))
	heat := make([][3]float64, 0, len(values))
	for _, rec := range records {
		if rec.HealthIndex == nil {
			continue
		}
		h := *rec.HealthIndex
		points = append(points, healthPoint{
			Lat:    rec.Latitude,
			Lon:    rec.Longitude,
			Health: h,
			Color:  render.HexColor(render.HealthTheme, h, stats.Min, stats.Max),
			Frame:  rec.FrameIndex,
			Flight: rec.Flight,
		})
		heat = append(heat, [3]float64{rec.Latitude, rec.Longitude, h})
	}

	cells := make([]gridCell, 0, grid.DataCells())
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			cell := grid.At(row, col)
			if cell.Value == nil {
				continue
			}
			cells = append(cells, gridCell{
				MinLat: cell.Center.Lat - grid.LatStep/2,
				MinLon: cell.Center.Lon - grid.LonStep/2,
				MaxLat: cell.Center.Lat + grid.LatStep/2,
				MaxLon: cell.Center.Lon + grid.LonStep/2,
				Health: *cell.Value,
				Color:  render.HexColor(render.HealthTheme, *cell.Value, stats.Min, stats.Max),
			})
		}
	}

	center := grid.Bounds.Center()
	boundsJSON, err := marshalJS([][]float64{
		{grid.Bounds.MinLat, grid.Bounds.MinLon},
		{grid.Bounds.MaxLat, grid.Bounds.MaxLon},
	})
	if err != nil {
		return err
	}
	pointsJSON, err := marshalJS(points)
	if err != nil {
		return err
	}
	cellsJSON, err := marshalJS(cells)
	if err != nil {
		return err
	}
	heatJSON, err := marshalJS(heat)
	if err != nil {
		return err
	}

	return templates.ExecuteTemplate(w, "analytical_map.html.tmpl", analyticalMapData{
		CenterLat: center.Lat,
		CenterLon: center.Lon,
		Bounds:    boundsJSON,
		Points:    pointsJSON,
		Cells:     cellsJSON,
		HeatData:  heatJSON,
		Stats:     stats,
		MinHealth: stats.Min,
		MaxHealth: stats.Max,
	})
}

func marshalJS(v any) (template.JS, error) {
	p, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling map data: %w", err)
	}
	return template.JS(p), nil
}

func altitudeRange(records []*storage.FrameRecord) (minAlt, maxAlt float64, ok bool) {
	for _, rec := range records {
		if rec.RelativeAltitude == nil {
			continue
		}
		alt := *rec.RelativeAltitude
		if !ok {
			minAlt, maxAlt, ok = alt, alt, true
			continue
		}
		if alt < minAlt {
			minAlt = alt
		}
		if alt > maxAlt {
			maxAlt = alt
		}
	}
	return minAlt, maxAlt, ok
}

// altitudeColor maps a relative altitude to the blue-to-red gradient used
// by the altitude layer legend.
func altitudeColor(alt, minAlt, maxAlt float64) string {
	ratio := 0.5
	if maxAlt > minAlt {
		ratio = (alt - minAlt) / (maxAlt - minAlt)
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	low, _ := colorful.Hex("#2c7bb6")
	high, _ := colorful.Hex("#d73027")
	return low.BlendRgb(high, ratio).Clamped().Hex()
}
