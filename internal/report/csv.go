// Package report writes the tabular outputs of the pipeline: per-flight
// metadata CSV files formatted for QGIS/ArcGIS import, the consolidated
// CSV across all flights, and a plain-text statistics summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mkruger/drone-crop-survey/internal/storage"
	"github.com/mkruger/drone-crop-survey/internal/telemetry"
)

// timestampLayout matches the millisecond timestamps of the source SRT
// files, so round-tripping through CSV preserves them.
const timestampLayout = "2006-01-02 15:04:05.000"

// frameColumns is the column order GIS tools expect.
var frameColumns = []string{
	"frame_index",
	"timestamp",
	"latitude",
	"longitude",
	"relative_altitude",
	"absolute_altitude",
	"iso",
	"shutter",
	"aperture",
	"ev",
	"color_mode",
	"focal_length",
	"color_temperature",
}

// WriteFlightCSV writes the metadata of a single flight.
func WriteFlightCSV(w io.Writer, frames []telemetry.Frame) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(frameColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range frames {
		if err := cw.Write(frameRow(&frames[i])); err != nil {
			return fmt.Errorf("writing frame %d: %w", frames[i].FrameIndex, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteConsolidatedCSV writes all stored frames into a single CSV with a
// leading flight column. When withHealth is set, a trailing health_index
// column is included.
func WriteConsolidatedCSV(w io.Writer, records []*storage.FrameRecord, withHealth bool) error {
	cw := csv.NewWriter(w)

	header := append([]string{"flight"}, frameColumns...)
	if withHealth {
		header = append(header, "health_index")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, rec := range records {
		row := append([]string{rec.Flight}, frameRow(&rec.Frame)...)
		if withHealth {
			row = append(row, formatFloatPtr(rec.HealthIndex))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing frame %d of %s: %w", rec.FrameIndex, rec.Flight, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func frameRow(f *telemetry.Frame) []string {
	ts := ""
	if !f.Timestamp.IsZero() {
		ts = f.Timestamp.Format(timestampLayout)
	}
	return []string{
		strconv.Itoa(f.FrameIndex),
		ts,
		strconv.FormatFloat(f.Latitude, 'f', -1, 64),
		strconv.FormatFloat(f.Longitude, 'f', -1, 64),
		formatFloatPtr(f.RelativeAltitude),
		formatFloatPtr(f.AbsoluteAltitude),
		formatIntPtr(f.ISO),
		formatStringPtr(f.Shutter),
		formatFloatPtr(f.Aperture),
		formatFloatPtr(f.EV),
		formatStringPtr(f.ColorMode),
		formatFloatPtr(f.FocalLength),
		formatIntPtr(f.ColorTemperature),
	}
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatIntPtr(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatStringPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
