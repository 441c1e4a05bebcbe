package webmap

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mkruger/drone-crop-survey/internal/geo"
	"github.com/mkruger/drone-crop-survey/internal/interp"
	"github.com/mkruger/drone-crop-survey/internal/storage"
	"github.com/mkruger/drone-crop-survey/internal/telemetry"
)

func testRecords() []*storage.FrameRecord {
	alt1, alt2 := 2.5, 18.0
	h1, h2 := 72.5, 88.0

	return []*storage.FrameRecord{
		{
			ID:     1,
			Flight: "DJI_0001.SRT",
			Frame: telemetry.Frame{
				FrameIndex:       1,
				Timestamp:        time.Date(2024, 6, 14, 10, 31, 2, 148_000_000, time.UTC),
				Latitude:         -33.860112,
				Longitude:        151.209883,
				RelativeAltitude: &alt1,
				HealthIndex:      &h1,
			},
		},
		{
			ID:     2,
			Flight: "DJI_0001.SRT",
			Frame: telemetry.Frame{
				FrameIndex:       2,
				Latitude:         -33.860105,
				Longitude:        151.209901,
				RelativeAltitude: &alt2,
				HealthIndex:      &h2,
			},
		},
		{
			ID:     3,
			Flight: "DJI_0002.SRT",
			Frame: telemetry.Frame{
				FrameIndex: 1,
				Latitude:   -33.859,
				Longitude:  151.211,
			},
		},
	}
}

func TestBuildFlightMap(t *testing.T) {
	var buf bytes.Buffer
	if err := BuildFlightMap(&buf, testRecords()); err != nil {
		t.Fatalf("BuildFlightMap failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"leaflet",
		"DJI_0001.SRT",
		"DJI_0002.SRT",
		"-33.860112",
		"2024-06-14 10:31:02.148",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Flight map missing %q", want)
		}
	}
}

func TestBuildFlightMap_NoRecords(t *testing.T) {
	var buf bytes.Buffer
	if err := BuildFlightMap(&buf, nil); err == nil {
		t.Error("Expected an error for an empty record set")
	}
}

func TestBuildAnalyticalMap(t *testing.T) {
	records := testRecords()

	samples := make([]interp.Sample, 0, len(records))
	for _, rec := range records {
		if rec.HealthIndex == nil {
			continue
		}
		samples = append(samples, interp.Sample{
			Point: geo.Point{Lat: rec.Latitude, Lon: rec.Longitude},
			Value: *rec.HealthIndex,
		})
	}

	config := interp.DefaultConfig()
	config.Rows, config.Cols = 8, 8
	grid, err := interp.Interpolate(samples, config)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	var buf bytes.Buffer
	if err = BuildAnalyticalMap(&buf, records, grid); err != nil {
		t.Fatalf("BuildAnalyticalMap failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"leaflet",
		"DJI_0001.SRT",
		"72.5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Analytical map missing %q", want)
		}
	}

	// The record without a health index must not appear in the point
	// layer data.
	if strings.Contains(out, "DJI_0002.SRT") {
		t.Error("Expected unindexed frames to be excluded from the map")
	}
}

func TestBuildAnalyticalMap_NoHealthData(t *testing.T) {
	records := []*storage.FrameRecord{
		{Flight: "DJI_0001.SRT", Frame: telemetry.Frame{FrameIndex: 1, Latitude: 1, Longitude: 2}},
	}

	var buf bytes.Buffer
	if err := BuildAnalyticalMap(&buf, records, &interp.Grid{}); err == nil {
		t.Error("Expected an error when no frame carries a health index")
	}
}

func TestAltitudeColor(t *testing.T) {
	low := altitudeColor(0, 0, 30)
	high := altitudeColor(30, 0, 30)

	if low != "#2c7bb6" {
		t.Errorf("Expected the gradient to start at #2c7bb6, got %q", low)
	}
	if high != "#d73027" {
		t.Errorf("Expected the gradient to end at #d73027, got %q", high)
	}
	if mid := altitudeColor(15, 15, 15); mid == "" {
		t.Error("Expected a color for a collapsed altitude range")
	}
}
