package telemetry

import (
	"time"
)

// Frame is the per-frame telemetry a DJI drone embeds into its subtitle
// track: GPS position, altitude and camera exposure settings.
type Frame struct {
	FrameIndex       int       `json:"frameIndex"`                 // Frame counter within the source video
	Timestamp        time.Time `json:"timestamp"`                  // Capture time with millisecond precision
	Latitude         float64   `json:"latitude"`                   // GPS latitude in degrees
	Longitude        float64   `json:"longitude"`                  // GPS longitude in degrees
	RelativeAltitude *float64  `json:"relativeAltitude,omitempty"` // Altitude above take-off point in meters
	AbsoluteAltitude *float64  `json:"absoluteAltitude,omitempty"` // Altitude above sea level in meters
	ISO              *int64    `json:"iso,omitempty"`              // Sensor ISO
	Shutter          *string   `json:"shutter,omitempty"`          // Shutter speed as reported (e.g. "1/2000.0")
	Aperture         *float64  `json:"aperture,omitempty"`         // F-number
	EV               *float64  `json:"ev,omitempty"`               // Exposure compensation
	ColorMode        *string   `json:"colorMode,omitempty"`        // Color profile (e.g. "default")
	FocalLength      *float64  `json:"focalLength,omitempty"`      // Focal length in mm
	ColorTemperature *int64    `json:"colorTemperature,omitempty"` // White balance color temperature in K
	HealthIndex      *float64  `json:"healthIndex,omitempty"`      // Vegetation health index [0-100], if assigned
}

// Flight represents a single imported video with its extracted frames.
// Each source SRT file becomes one flight.
type Flight struct {
	ID         int64     `json:"id"`         // Unique identifier for the flight
	ImportedAt time.Time `json:"importedAt"` // When the SRT file was imported
	SourceFile string    `json:"sourceFile"` // Base name of the source SRT file
	FrameCount int       `json:"frameCount"` // Number of frames extracted from the file
}
