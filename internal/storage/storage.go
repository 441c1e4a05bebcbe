package storage

import (
	"context"

	"github.com/mkruger/drone-crop-survey/internal/telemetry"
)

// Store provides an interface for managing survey data storage operations.
// It handles flights and per-frame telemetry records. All operations that
// write to the database should be considered atomic.
type Store interface {
	// CreateFlight registers a new imported SRT file and returns its
	// unique identifier.
	CreateFlight(ctx context.Context, sourceFile string) (flightID int64, err error)

	// Flight retrieves a single flight by its ID.
	Flight(ctx context.Context, id int64) (*telemetry.Flight, error)

	// Flights returns all imported flights, ordered by import time.
	Flights(ctx context.Context) ([]*telemetry.Flight, error)

	// StoreFrames saves a batch of extracted frames for a flight in a
	// single transaction and updates the flight's frame count.
	StoreFrames(ctx context.Context, flightID int64, frames []telemetry.Frame) error

	// UpdateHealth writes health index values back to frames in a single
	// transaction.
	UpdateHealth(ctx context.Context, updates []HealthUpdate) error

	// ReadFrames creates an iterator over stored frames, optionally
	// filtered. The returned reader must be closed after use.
	ReadFrames(ctx context.Context, opts ...ReaderOption) (*FrameReader, error)

	// Close releases all database connections. It is safe to call Close
	// multiple times.
	Close() error
}

// HealthUpdate assigns a health index to a stored frame.
type HealthUpdate struct {
	FrameID int64
	Index   float64
}

// FrameRecord is a stored frame together with its database identity and
// the flight it belongs to.
type FrameRecord struct {
	ID     int64
	Flight string
	telemetry.Frame
}
