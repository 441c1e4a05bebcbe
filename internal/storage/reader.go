package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoData indicates that no frames exist for the given filters.
var ErrNoData = errors.New("no data available")

// ReaderOption configures a FrameReader with specific filtering criteria.
type ReaderOption func(*FrameReader)

// WithFlight restricts the reader to frames of a single flight.
func WithFlight(flightID int64) ReaderOption {
	return func(r *FrameReader) {
		r.flightID = &flightID
	}
}

// WithTimeRange restricts the reader to frames captured within the given
// time range (inclusive).
func WithTimeRange(start, end time.Time) ReaderOption {
	return func(r *FrameReader) {
		r.startTime = &start
		r.endTime = &end
	}
}

// WithHealthOnly restricts the reader to frames that have a health index
// assigned.
func WithHealthOnly() ReaderOption {
	return func(r *FrameReader) {
		r.healthOnly = true
	}
}

// FrameReader provides an iterator over stored frames ordered by flight
// and frame index. Each reader instance should only be used from a single
// goroutine and must be closed after use.
type FrameReader struct {
	rows *sql.Rows

	flightID   *int64
	startTime  *time.Time
	endTime    *time.Time
	healthOnly bool

	current *FrameRecord
	err     error
}

func newFrameReader(ctx context.Context, db *sql.DB, opts ...ReaderOption) (*FrameReader, error) {
	r := &FrameReader{}
	for _, opt := range opts {
		opt(r)
	}

	query := selectFramesSQL
	var args []any
	if r.flightID != nil {
		query += " AND f.flight_id = ?"
		args = append(args, *r.flightID)
	}
	if r.startTime != nil && r.endTime != nil {
		query += " AND f.timestamp BETWEEN ? AND ?"
		args = append(args, r.startTime.UTC(), r.endTime.UTC())
	}
	if r.healthOnly {
		query += " AND f.health_index IS NOT NULL"
	}
	query += orderFramesSQL

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying frames: %w", err)
	}

	r.rows = rows
	return r, nil
}

// Next advances the iterator and returns true if there is another frame
// to read, false when the iteration is complete or an error occurred.
func (r *FrameReader) Next(ctx context.Context) bool {
	if r.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		r.err = err
		return false
	}
	if !r.rows.Next() {
		return false
	}

	var data frameData
	if err := r.rows.Scan(
		&data.ID,
		&data.SourceFile,
		&data.FrameIndex,
		&data.Timestamp,
		&data.Latitude,
		&data.Longitude,
		&data.RelAlt,
		&data.AbsAlt,
		&data.ISO,
		&data.Shutter,
		&data.Aperture,
		&data.EV,
		&data.ColorMode,
		&data.FocalLen,
		&data.ColorTemp,
		&data.HealthIndex,
	); err != nil {
		r.err = fmt.Errorf("scanning frame: %w", err)
		return false
	}

	r.current = toFrameRecord(&data)
	return true
}

// Current returns the current frame record. If called after Next returned
// false, the behavior is undefined.
func (r *FrameReader) Current() *FrameRecord {
	return r.current
}

// Error returns any error that occurred during iteration.
func (r *FrameReader) Error() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

// Close releases the database resources held by the reader.
func (r *FrameReader) Close() error {
	return r.rows.Close()
}

// AllFrames drains a reader into a slice, closing it afterwards. It
// returns ErrNoData when the filters matched nothing.
func AllFrames(ctx context.Context, r *FrameReader) ([]*FrameRecord, error) {
	defer r.Close()

	var records []*FrameRecord
	for r.Next(ctx) {
		records = append(records, r.Current())
	}
	if err := r.Error(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}
	return records, nil
}
