package storage

import (
	"database/sql"
	"time"
)

// frameData mirrors a row of the frames table joined with its flight.
type frameData struct {
	ID          int64
	SourceFile  string
	FrameIndex  int64
	Timestamp   sql.NullTime
	Latitude    float64
	Longitude   float64
	RelAlt      sql.NullFloat64
	AbsAlt      sql.NullFloat64
	ISO         sql.NullInt64
	Shutter     sql.NullString
	Aperture    sql.NullFloat64
	EV          sql.NullFloat64
	ColorMode   sql.NullString
	FocalLen    sql.NullFloat64
	ColorTemp   sql.NullInt64
	HealthIndex sql.NullFloat64
}

type flightData struct {
	ID         int64
	ImportedAt time.Time
	SourceFile string
	FrameCount int64
}
