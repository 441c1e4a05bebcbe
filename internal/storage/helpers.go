package storage

import (
	"database/sql"

	"github.com/mkruger/drone-crop-survey/internal/telemetry"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func fromNullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func fromNullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func toFrameRecord(d *frameData) *FrameRecord {
	rec := FrameRecord{
		ID:     d.ID,
		Flight: d.SourceFile,
		Frame: telemetry.Frame{
			FrameIndex:       int(d.FrameIndex),
			Latitude:         d.Latitude,
			Longitude:        d.Longitude,
			RelativeAltitude: fromNullFloat(d.RelAlt),
			AbsoluteAltitude: fromNullFloat(d.AbsAlt),
			ISO:              fromNullInt(d.ISO),
			Shutter:          fromNullString(d.Shutter),
			Aperture:         fromNullFloat(d.Aperture),
			EV:               fromNullFloat(d.EV),
			ColorMode:        fromNullString(d.ColorMode),
			FocalLength:      fromNullFloat(d.FocalLen),
			ColorTemperature: fromNullInt(d.ColorTemp),
			HealthIndex:      fromNullFloat(d.HealthIndex),
		},
	}
	if d.Timestamp.Valid {
		rec.Frame.Timestamp = d.Timestamp.Time
	}
	return &rec
}
