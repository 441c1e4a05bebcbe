package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mkruger/drone-crop-survey/internal/telemetry"
)

// SqliteStore handles database operations backed by a local SQLite file.
// Write and read connections are opened lazily; the write connection runs
// in WAL mode, the read connection is opened read-only.
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a new store for the SQLite database at dbPath.
// The schema is initialized on first write.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if _, err = db.Exec(initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateFlight(ctx context.Context, sourceFile string) (flightID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertFlightSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, sourceFile)
	if err != nil {
		err = fmt.Errorf("inserting flight: %w", err)
		return
	}

	flightID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting flight ID: %w", err)
	}
	return
}

func (s *SqliteStore) Flight(ctx context.Context, id int64) (flight *telemetry.Flight, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectFlightSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var data flightData
	if err = stmt.QueryRowContext(ctx, id).Scan(&data.ID, &data.ImportedAt, &data.SourceFile, &data.FrameCount); err != nil {
		err = fmt.Errorf("scanning flight: %w", err)
		return
	}

	return &telemetry.Flight{
		ID:         data.ID,
		ImportedAt: data.ImportedAt,
		SourceFile: data.SourceFile,
		FrameCount: int(data.FrameCount),
	}, nil
}

func (s *SqliteStore) Flights(ctx context.Context) (flights []*telemetry.Flight, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectFlightsSQL)
	if err != nil {
		err = fmt.Errorf("querying flights: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var data flightData
		if err = rows.Scan(&data.ID, &data.ImportedAt, &data.SourceFile, &data.FrameCount); err != nil {
			err = fmt.Errorf("scanning flight: %w", err)
			return
		}
		flights = append(flights, &telemetry.Flight{
			ID:         data.ID,
			ImportedAt: data.ImportedAt,
			SourceFile: data.SourceFile,
			FrameCount: int(data.FrameCount),
		})
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) StoreFrames(ctx context.Context, flightID int64, frames []telemetry.Frame) (err error) {
	if len(frames) == 0 {
		return nil
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertFrameSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for i := range frames {
		frame := &frames[i]

		var ts sql.NullTime
		if !frame.Timestamp.IsZero() {
			ts = sql.NullTime{Time: frame.Timestamp.UTC(), Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			flightID,
			frame.FrameIndex,
			ts,
			frame.Latitude,
			frame.Longitude,
			nullFloat(frame.RelativeAltitude),
			nullFloat(frame.AbsoluteAltitude),
			nullInt(frame.ISO),
			nullString(frame.Shutter),
			nullFloat(frame.Aperture),
			nullFloat(frame.EV),
			nullString(frame.ColorMode),
			nullFloat(frame.FocalLength),
			nullInt(frame.ColorTemperature),
		)
		if err != nil {
			return fmt.Errorf("inserting frame %d: %w", frame.FrameIndex, err)
		}
	}

	if _, err = tx.ExecContext(ctx, updateFrameCountSQL, flightID); err != nil {
		return fmt.Errorf("updating frame count: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SqliteStore) UpdateHealth(ctx context.Context, updates []HealthUpdate) (err error) {
	if len(updates) == 0 {
		return nil
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, updateHealthSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for _, u := range updates {
		if _, err = stmt.ExecContext(ctx, u.Index, u.FrameID); err != nil {
			return fmt.Errorf("updating frame %d: %w", u.FrameID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SqliteStore) ReadFrames(ctx context.Context, opts ...ReaderOption) (*FrameReader, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}
	return newFrameReader(ctx, db, opts...)
}

// Close closes both database connections. After Close is called, the
// store instance cannot be reused.
func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}
		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}

var _ Store = (*SqliteStore)(nil)
