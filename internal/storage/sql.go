package storage

const initSchemaSQL = `
CREATE TABLE IF NOT EXISTS flights (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    imported_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    source_file TEXT      NOT NULL,
    frame_count INTEGER   NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS frames (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    flight_id    INTEGER NOT NULL REFERENCES flights (id),
    frame_index  INTEGER NOT NULL,
    timestamp    TIMESTAMP,
    latitude     REAL    NOT NULL,
    longitude    REAL    NOT NULL,
    rel_alt      REAL,
    abs_alt      REAL,
    iso          INTEGER,
    shutter      TEXT,
    aperture     REAL,
    ev           REAL,
    color_mode   TEXT,
    focal_len    REAL,
    color_temp   INTEGER,
    health_index REAL
);

CREATE INDEX IF NOT EXISTS idx_frames_flight ON frames (flight_id, frame_index);
`

const (
	insertFlightSQL = `
INSERT INTO flights (
                     imported_at,
                     source_file)
VALUES (CURRENT_TIMESTAMP, ?)`

	selectFlightSQL = `
SELECT
    id,
    imported_at,
    source_file,
    frame_count
FROM flights
WHERE
    id = ?`

	selectFlightsSQL = `
SELECT
    id,
    imported_at,
    source_file,
    frame_count
FROM flights
ORDER BY imported_at, id`

	insertFrameSQL = `
INSERT INTO frames (flight_id,
                    frame_index,
                    timestamp,
                    latitude,
                    longitude,
                    rel_alt,
                    abs_alt,
                    iso,
                    shutter,
                    aperture,
                    ev,
                    color_mode,
                    focal_len,
                    color_temp)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	updateFrameCountSQL = `
UPDATE flights
SET frame_count = (SELECT COUNT(*) FROM frames WHERE flight_id = flights.id)
WHERE id = ?`

	updateHealthSQL = `
UPDATE frames
SET health_index = ?
WHERE id = ?`

	selectFramesSQL = `
SELECT
    f.id,
    fl.source_file,
    f.frame_index,
    f.timestamp,
    f.latitude,
    f.longitude,
    f.rel_alt,
    f.abs_alt,
    f.iso,
    f.shutter,
    f.aperture,
    f.ev,
    f.color_mode,
    f.focal_len,
    f.color_temp,
    f.health_index
FROM frames f
         JOIN flights fl ON fl.id = f.flight_id
WHERE 1 = 1`

	orderFramesSQL = `
ORDER BY fl.source_file, f.frame_index`
)
