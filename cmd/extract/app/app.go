package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mkruger/drone-crop-survey/internal/report"
	"github.com/mkruger/drone-crop-survey/internal/srt"
	"github.com/mkruger/drone-crop-survey/internal/storage"
	"github.com/mkruger/drone-crop-survey/internal/telemetry"
)

// Run scans the input directory for DJI SRT files, extracts per-frame
// telemetry from each and stores it as one flight per file. When enabled,
// a per-flight metadata CSV is written alongside.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	files, err := findSRTFiles(config.Input.Directory)
	if err != nil {
		return fmt.Errorf("scanning input directory: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no SRT files found in '%s'", config.Input.Directory)
	}

	logger.Info("found SRT files",
		slog.String("directory", config.Input.Directory),
		slog.Int("count", len(files)))

	store := storage.NewSqliteStore(config.Storage.DatabaseFile)
	defer store.Close()

	processed := 0
	for _, path := range files {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = processFile(ctx, store, config, logger, path); err != nil {
			logger.Error(fmt.Sprintf("processing %s: %s", path, err))
			continue
		}
		processed++
	}

	logger.Info("extraction finished",
		slog.Int("processed", processed),
		slog.Int("failed", len(files)-processed),
		slog.String("database", config.Storage.DatabaseFile))

	if processed == 0 {
		return fmt.Errorf("no SRT file could be processed")
	}
	return nil
}

func processFile(ctx context.Context, store storage.Store, config *Config, logger *slog.Logger, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	frames, err := srt.ParseFile(path)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		logger.Warn("no valid frames found", slog.String("file", path))
		return nil
	}

	baseName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	flightID, err := store.CreateFlight(ctx, baseName)
	if err != nil {
		return fmt.Errorf("creating flight: %w", err)
	}
	if err = store.StoreFrames(ctx, flightID, frames); err != nil {
		return fmt.Errorf("storing frames: %w", err)
	}

	logger.Info("flight imported",
		slog.String("file", filepath.Base(path)),
		slog.String("size", humanize.Bytes(uint64(info.Size()))),
		slog.String("frames", humanize.Comma(int64(len(frames)))),
		slog.Int64("flightID", flightID))

	if !config.CSV.Enabled {
		return nil
	}
	return writeFlightCSV(config.CSV.OutputDirectory, baseName, frames)
}

// writeFlightCSV writes the per-flight metadata CSV under
// <outputDir>/<flight>/<flight>_metadata.csv, the layout GIS users of the
// pipeline expect.
func writeFlightCSV(outputDir, baseName string, frames []telemetry.Frame) (err error) {
	dir := filepath.Join(outputDir, baseName)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, baseName+"_metadata.csv"))
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	if err = report.WriteFlightCSV(f, frames); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}

func findSRTFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".srt") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
