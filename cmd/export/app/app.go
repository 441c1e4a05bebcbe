package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/mkruger/drone-crop-survey/internal/geo"
	"github.com/mkruger/drone-crop-survey/internal/health"
	"github.com/mkruger/drone-crop-survey/internal/report"
	"github.com/mkruger/drone-crop-survey/internal/storage"
)

// Run exports all stored frames into a consolidated CSV. With -with-health
// it first assigns the vegetation health index to frames that lack one and
// persists it, so repeated exports agree.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	records, err := readAll(ctx, store)
	if err != nil {
		return err
	}

	logger.Info("frames loaded", slog.String("count", humanize.Comma(int64(len(records)))))

	if config.Verbose {
		flights, err := store.Flights(ctx)
		if err != nil {
			return fmt.Errorf("listing flights: %w", err)
		}
		for _, fl := range flights {
			logger.Info("flight",
				slog.Int64("id", fl.ID),
				slog.String("source", fl.SourceFile),
				slog.Int("frames", fl.FrameCount))
		}
	}

	if config.WithHealth {
		if err = assignHealth(ctx, store, logger, records); err != nil {
			return fmt.Errorf("assigning health index: %w", err)
		}
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	if err = report.WriteConsolidatedCSV(out, records, config.WithHealth); err != nil {
		return fmt.Errorf("writing consolidated CSV: %w", err)
	}
	logger.Info("consolidated CSV written", slog.String("file", config.OutputFile))

	if config.StatsFile == "" {
		return nil
	}

	stats, err := os.Create(config.StatsFile)
	if err != nil {
		return fmt.Errorf("creating statistics file: %w", err)
	}
	defer stats.Close()

	if err = report.WriteSummary(stats, records); err != nil {
		return fmt.Errorf("writing statistics summary: %w", err)
	}
	logger.Info("statistics summary written", slog.String("file", config.StatsFile))

	return nil
}

func readAll(ctx context.Context, store storage.Store) ([]*storage.FrameRecord, error) {
	reader, err := store.ReadFrames(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading frames: %w", err)
	}
	records, err := storage.AllFrames(ctx, reader)
	if err != nil {
		return nil, fmt.Errorf("reading frames: %w", err)
	}
	return records, nil
}

// assignHealth computes the health index for frames that do not have one
// yet, centered on the surveyed area, and writes it back to the store and
// the in-memory records.
func assignHealth(ctx context.Context, store storage.Store, logger *slog.Logger, records []*storage.FrameRecord) error {
	points := make([]geo.Point, len(records))
	for i, rec := range records {
		points[i] = geo.Point{Lat: rec.Latitude, Lon: rec.Longitude}
	}
	bounds, _ := geo.BoundsOf(points)

	gen := health.NewGenerator(bounds.Center())

	var updates []storage.HealthUpdate
	for _, rec := range records {
		if rec.HealthIndex != nil {
			continue
		}
		index := gen.Index(&rec.Frame)
		rec.HealthIndex = &index
		updates = append(updates, storage.HealthUpdate{FrameID: rec.ID, Index: index})
	}
	if len(updates) == 0 {
		logger.Info("health index already assigned to all frames")
		return nil
	}

	if err := store.UpdateHealth(ctx, updates); err != nil {
		return err
	}

	values := make([]float64, 0, len(records))
	for _, rec := range records {
		values = append(values, *rec.HealthIndex)
	}
	stats := health.Summarize(values)

	logger.Info("health index assigned",
		slog.Int("frames", len(updates)),
		slog.Group("stats",
			slog.String("min", fmt.Sprintf("%.2f%%", stats.Min)),
			slog.String("max", fmt.Sprintf("%.2f%%", stats.Max)),
			slog.String("mean", fmt.Sprintf("%.2f%%", stats.Mean)),
		))
	return nil
}
