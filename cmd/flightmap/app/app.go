package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/mkruger/drone-crop-survey/internal/storage"
	"github.com/mkruger/drone-crop-survey/internal/webmap"
)

// Run builds an interactive HTML map with the GPS track of every imported
// flight.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	reader, err := store.ReadFrames(ctx)
	if err != nil {
		return fmt.Errorf("reading frames: %w", err)
	}
	records, err := storage.AllFrames(ctx, reader)
	if err != nil {
		return fmt.Errorf("reading frames: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	if err = webmap.BuildFlightMap(out, records); err != nil {
		return fmt.Errorf("building flight map: %w", err)
	}

	logger.Info("flight map written",
		slog.String("file", config.OutputFile),
		slog.String("frames", humanize.Comma(int64(len(records)))))
	return nil
}
