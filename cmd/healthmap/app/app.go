package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/mkruger/drone-crop-survey/internal/geo"
	"github.com/mkruger/drone-crop-survey/internal/interp"
	"github.com/mkruger/drone-crop-survey/internal/render"
	"github.com/mkruger/drone-crop-survey/internal/storage"
	"github.com/mkruger/drone-crop-survey/internal/webmap"
)

// Run interpolates the stored health samples onto a grid and renders the
// result as a heatmap image, and optionally as an interactive HTML map.
// Only frames with an assigned health index participate; run the export
// tool with -with-health first.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	reader, err := store.ReadFrames(ctx, storage.WithHealthOnly())
	if err != nil {
		return fmt.Errorf("reading frames: %w", err)
	}
	records, err := storage.AllFrames(ctx, reader)
	if err != nil {
		return fmt.Errorf("reading frames: %w", err)
	}

	samples := make([]interp.Sample, len(records))
	for i, rec := range records {
		samples[i] = interp.Sample{
			Point: geo.Point{Lat: rec.Latitude, Lon: rec.Longitude},
			Value: *rec.HealthIndex,
		}
	}

	logger.Info("interpolating health index",
		slog.String("samples", humanize.Comma(int64(len(samples)))),
		slog.Group("grid",
			slog.Int("rows", config.Interp.Rows),
			slog.Int("cols", config.Interp.Cols),
			slog.String("mode", string(config.Interp.Mode)),
			slog.String("power", fmt.Sprintf("%g", config.Interp.Power)),
			slog.String("maxDistance", fmt.Sprintf("%g", config.Interp.MaxDistance)),
		))

	grid, err := interp.Interpolate(samples, config.Interp)
	if err != nil {
		return fmt.Errorf("interpolating samples: %w", err)
	}

	minV, maxV, ok := grid.ValueRange()
	if !ok {
		return fmt.Errorf("no grid cell within %g of any sample", config.Interp.MaxDistance)
	}

	logger.Info("finished interpolating",
		slog.Group("stats",
			slog.Int("dataCells", grid.DataCells()),
			slog.Int("totalCells", grid.Rows*grid.Cols),
			slog.String("minHealth", fmt.Sprintf("%0.2f%%", minV)),
			slog.String("maxHealth", fmt.Sprintf("%0.2f%%", maxV)),
		))

	if err = renderImage(config, logger, grid); err != nil {
		return err
	}

	if config.HTMLFile == "" {
		return nil
	}
	return renderHTML(config, logger, records, grid)
}

func renderImage(config *Config, logger *slog.Logger, grid *interp.Grid) error {
	renderer := render.NewHeatmapRenderer(render.Config{
		CellSize:   config.CellSize,
		ColorTheme: config.Theme,
		FontPath:   config.FontPath,
		FontSize:   config.FontSize,
	})

	logger.Info("rendering heatmap",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.String("theme", string(config.Theme)),
		))

	img, err := renderer.Render(grid)
	if err != nil {
		return fmt.Errorf("rendering heatmap: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}

func renderHTML(config *Config, logger *slog.Logger, records []*storage.FrameRecord, grid *interp.Grid) error {
	out, err := os.Create(config.HTMLFile)
	if err != nil {
		return err
	}
	defer out.Close()

	if err = webmap.BuildAnalyticalMap(out, records, grid); err != nil {
		return fmt.Errorf("building analytical map: %w", err)
	}

	logger.Info("analytical map written", slog.String("file", config.HTMLFile))
	return nil
}
