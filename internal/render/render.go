// Package render draws interpolated health grids as raster heatmaps
// suitable for reports and quick visual inspection.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/mkruger/drone-crop-survey/internal/interp"
)

const (
	defaultCellSize = 8 // Pixels per grid cell

	// Default border sizes in pixels
	defaultTopBorder    = 20
	defaultLeftBorder   = 20
	defaultBottomBorder = 90
	defaultRightBorder  = 20

	legendHeight = 14
	legendMargin = 8
)

// BorderConfig defines the sizes of white space around the heatmap.
type BorderConfig struct {
	Top    int
	Left   int
	Bottom int // Space for the legend and the info text
	Right  int
}

// Config holds all configuration options for heatmap rendering.
type Config struct {
	CellSize     int        // Pixels per grid cell
	ColorTheme   ColorTheme // Color scheme for health values
	ColorMapSize int        // Number of colors in the gradient (0 for default)
	FontPath     string     // TTF font for annotations; empty disables text
	FontSize     float64    // Font size in points
	Borders      BorderConfig
}

// HeatmapRenderer turns an interpolated grid into an annotated image.
type HeatmapRenderer struct {
	colorMap *ColorMapper
	config   Config
}

// NewHeatmapRenderer creates a renderer with the given configuration,
// applying defaults for zero values.
func NewHeatmapRenderer(config Config) *HeatmapRenderer {
	if config.CellSize <= 0 {
		config.CellSize = defaultCellSize
	}
	if config.ColorTheme == "" {
		config.ColorTheme = HealthTheme
	}
	if config.Borders.Top == 0 {
		config.Borders.Top = defaultTopBorder
	}
	if config.Borders.Left == 0 {
		config.Borders.Left = defaultLeftBorder
	}
	if config.Borders.Bottom == 0 {
		config.Borders.Bottom = defaultBottomBorder
	}
	if config.Borders.Right == 0 {
		config.Borders.Right = defaultRightBorder
	}

	return &HeatmapRenderer{config: config}
}

// Render draws the grid with a legend and, when a font is configured,
// a text panel with the bounding region and cell resolution. Grid row 0
// is the southernmost row; the image is drawn north up.
func (r *HeatmapRenderer) Render(grid *interp.Grid) (*image.RGBA, error) {
	gridWidth := grid.Cols * r.config.CellSize
	gridHeight := grid.Rows * r.config.CellSize

	fullWidth := gridWidth + r.config.Borders.Left + r.config.Borders.Right
	fullHeight := gridHeight + r.config.Borders.Top + r.config.Borders.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	minV, maxV, ok := grid.ValueRange()
	if !ok {
		return nil, fmt.Errorf("grid has no data cells to render")
	}

	bounds := ValueBounds{Min: minV, Max: maxV}
	if r.colorMap == nil {
		r.colorMap = NewColorMapperWithSize(r.config.ColorTheme, bounds, r.config.ColorMapSize)
	} else {
		r.colorMap.UpdateBounds(bounds)
	}

	area := image.Rect(
		r.config.Borders.Left,
		r.config.Borders.Top,
		r.config.Borders.Left+gridWidth,
		r.config.Borders.Top+gridHeight,
	)
	r.renderGrid(img, area, grid)
	r.renderLegend(img, area)

	if r.config.FontPath != "" {
		ann, err := newAnnotator(annotatorConfig{
			FontPath: r.config.FontPath,
			FontSize: r.config.FontSize,
			Borders:  r.config.Borders,
		})
		if err != nil {
			return nil, fmt.Errorf("creating annotator: %w", err)
		}
		defer ann.Close()
		if err := ann.annotate(img, grid, bounds); err != nil {
			return nil, fmt.Errorf("drawing annotations: %w", err)
		}
	}

	return img, nil
}

// renderGrid paints the cells using the color map. No-data cells keep the
// white background so they read as gaps, not as zero health.
func (r *HeatmapRenderer) renderGrid(img *image.RGBA, area image.Rectangle, grid *interp.Grid) {
	cs := r.config.CellSize
	for row := 0; row < grid.Rows; row++ {
		// Row 0 is at MinLat, so it lands at the bottom of the image.
		y0 := area.Min.Y + (grid.Rows-1-row)*cs
		for col := 0; col < grid.Cols; col++ {
			cell := grid.At(row, col)
			if cell.Value == nil {
				continue
			}
			x0 := area.Min.X + col*cs
			rect := image.Rect(x0, y0, x0+cs, y0+cs)
			draw.Draw(img, rect, image.NewUniform(r.colorMap.GetColor(cell.Value)), image.Point{}, draw.Src)
		}
	}
}

// renderLegend draws the gradient strip below the grid area.
func (r *HeatmapRenderer) renderLegend(img *image.RGBA, area image.Rectangle) {
	y0 := area.Max.Y + legendMargin
	width := area.Dx()

	for x := 0; x < width; x++ {
		v := r.colorMap.boundsMin + float64(x)/float64(width-1)*r.colorMap.valuePerIndex*float64(r.colorMap.size-1)
		c := r.colorMap.GetColor(&v)
		for y := y0; y < y0+legendHeight; y++ {
			img.Set(area.Min.X+x, y, c)
		}
	}

	// Hairline frame around the strip
	frame := color.RGBA{A: 255}
	for x := area.Min.X; x < area.Min.X+width; x++ {
		img.Set(x, y0, frame)
		img.Set(x, y0+legendHeight-1, frame)
	}
	for y := y0; y < y0+legendHeight; y++ {
		img.Set(area.Min.X, y, frame)
		img.Set(area.Min.X+width-1, y, frame)
	}
}
