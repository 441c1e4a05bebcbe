package render

import (
	"fmt"
	"image"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/mkruger/drone-crop-survey/internal/interp"
)

const (
	dpi             = 96.0
	defaultFontSize = 11.0
	lineSpacing     = 1.35
)

type annotatorConfig struct {
	FontPath string
	FontSize float64
	Borders  BorderConfig
}

type annotator struct {
	context  *freetype.Context
	config   annotatorConfig
	fontFace font.Face
}

func newAnnotator(config annotatorConfig) (*annotator, error) {
	fontBytes, err := os.ReadFile(config.FontPath)
	if err != nil {
		return nil, fmt.Errorf("reading font file: %w", err)
	}

	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	if config.FontSize == 0 {
		config.FontSize = defaultFontSize
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (a *annotator) annotate(img *image.RGBA, grid *interp.Grid, bounds ValueBounds) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	if err := a.drawLegendLabels(img, bounds); err != nil {
		return fmt.Errorf("drawing legend labels: %w", err)
	}
	if err := a.drawInfoText(img, grid); err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}
	return nil
}

// drawLegendLabels writes the value range under the legend strip ends.
func (a *annotator) drawLegendLabels(img *image.RGBA, bounds ValueBounds) error {
	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	legendBottom := img.Bounds().Max.Y - a.config.Borders.Bottom + legendMargin + legendHeight
	textY := legendBottom + fontHeight + 2

	left := a.config.Borders.Left
	right := img.Bounds().Max.X - a.config.Borders.Right

	minLabel := fmt.Sprintf("%.1f%%", bounds.Min)
	maxLabel := fmt.Sprintf("%.1f%%", bounds.Max)

	if _, err := a.context.DrawString(minLabel, freetype.Pt(left, textY)); err != nil {
		return err
	}

	width := font.MeasureString(a.fontFace, maxLabel).Round()
	_, err := a.context.DrawString(maxLabel, freetype.Pt(right-width, textY))
	return err
}

// drawInfoText writes the bounding region and cell resolution at the very
// bottom of the image.
func (a *annotator) drawInfoText(img *image.RGBA, grid *interp.Grid) error {
	// Degree-based cell height converted with the same flat approximation
	// the interpolator uses (~111 km per degree of latitude).
	cellMeters := grid.LatStep * 111000

	lines := []string{
		fmt.Sprintf("Area: %.6f,%.6f to %.6f,%.6f",
			grid.Bounds.MinLat, grid.Bounds.MinLon, grid.Bounds.MaxLat, grid.Bounds.MaxLon),
		fmt.Sprintf("Grid: %dx%d cells (%d with data), 1 cell = %.1f m",
			grid.Rows, grid.Cols, grid.DataCells(), cellMeters),
	}

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	y := img.Bounds().Max.Y - a.config.Borders.Bottom + legendMargin + legendHeight + 2*fontHeight + 8
	pt := freetype.Pt(a.config.Borders.Left, y)
	for _, line := range lines {
		if _, err := a.context.DrawString(line, pt); err != nil {
			return err
		}
		pt.Y += a.context.PointToFixed(a.fontSizeOrDefault() * lineSpacing)
	}
	return nil
}

func (a *annotator) fontSizeOrDefault() float64 {
	if a.config.FontSize > 0 {
		return a.config.FontSize
	}
	return defaultFontSize
}

// Close releases the font face.
func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}
