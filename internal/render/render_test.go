package render

import (
	"image/color"
	"strings"
	"testing"

	"github.com/mkruger/drone-crop-survey/internal/interp"
)

func testGrid() *interp.Grid {
	grid := &interp.Grid{Rows: 2, Cols: 2, Cells: make([]interp.Cell, 4)}
	lo, mid, hi := 20.0, 55.0, 90.0
	grid.Cells[0].Value = &lo
	grid.Cells[1].Value = &mid
	grid.Cells[3].Value = &hi
	// Cells[2] stays no-data.
	return grid
}

func TestHeatmapRenderer_Render(t *testing.T) {
	grid := testGrid()
	renderer := NewHeatmapRenderer(Config{CellSize: 10})

	img, err := renderer.Render(grid)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	wantW := 2*10 + defaultLeftBorder + defaultRightBorder
	wantH := 2*10 + defaultTopBorder + defaultBottomBorder
	if b := img.Bounds(); b.Dx() != wantW || b.Dy() != wantH {
		t.Errorf("Expected %dx%d image, got %dx%d", wantW, wantH, b.Dx(), b.Dy())
	}

	// Row 0 renders at the bottom. Its first cell holds the low value, so
	// the bottom-left cell must be colored and the top-left (no-data cell
	// 2 of row 1) must keep the white background.
	bottomLeft := img.RGBAAt(defaultLeftBorder+5, defaultTopBorder+15)
	if bottomLeft == (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Error("Expected the bottom-left cell to be painted")
	}
	topLeft := img.RGBAAt(defaultLeftBorder+5, defaultTopBorder+5)
	if topLeft != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("Expected the no-data cell to stay white, got %v", topLeft)
	}
}

func TestHeatmapRenderer_NoDataGrid(t *testing.T) {
	grid := &interp.Grid{Rows: 2, Cols: 2, Cells: make([]interp.Cell, 4)}
	renderer := NewHeatmapRenderer(Config{})

	if _, err := renderer.Render(grid); err == nil {
		t.Error("Expected an error for a grid without data cells")
	}
}

func TestHeatmapRenderer_MissingFont(t *testing.T) {
	renderer := NewHeatmapRenderer(Config{FontPath: "does/not/exist.ttf"})

	if _, err := renderer.Render(testGrid()); err == nil {
		t.Error("Expected an error for a missing annotation font")
	}
}

func TestColorMapper_GetColor(t *testing.T) {
	cm := NewColorMapper(HealthTheme, ValueBounds{Min: 0, Max: 100})

	if got := cm.GetColor(nil); got != NoDataColor {
		t.Errorf("Expected NoDataColor for nil, got %v", got)
	}

	lo, hi := 0.0, 100.0
	rLo, gLo, _, _ := cm.GetColor(&lo).RGBA()
	rHi, gHi, _, _ := cm.GetColor(&hi).RGBA()

	// The health ramp runs red to green.
	if rLo <= gLo {
		t.Errorf("Expected the low end to be red-dominated, got r=%d g=%d", rLo, gLo)
	}
	if gHi <= rHi {
		t.Errorf("Expected the high end to be green-dominated, got r=%d g=%d", rHi, gHi)
	}

	// Out-of-range values clamp to the ramp ends.
	below, above := -10.0, 110.0
	if cm.GetColor(&below) != cm.GetColor(&lo) {
		t.Error("Expected values below the range to clamp to the first color")
	}
	if cm.GetColor(&above) != cm.GetColor(&hi) {
		t.Error("Expected values above the range to clamp to the last color")
	}
}

func TestColorMapper_DegenerateBounds(t *testing.T) {
	cm := NewColorMapper(HealthTheme, ValueBounds{Min: 50, Max: 50})

	v := 50.0
	c := cm.GetColor(&v)
	if c == nil {
		t.Fatal("Expected a color for a degenerate range")
	}
	if c == NoDataColor {
		t.Error("Expected a ramp color, got NoDataColor")
	}
}

func TestHexColor(t *testing.T) {
	low := HexColor(HealthTheme, 0, 0, 100)
	high := HexColor(HealthTheme, 100, 0, 100)

	for _, s := range []string{low, high} {
		if !strings.HasPrefix(s, "#") || len(s) != 7 {
			t.Errorf("Expected #rrggbb, got %q", s)
		}
	}
	if low == high {
		t.Error("Expected distinct colors at the range ends")
	}

	// A collapsed range falls back to the ramp midpoint instead of
	// dividing by zero.
	if mid := HexColor(HealthTheme, 50, 50, 50); mid == "" {
		t.Error("Expected a color for a collapsed range")
	}
}
