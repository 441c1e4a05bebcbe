package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorTheme represents a predefined color scheme for health visualization.
type ColorTheme string

const (
	// HealthTheme is the red (poor) to yellow to green (healthy) gradient
	// used across the pipeline outputs.
	HealthTheme ColorTheme = "health"
	// InverseTheme flips the gradient: green for low, red for high values.
	InverseTheme ColorTheme = "inverse"
	// GrayscaleTheme is a black to white transition.
	GrayscaleTheme ColorTheme = "grayscale"
	// ThermalTheme goes black, red, yellow, white.
	ThermalTheme ColorTheme = "thermal"

	// DefaultColorMapSize is the number of pre-computed colors in the map.
	DefaultColorMapSize = 256
)

// NoDataColor marks cells without an interpolated value. Fully transparent
// so no-data areas stay invisible in the output image.
var NoDataColor = color.RGBA{}

// gradient is a sequence of anchor colors blended in Lab space, which
// keeps perceived brightness even across the ramp.
type gradient []colorful.Color

func (g gradient) at(t float64) color.Color {
	if t <= 0 {
		return g[0].Clamped()
	}
	if t >= 1 {
		return g[len(g)-1].Clamped()
	}
	scaled := t * float64(len(g)-1)
	i := int(scaled)
	return g[i].BlendLab(g[i+1], scaled-float64(i)).Clamped()
}

func themeGradient(theme ColorTheme) gradient {
	red := colorful.Color{R: 0.84, G: 0.19, B: 0.15}
	yellow := colorful.Color{R: 1.00, G: 0.87, B: 0.12}
	green := colorful.Color{R: 0.10, G: 0.60, B: 0.25}

	switch theme {
	case InverseTheme:
		return gradient{green, yellow, red}

	case GrayscaleTheme:
		return gradient{
			{R: 0, G: 0, B: 0},
			{R: 1, G: 1, B: 1},
		}

	case ThermalTheme:
		return gradient{
			{R: 0, G: 0, B: 0},
			{R: 0.9, G: 0.1, B: 0.1},
			{R: 1, G: 0.85, B: 0.1},
			{R: 1, G: 1, B: 1},
		}

	default:
		return gradient{red, yellow, green}
	}
}

// ValueBounds is the value range the color map stretches over.
type ValueBounds struct {
	Min float64
	Max float64
}

// ColorMapper provides efficient value-to-color mapping through a
// pre-computed lookup table.
type ColorMapper struct {
	colorMap      []color.Color
	theme         ColorTheme
	size          int
	boundsMin     float64
	valuePerIndex float64
}

// NewColorMapper creates a color mapper for the given theme and value
// bounds using the default lookup table size.
func NewColorMapper(theme ColorTheme, bounds ValueBounds) *ColorMapper {
	return NewColorMapperWithSize(theme, bounds, DefaultColorMapSize)
}

// NewColorMapperWithSize creates a color mapper with an explicit lookup
// table size.
func NewColorMapperWithSize(theme ColorTheme, bounds ValueBounds, size int) *ColorMapper {
	if size <= 1 {
		size = DefaultColorMapSize
	}

	cm := &ColorMapper{
		colorMap: make([]color.Color, size),
		theme:    theme,
		size:     size,
	}
	cm.UpdateBounds(bounds)
	return cm
}

// UpdateBounds stretches the color map over a new value range.
func (cm *ColorMapper) UpdateBounds(bounds ValueBounds) {
	cm.boundsMin = bounds.Min
	valueRange := bounds.Max - bounds.Min
	if valueRange <= 0 {
		valueRange = 1 // all samples identical, any index maps mid-ramp
		cm.boundsMin = bounds.Min - 0.5
	}
	cm.valuePerIndex = valueRange / float64(cm.size-1)

	g := themeGradient(cm.theme)
	for i := 0; i < cm.size; i++ {
		cm.colorMap[i] = g.at(float64(i) / float64(cm.size-1))
	}
}

// GetColor returns a color for the given value, or NoDataColor for nil.
func (cm *ColorMapper) GetColor(value *float64) color.Color {
	if value == nil {
		return NoDataColor
	}

	index := int((*value - cm.boundsMin) / cm.valuePerIndex)
	if index < 0 {
		return cm.colorMap[0]
	}
	if index >= cm.size {
		return cm.colorMap[cm.size-1]
	}
	return cm.colorMap[index]
}

// ThemeName returns the current color theme name.
func (cm *ColorMapper) ThemeName() ColorTheme {
	return cm.theme
}

// HexColor returns the web color for a health value over the given range,
// as used by the HTML map layers.
func HexColor(theme ColorTheme, value, minValue, maxValue float64) string {
	ratio := 0.5
	if maxValue > minValue {
		ratio = (value - minValue) / (maxValue - minValue)
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	c, _ := colorful.MakeColor(themeGradient(theme).at(ratio))
	return c.Hex()
}
