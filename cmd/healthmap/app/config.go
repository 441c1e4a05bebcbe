package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/mkruger/drone-crop-survey/internal/interp"
	"github.com/mkruger/drone-crop-survey/internal/render"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
)

type ImageFormat string

type Config struct {
	DBPath     string
	OutputFile string
	HTMLFile   string
	Format     ImageFormat
	Theme      render.ColorTheme
	FontPath   string
	FontSize   float64
	CellSize   int
	Verbose    bool

	Interp interp.Config
}

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

var validThemes = map[render.ColorTheme]struct{}{
	render.HealthTheme:    {},
	render.InverseTheme:   {},
	render.GrayscaleTheme: {},
	render.ThermalTheme:   {},
}

func NewConfig() *Config {
	return &Config{
		Format: ImagePNG,
		Theme:  render.HealthTheme,
		Interp: interp.DefaultConfig(),
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var imageFormat, theme string
	var geodesic bool
	flag.StringVar(&c.DBPath, "db", "", "Path to the database file")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&c.HTMLFile, "html", "", "Optional path for an interactive HTML map")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.StringVar(&theme, "theme", string(render.HealthTheme), "Color theme. [health, inverse, grayscale, thermal]")
	flag.StringVar(&c.FontPath, "font", "", "Path to a TTF font for annotations (no text when empty)")
	flag.Float64Var(&c.FontSize, "font-size", 0, "Annotation font size in points")
	flag.IntVar(&c.CellSize, "cell-size", 0, "Pixels per grid cell")
	flag.IntVar(&c.Interp.Rows, "rows", interp.DefaultRows, "Grid rows")
	flag.IntVar(&c.Interp.Cols, "cols", interp.DefaultCols, "Grid columns")
	flag.Float64Var(&c.Interp.Power, "power", interp.DefaultPower, "Inverse distance exponent")
	flag.Float64Var(&c.Interp.MaxDistance, "max-distance", interp.DefaultMaxDistance, "Maximum sample influence distance")
	flag.Float64Var(&c.Interp.Epsilon, "epsilon", interp.DefaultEpsilon, "Coincidence threshold distance")
	flag.Float64Var(&c.Interp.Margin, "margin", 0, "Bounds padding as a fraction of each span")
	flag.IntVar(&c.Interp.Workers, "workers", 0, "Grid rows interpolated concurrently")
	flag.BoolVar(&geodesic, "geodesic", false, "Measure distances in meters along the great circle")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)
	theme = strings.ToLower(theme)

	if geodesic {
		c.Interp.Mode = interp.ModeGeodesic
	}

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	} else if _, ok := validThemes[render.ColorTheme(theme)]; !ok {
		err = fmt.Errorf("invalid color theme: %s", theme)
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = ImageFormat(imageFormat)
	c.Theme = render.ColorTheme(theme)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return c, nil
}
