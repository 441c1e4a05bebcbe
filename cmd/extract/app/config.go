package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the extractor configuration.
type Config struct {
	Settings Settings      `yaml:"settings"`
	Input    InputConfig   `yaml:"input"`
	Storage  StorageConfig `yaml:"storage"`
	CSV      CSVConfig     `yaml:"csv"`
}

// Settings represents global application settings.
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level parses the configured log level, defaulting to info.
func (s Settings) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InputConfig points at the directory scanned for SRT files.
type InputConfig struct {
	Directory string `yaml:"directory"`
}

// StorageConfig represents storage settings.
type StorageConfig struct {
	DatabaseFile string `yaml:"databaseFile"`
}

// CSVConfig controls the per-flight CSV output.
type CSVConfig struct {
	Enabled         bool   `yaml:"enabled"`
	OutputDirectory string `yaml:"outputDirectory"`
}

// LoadConfig reads and validates the YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	p, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	var config Config
	if err = yaml.Unmarshal(p, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if config.Input.Directory == "" {
		return nil, errors.New("input directory is required")
	}
	if config.Storage.DatabaseFile == "" {
		return nil, errors.New("storage database file is required")
	}
	if config.CSV.Enabled && config.CSV.OutputDirectory == "" {
		config.CSV.OutputDirectory = "extracted_metadata"
	}

	return &config, nil
}
