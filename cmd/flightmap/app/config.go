package app

import (
	"errors"
	"flag"
)

// Config holds the flight map tool settings.
type Config struct {
	DBPath     string
	OutputFile string
}

// NewConfigFromCLI builds the configuration from command line flags.
func NewConfigFromCLI() (*Config, error) {
	c := &Config{}

	flag.StringVar(&c.DBPath, "db", "", "Path to the database file")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the HTML output file")
	flag.Parse()

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}
	return c, nil
}
