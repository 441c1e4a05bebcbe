package app

import (
	"errors"
	"flag"
)

// Config holds the export tool settings.
type Config struct {
	DBPath     string
	OutputFile string
	StatsFile  string
	WithHealth bool
	Verbose    bool
}

// NewConfigFromCLI builds the configuration from command line flags.
func NewConfigFromCLI() (*Config, error) {
	c := &Config{}

	flag.StringVar(&c.DBPath, "db", "", "Path to the database file")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the consolidated CSV output file")
	flag.StringVar(&c.StatsFile, "stats", "", "Optional path for the statistics summary file")
	flag.BoolVar(&c.WithHealth, "with-health", false, "Assign the vegetation health index before exporting")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
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
