// Package config holds the run parameters for the area-assembly CLI: a
// plain struct, a DefaultConfig constructor, and a Validate method
// returning wrapped errors.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Config holds the settings for one assemble-areas run.
type Config struct {
	// Input settings
	InputFile     string
	LocationIndex string // path for the scratch mmap node-location file

	// Which entity kinds pass 2 should route to the manager.
	InterestedInNodes     bool
	InterestedInWays      bool
	InterestedInRelations bool

	// Output Buffer settings
	OutputHighWater int // flush after this many buffered areas

	// Whether the assembler records Problem entries for invalid areas.
	CollectProblems bool

	// TagFilterFile, if set, points at a YAML include/exclude/require-any
	// config (internal/tagfilter) used as the relation-keep predicate.
	// The core itself only ever sees the resulting func(Tags) bool.
	TagFilterFile string

	// Sink selects the output destination: "postgres" or "wkt".
	Sink    string
	SinkDSN string

	Workers         int
	Debug           bool
	LogFile         string
	MetricsInterval time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LocationIndex:         "./node_locations.bin",
		InterestedInNodes:     true,
		InterestedInWays:      true,
		InterestedInRelations: false,
		OutputHighWater:       1000,
		CollectProblems:       true,
		Sink:                  "wkt",
		Workers:               runtime.NumCPU(),
		MetricsInterval:       30 * time.Second,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("config: input file is required")
	}
	if c.OutputHighWater < 1 {
		return fmt.Errorf("config: output high-water mark must be at least 1")
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1")
	}
	switch c.Sink {
	case "postgres":
		if c.SinkDSN == "" {
			return fmt.Errorf("config: postgres sink requires a DSN")
		}
	case "wkt":
	default:
		return fmt.Errorf("config: unknown sink %q", c.Sink)
	}
	return nil
}
