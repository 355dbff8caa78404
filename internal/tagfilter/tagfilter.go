// Package tagfilter implements a YAML include/exclude/require-any tag
// filter, compiled down to the single relation-keep predicate the
// relations manager consumes.
package tagfilter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/osmcore/relareas/osmentity"
)

// Config defines which relations the assembler should keep, beyond the
// mandatory type=multipolygon/boundary check.
type Config struct {
	// Include specifies which tag keys/values to accept. If empty, every
	// relation passes include filtering.
	Include map[string][]string `yaml:"include,omitempty"`
	// Exclude specifies which tag keys/values to reject, applied after
	// Include.
	Exclude map[string][]string `yaml:"exclude,omitempty"`
	// RequireAny specifies that at least one of these keys must be present.
	RequireAny []string `yaml:"require_any,omitempty"`
}

// Load reads a tag filter config from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tagfilter: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("tagfilter: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// DefaultConfig accepts every relation.
func DefaultConfig() *Config {
	return &Config{}
}

// Predicate builds the func(osmentity.Tags) bool the relations package's
// policy consumes as its relation-keep accept function. A nil cfg accepts
// everything.
func Predicate(cfg *Config) func(osmentity.Tags) bool {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return func(tags osmentity.Tags) bool {
		return match(cfg, tags)
	}
}

func match(cfg *Config, tags osmentity.Tags) bool {
	if len(cfg.RequireAny) > 0 {
		found := false
		for _, key := range cfg.RequireAny {
			if _, ok := tags[key]; ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(cfg.Include) > 0 {
		matched := false
		for key, values := range cfg.Include {
			v, ok := tags[key]
			if !ok {
				continue
			}
			if len(values) == 0 {
				matched = true
				break
			}
			for _, want := range values {
				if want == v || want == "*" {
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(cfg.Exclude) > 0 {
		for key, values := range cfg.Exclude {
			v, ok := tags[key]
			if !ok {
				continue
			}
			if len(values) == 0 {
				return false
			}
			for _, bad := range values {
				if bad == v || bad == "*" {
					return false
				}
			}
		}
	}

	return true
}

// HasFilter reports whether cfg imposes any constraint beyond the
// multipolygon/boundary type check.
func (c *Config) HasFilter() bool {
	if c == nil {
		return false
	}
	return len(c.Include) > 0 || len(c.Exclude) > 0 || len(c.RequireAny) > 0
}
