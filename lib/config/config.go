// Package config loads the optional configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// Config holds the settings of a run.
type Config struct {
	// Tolerance is the maximum per-currency residual of a balanced
	// transaction.
	Tolerance decimal.Decimal

	// Color enables colored output.
	Color bool
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Tolerance: decimal.New(5, -3),
		Color:     true,
	}
}

type file struct {
	Tolerance string `yaml:"tolerance"`
	Color     *bool  `yaml:"color"`
}

// Load reads the configuration file at the given path and applies it
// over the defaults.
func Load(path string) (Config, error) {
	res := Default()
	text, err := os.ReadFile(path)
	if err != nil {
		return res, err
	}
	var f file
	if err := yaml.UnmarshalStrict(text, &f); err != nil {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}
	if f.Tolerance != "" {
		tol, err := decimal.NewFromString(f.Tolerance)
		if err != nil {
			return res, fmt.Errorf("reading %s: invalid tolerance %q", path, f.Tolerance)
		}
		res.Tolerance = tol
	}
	if f.Color != nil {
		res.Color = *f.Color
	}
	return res, nil
}
