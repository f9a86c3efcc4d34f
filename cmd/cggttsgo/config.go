package main

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml"
)

// Config holds tool defaults, read from an optional TOML file.
type Config struct {
	PlotDir    string  `toml:"plot_directory"`
	PlotWidth  float64 `toml:"plot_width_cm"`
	PlotHeight float64 `toml:"plot_height_cm"`
}

func defaultConfig() *Config {
	return &Config{PlotDir: ".", PlotWidth: 20, PlotHeight: 10}
}

// loadConfig reads the config file, or returns the defaults if file is empty.
func loadConfig(file string) (*Config, error) {
	c := defaultConfig()
	if file == "" {
		return c, nil
	}

	contents, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := toml.Unmarshal(contents, c); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return c, nil
}
