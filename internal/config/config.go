// Package config holds the run configuration. Values come from an
// optional YAML file overlaid on defaults; flags override both.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BackgroundDir  string `yaml:"background_dir"`
	AssetDir       string `yaml:"asset_dir"`
	OutputDir      string `yaml:"output_dir"`
	FontPath       string `yaml:"font_path"`
	DefaultCaption string `yaml:"default_caption"`
	LinkURL        string `yaml:"link_url"`
	Workers        int    `yaml:"workers"`
	PDFDPI         int    `yaml:"pdf_dpi"`
	Debug          bool   `yaml:"debug"`
	LogPath        string `yaml:"log_path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		BackgroundDir:  "input/backgrounds",
		AssetDir:       "input/assets",
		OutputDir:      "output",
		DefaultCaption: "Swipe up to see more",
		Workers:        5,
		PDFDPI:         144,
	}
}

// Load reads a YAML config file over the defaults. Fields absent from
// the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
