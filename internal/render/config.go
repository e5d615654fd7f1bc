package render

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Config holds render settings loaded from a YAML file, so plotting
// defaults can be shared between runs without repeating flags.
type Config struct {
	Colormap    string  `yaml:"colormap"`
	FloorDB     float64 `yaml:"floor_db"`
	CellSize    int     `yaml:"cell_size"`
	SmoothSigma float64 `yaml:"smooth_sigma"`
	GridSpacing float64 `yaml:"grid_spacing"`
	GridColor   string  `yaml:"grid_color"`
}

// Options converts the config to MapOptions.
func (c Config) Options() MapOptions {
	return MapOptions{
		Colormap:    c.Colormap,
		FloorDB:     c.FloorDB,
		CellSize:    c.CellSize,
		SmoothSigma: c.SmoothSigma,
		GridSpacing: c.GridSpacing,
		GridColor:   c.GridColor,
	}
}

// LoadConfig reads render settings from a YAML file. A missing path
// returns the zero config, so every setting falls back to its default.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read render config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse render config: %w", err)
	}
	if cfg.Colormap != "" {
		if _, err := LookupColormap(cfg.Colormap); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
