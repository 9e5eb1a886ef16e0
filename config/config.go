// Package config loads the optional TOML configuration of inkprep.
package config

import (
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"inkprep/adjust"
	"inkprep/palette"
	"inkprep/settings"

	"github.com/BurntSushi/toml"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "inkprep.toml"

type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// DefaultsConfig seeds the pipeline when no settings document is given, and
// supplies the fallback scalars when one is.
type DefaultsConfig struct {
	InvGamma       float64  `toml:"inv_gamma"`
	Brightness     float64  `toml:"brightness"`
	Contrast       float64  `toml:"contrast"`
	Red            float64  `toml:"red"`
	Green          float64  `toml:"green"`
	Blue           float64  `toml:"blue"`
	DitherPalette  []string `toml:"dither_palette"`
	DisplayPalette []string `toml:"display_palette"`
}

type OutputConfig struct {
	Preview string `toml:"preview"` // png, bmp, tiff, gif or none
	Dir     string `toml:"dir"`     // empty: next to the photo
}

type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"` // 0 = default (500ms)
}

func (w WatchConfig) Debounce() time.Duration {
	if w.DebounceMS > 0 {
		return time.Duration(w.DebounceMS) * time.Millisecond
	}
	return 500 * time.Millisecond
}

type Config struct {
	Canvas   CanvasConfig   `toml:"canvas"`
	Defaults DefaultsConfig `toml:"defaults"`
	Output   OutputConfig   `toml:"output"`
	Watch    WatchConfig    `toml:"watch"`
}

func Default() *Config {
	p := adjust.Default()
	return &Config{
		Canvas: CanvasConfig{Width: 1200, Height: 1600},
		Defaults: DefaultsConfig{
			InvGamma:   p.InvGamma,
			Brightness: p.Brightness,
			Contrast:   p.Contrast,
			Red:        p.Red,
			Green:      p.Green,
			Blue:       p.Blue,
		},
		Output: OutputConfig{Preview: "png"},
	}
}

// Load reads the config at path, or DefaultFile when path is empty, on top
// of Default. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("invalid canvas %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.Width%2 != 0 || c.Canvas.Height%2 != 0 {
		return fmt.Errorf("canvas sides must be even, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	switch c.Output.Preview {
	case "png", "bmp", "tiff", "gif", "none":
	default:
		return fmt.Errorf("unsupported preview format %q", c.Output.Preview)
	}
	_, err := c.Settings()
	return err
}

// CanvasSize is the portrait panel size.
func (c *Config) CanvasSize() image.Point {
	return image.Point{X: c.Canvas.Width, Y: c.Canvas.Height}
}

// Settings returns the default settings described by the config.
func (c *Config) Settings() (settings.Settings, error) {
	s := settings.Default()
	d := c.Defaults
	s.Params = adjust.Params{
		InvGamma:   d.InvGamma,
		Brightness: d.Brightness,
		Contrast:   d.Contrast,
		Red:        d.Red,
		Green:      d.Green,
		Blue:       d.Blue,
	}

	var err error
	if len(d.DitherPalette) > 0 {
		if s.Dither, err = palette.ParseHexList(d.DitherPalette); err != nil {
			return s, fmt.Errorf("dither_palette: %w", err)
		}
	}
	if len(d.DisplayPalette) > 0 {
		if s.Display, err = palette.ParseHexList(d.DisplayPalette); err != nil {
			return s, fmt.Errorf("display_palette: %w", err)
		}
	}
	return s, nil
}
