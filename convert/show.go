package convert

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"inkprep/config"
	"inkprep/palette"
	"inkprep/raw"
)

// ShowCmd renders an existing panel file with the display palette.
type ShowCmd struct {
	Raw      string `arg:"" help:"Panel file to render" type:"existingfile"`
	Width    int    `help:"Width of the panel file; defaults to the configured canvas"`
	Height   int    `help:"Height of the panel file; defaults to the configured canvas"`
	Settings string `help:"Settings document providing the display palette"`
	Out      string `help:"Image to write; the extension selects the format" default:""`
}

func (c *ShowCmd) Run(cfg *config.Config) error {
	w, h := c.Width, c.Height
	if w == 0 && h == 0 {
		w, h = cfg.Canvas.Width, cfg.Canvas.Height
	}

	s, err := LoadSettings(cfg, c.Settings)
	if err != nil {
		return err
	}

	in, err := os.Open(c.Raw)
	if err != nil {
		return fmt.Errorf("could not open panel file %q: %w", c.Raw, err)
	}
	defer in.Close()

	idx, err := raw.Decode(in, w, h)
	if err != nil {
		return fmt.Errorf("could not decode %q as %dx%d: %w", c.Raw, w, h, err)
	}

	out := c.Out
	if out == "" {
		out = PreviewName(c.Raw, "png")
		out = filepath.Join(filepath.Dir(c.Raw), out)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	if format == "tif" {
		format = "tiff"
	}

	if err := savePreview(palette.Remap(idx, s.Display), format, filepath.Dir(out), filepath.Base(out)); err != nil {
		return err
	}
	slog.Info("rendered", "from", c.Raw, "to", out, "width", w, "height", h)
	return nil
}
