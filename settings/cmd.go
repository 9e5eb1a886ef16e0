package settings

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"inkprep/palette"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Target names one palette of a settings document.
type Target struct {
	Settings string `help:"Settings document" required:""`
	Which    string `help:"Palette of the settings document" enum:"dither,display" default:"dither"`
}

func (w *Target) pick(s *Settings) *palette.Palette {
	if w.Which == "display" {
		return &s.Display
	}
	return &s.Dither
}

// PaletteCmd moves palettes between settings documents, RIFF palette files
// and photos.
type PaletteCmd struct {
	Suggest struct {
		Photo    string `arg:"" help:"Photo to take the dominant colors from" type:"existingfile"`
		Settings string `help:"Settings document to store the palette in as dither palette; printed when empty"`
	} `cmd:"" help:"Suggest a dither palette from the dominant colors of a photo"`
	Export struct {
		Target
		Out string `arg:"" help:"RIFF palette file to write"`
	} `cmd:"" help:"Write a palette of a settings document as a RIFF .pal file"`
	Import struct {
		Target
		Pal string `arg:"" help:"RIFF palette file with 6 colors" type:"existingfile"`
	} `cmd:"" help:"Replace a palette of a settings document with a RIFF .pal file"`
}

// Defaults returns the settings new documents start from and that supply
// the fallback scalars of existing ones.
type Defaults func() (Settings, error)

func (c *PaletteCmd) Run(kctx *kong.Context, defaults Defaults) error {
	base, err := defaults()
	if err != nil {
		return err
	}

	switch subCmd := kctx.Selected().Name; subCmd {
	case "suggest":
		return c.suggest(kctx.Stdout, base)
	case "export":
		return c.export(base)
	case "import":
		return c.importPal(base)
	default:
		return fmt.Errorf("unsupported palette operation %q", subCmd)
	}
}

// loadOrBase reads name on top of base, or returns base when name does not
// exist yet.
func loadOrBase(name string, base Settings) (Settings, error) {
	s, err := Load(name, base)
	if errors.Is(err, fs.ErrNotExist) {
		return base, nil
	}
	return s, err
}

func (c *PaletteCmd) suggest(w io.Writer, base Settings) error {
	f, err := os.Open(c.Suggest.Photo)
	if err != nil {
		return fmt.Errorf("could not open image: %w", err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("could not decode image %q: %w", c.Suggest.Photo, err)
	}

	if c.Suggest.Settings == "" {
		p := palette.Suggest(img, base.Dither)
		for i := range palette.Size {
			if _, err := fmt.Fprintln(w, p.Entry(i)); err != nil {
				return err
			}
		}
		return nil
	}

	s, err := loadOrBase(c.Suggest.Settings, base)
	if err != nil {
		return err
	}
	s.Dither = palette.Suggest(img, s.Dither)
	if err := Save(c.Suggest.Settings, s); err != nil {
		return err
	}
	slog.Info("stored suggested palette", "file", c.Suggest.Settings)
	return nil
}

func (c *PaletteCmd) export(base Settings) (err error) {
	s, err := Load(c.Export.Settings, base)
	if err != nil {
		return err
	}

	f, err := os.Create(c.Export.Out)
	if err != nil {
		return fmt.Errorf("could not create palette file %q: %w", c.Export.Out, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close palette file %q: %w", c.Export.Out, closeErr)
		}
	}()

	if _, err = palette.WriteRIFF(f, *c.Export.pick(&s)); err != nil {
		return err
	}
	slog.Info("exported palette", "which", c.Export.Which, "to", c.Export.Out)
	return nil
}

func (c *PaletteCmd) importPal(base Settings) error {
	f, err := os.Open(c.Import.Pal)
	if err != nil {
		return fmt.Errorf("could not open palette file %q: %w", c.Import.Pal, err)
	}
	p, err := palette.ReadRIFF(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("could not load palette %q: %w", c.Import.Pal, err)
	}

	s, err := loadOrBase(c.Import.Settings, base)
	if err != nil {
		return err
	}
	*c.Import.pick(&s) = p
	if err := Save(c.Import.Settings, s); err != nil {
		return err
	}
	slog.Info("imported palette", "which", c.Import.Which, "from", c.Import.Pal, "into", c.Import.Settings)
	return nil
}
