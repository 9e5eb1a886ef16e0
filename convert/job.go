package convert

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"inkprep/orient"
	"inkprep/pipeline"
	"inkprep/raw"
	"inkprep/settings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// Auto picks the orientation of every photo from its dimensions.
const Auto = "auto"

// Job converts one photo into a panel file and, optionally, a preview.
type Job struct {
	Source      string
	DestDir     string // empty: next to Source
	Preview     string // preview format, "none" or empty to skip
	Orientation string // portrait, landscape or auto
	Canvas      image.Point
	Settings    settings.Settings
}

// Output returns the path of the panel file.
func (j Job) Output() string {
	return filepath.Join(j.destDir(), filepath.Base(raw.Path(j.Source)))
}

func (j Job) destDir() string {
	if j.DestDir == "" {
		return filepath.Dir(j.Source)
	}
	return j.DestDir
}

// Run decodes, renders and saves the photo.
func (j Job) Run(logger *slog.Logger) error {
	start := time.Now()

	imgFile, err := os.Open(j.Source)
	if err != nil {
		return fmt.Errorf("could not open image: %w", err)
	}
	img, imgType, err := image.Decode(imgFile)
	if closeErr := imgFile.Close(); closeErr != nil {
		logger.Error("could not close image", "error", closeErr)
	}
	if err != nil {
		return fmt.Errorf("could not decode image: %w", err)
	}

	o, err := j.orientation(img.Bounds())
	if err != nil {
		return err
	}

	logger.Info("converting", "type", imgType, "orientation", o)
	res := pipeline.Render(logger, img, j.Settings, o, j.Canvas)

	destDir := j.destDir()
	_, idx := res.Panel()
	if err = saveRaw(idx, destDir, j.Source); err != nil {
		return fmt.Errorf("could not save panel file: %w", err)
	}

	if j.Preview != "" && j.Preview != "none" {
		name := PreviewName(j.Source, j.Preview)
		if err = savePreview(res.Preview, j.Preview, destDir, name); err != nil {
			return fmt.Errorf("could not save preview: %w", err)
		}
	}

	logger.Info("converted", "output", j.Output(), "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func (j Job) orientation(b image.Rectangle) (orient.Orientation, error) {
	if j.Orientation == Auto {
		return orient.Detect(image.Config{Width: b.Dx(), Height: b.Dy()}), nil
	}
	return orient.Parse(j.Orientation)
}
