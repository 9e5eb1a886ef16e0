// Package dither maps a continuous-tone image onto a 6-color palette with
// Floyd-Steinberg error diffusion.
//
// The palette used here is the one the picture should look like, not
// necessarily the one the panel shows; the resulting indices are rendered
// with the display palette afterwards.
package dither

import (
	"image"
	"log/slog"

	"inkprep/palette"

	"golang.org/x/image/draw"
)

// Quantize diffuses img onto pal in raster order and returns the chosen
// palette slot of every pixel. The result has the size of img with its
// origin at (0, 0).
// Every pixel depends on the error left by the ones before it, so this runs
// as a single pass.
func Quantize(logger *slog.Logger, img image.Image, pal palette.Palette) *palette.IndexBuffer {
	sr := img.Bounds()
	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	dest := image.NewPaletted(dr, pal.Colors())

	logger.Debug("dithering", "width", dr.Dx(), "height", dr.Dy(), "colors", palette.Size)
	draw.FloydSteinberg.Draw(dest, dr, img, sr.Min)

	return palette.FromPaletted(dest)
}
