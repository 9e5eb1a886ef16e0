// Package fit scales a photo onto the panel canvas without cropping.
package fit

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// Size returns the dimensions img takes on a canvas of the given size and the
// scale factor used. The aspect ratio is preserved; small images are enlarged.
func Size(src, canvas image.Point) (image.Point, float64) {
	scale := min(float64(canvas.X)/float64(src.X), float64(canvas.Y)/float64(src.Y))
	return image.Point{
		X: max(1, int(float64(src.X)*scale)),
		Y: max(1, int(float64(src.Y)*scale)),
	}, scale
}

// Fit resizes img with a Lanczos filter to fit inside canvas and centers it on
// a black background of exactly that size.
func Fit(logger *slog.Logger, img image.Image, canvas image.Point) *image.RGBA {
	dest := image.NewRGBA(image.Rectangle{Max: canvas})
	draw.Draw(dest, dest.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	sb := img.Bounds()
	if sb.Empty() {
		return dest
	}

	size, scale := Size(sb.Size(), canvas)
	if scale != 1 {
		g := gift.New(gift.Resize(size.X, size.Y, gift.LanczosResampling))
		resized := image.NewRGBA(g.Bounds(sb))
		g.Draw(resized, img)
		img, sb = resized, resized.Bounds()
	}

	offset := image.Point{X: (canvas.X - size.X) / 2, Y: (canvas.Y - size.Y) / 2}
	logger.Debug("fitting", "width", size.X, "height", size.Y, "scale", scale, "offset", offset)

	draw.Draw(dest, image.Rectangle{Min: offset, Max: offset.Add(sb.Size())}, img, sb.Min, draw.Src)
	return dest
}
