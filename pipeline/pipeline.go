// Package pipeline chains the image stages: correction, fit, dithering and
// display remapping for the preview, then rotation and packing for the
// panel.
package pipeline

import (
	"image"
	"log/slog"

	"inkprep/adjust"
	"inkprep/dither"
	"inkprep/fit"
	"inkprep/orient"
	"inkprep/palette"
	"inkprep/raw"
	"inkprep/settings"
)

// Result holds the outputs shared by the preview and the panel file. Both
// have the canvas size of the orientation they were rendered for.
type Result struct {
	Preview     *image.RGBA
	Index       *palette.IndexBuffer
	Orientation orient.Orientation
}

// Render runs every stage from scratch. base is the panel size in portrait.
func Render(logger *slog.Logger, src image.Image, s settings.Settings, o orient.Orientation, base image.Point) *Result {
	canvas := o.Canvas(base)
	logger.Debug("rendering", "orientation", o, "width", canvas.X, "height", canvas.Y)

	img := adjust.Apply(src, s.Params)
	fitted := fit.Fit(logger, img, canvas)
	idx := dither.Quantize(logger, fitted, s.Dither)

	return &Result{
		Preview:     palette.Remap(idx, s.Display),
		Index:       idx,
		Orientation: o,
	}
}

// Panel returns the preview and indices rotated into the panel's native
// orientation.
func (r *Result) Panel() (image.Image, *palette.IndexBuffer) {
	return orient.Rotate(r.Preview, r.Index, r.Orientation)
}

// Pack returns the panel file contents.
func (r *Result) Pack() ([]byte, error) {
	_, idx := r.Panel()
	return raw.Marshal(idx)
}
