package palette

import (
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
)

// Suggest derives a dither palette from the dominant colors of img using
// median cut. Images with fewer than Size distinct colors keep the
// remaining slots of base. Slots are not matched to panel colors; the
// result is a starting point for manual tuning.
func Suggest(img image.Image, base Palette) Palette {
	q := quantize.MedianCutQuantizer{}
	cols := q.Quantize(make(color.Palette, 0, Size), img)

	p := base
	for i, c := range cols {
		if i >= Size {
			break
		}
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		p[i] = color.RGBA{R: n.R, G: n.G, B: n.B, A: 0xFF}
	}
	return p
}
