// Package adjust implements the photographic corrections applied before
// fitting: inverse gamma, brightness/contrast and per-channel scale.
//
// The math is a simple approximation on 8-bit sRGB values; no color
// management is involved.
package adjust

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Params are the correction parameters of one pipeline run.
type Params struct {
	InvGamma   float64 // inverse gamma; <= 0 means 1.0
	Brightness float64 // additive offset on the [0,255] scale
	Contrast   float64 // percent, 100 = unchanged
	Red        float64 // percent
	Green      float64 // percent
	Blue       float64 // percent
}

// Default leaves the image unchanged.
func Default() Params {
	return Params{
		InvGamma: 1.0,
		Contrast: 100,
		Red:      100,
		Green:    100,
		Blue:     100,
	}
}

// Scalars returns the parameters in settings order.
func (p Params) Scalars() [6]float64 {
	return [6]float64{p.InvGamma, p.Brightness, p.Contrast, p.Red, p.Green, p.Blue}
}

// FromScalars is the inverse of Scalars.
func FromScalars(s [6]float64) Params {
	return Params{
		InvGamma:   s[0],
		Brightness: s[1],
		Contrast:   s[2],
		Red:        s[3],
		Green:      s[4],
		Blue:       s[5],
	}
}

// Gamma applies the inverse gamma to one channel value.
func Gamma(v uint8, invGamma float64) uint8 {
	if invGamma <= 0 {
		invGamma = 1.0
	}
	return clamp(math.Round(math.Pow(float64(v)/255, 1/invGamma) * 255))
}

// BrightnessContrast scales v around mid-gray by contrast percent and adds
// brightness.
func BrightnessContrast(v uint8, brightness, contrast float64) uint8 {
	return clamp(math.Trunc((float64(v)-128)*(contrast/100) + 128 + brightness))
}

// Scale multiplies v by pct percent.
func Scale(v uint8, pct float64) uint8 {
	return clamp(math.Trunc(float64(v) * pct / 100))
}

type lut [256]uint8

func (p Params) tables() (r, g, b lut) {
	for i := range 256 {
		v := BrightnessContrast(Gamma(uint8(i), p.InvGamma), p.Brightness, p.Contrast)
		r[i] = Scale(v, p.Red)
		g[i] = Scale(v, p.Green)
		b[i] = Scale(v, p.Blue)
	}
	return r, g, b
}

// Apply returns a corrected, opaque copy of img with its origin at (0, 0).
// Transparency is discarded; the color channels are used as they are.
func Apply(img image.Image, p Params) *image.RGBA {
	src := toNRGBA(img)
	r, g, b := p.tables()

	bounds := src.Bounds()
	out := image.NewRGBA(bounds)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i+0] = r[src.Pix[i+0]]
		out.Pix[i+1] = g[src.Pix[i+1]]
		out.Pix[i+2] = b[src.Pix[i+2]]
		out.Pix[i+3] = 0xFF
	}
	return out
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if m, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && m.Stride == 4*b.Dx() {
		return m
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func clamp(v float64) uint8 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
