package orient

import (
	"fmt"
	"image"

	"inkprep/palette"

	"github.com/disintegration/gift"
)

// Orientation selects how the picture sits on the panel.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// Parse reads "portrait" or "landscape".
func Parse(s string) (Orientation, error) {
	switch s {
	case "portrait":
		return Portrait, nil
	case "landscape":
		return Landscape, nil
	}
	return Portrait, fmt.Errorf("unknown orientation %q", s)
}

// Detect returns Landscape for pictures wider than tall.
func Detect(conf image.Config) Orientation {
	if conf.Width > conf.Height {
		return Landscape
	}
	return Portrait
}

// Canvas returns the canvas the picture is fitted to. base is the panel in
// portrait; landscape swaps its sides.
func (o Orientation) Canvas(base image.Point) image.Point {
	if o == Landscape {
		return image.Point{X: base.Y, Y: base.X}
	}
	return base
}

// Rotate turns a landscape picture and its indices a quarter turn
// counter-clockwise so they match the panel's native portrait scan order.
// Portrait inputs are returned as they are.
func Rotate(img image.Image, idx *palette.IndexBuffer, o Orientation) (image.Image, *palette.IndexBuffer) {
	if o != Landscape {
		return img, idx
	}
	return RotateImage(img), RotateIndex(idx)
}

// RotateImage returns img turned 90 degrees counter-clockwise.
func RotateImage(img image.Image) *image.RGBA {
	g := gift.New(gift.Rotate90())
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// RotateIndex turns idx 90 degrees counter-clockwise: the index at (x, y)
// of a W wide buffer moves to (y, W-1-x).
func RotateIndex(idx *palette.IndexBuffer) *palette.IndexBuffer {
	r := idx.Rect
	w, h := r.Dx(), r.Dy()
	out := palette.NewIndexBuffer(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		row := idx.Pix[y*idx.Stride : y*idx.Stride+w]
		for x, i := range row {
			out.Pix[(w-1-x)*out.Stride+y] = i
		}
	}
	return out
}
