package fit

import (
	"image"
	"image/color"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestFitDimensions(t *testing.T) {
	canvases := []image.Point{{12, 16}, {16, 12}, {6, 4}}
	sources := []image.Point{{1, 1}, {3, 50}, {50, 3}, {12, 16}, {100, 100}, {7, 9}}

	for _, canvas := range canvases {
		for _, src := range sources {
			out := Fit(slog.Default(), solid(src.X, src.Y, color.White), canvas)
			assert.Equal(t, image.Rectangle{Max: canvas}, out.Bounds(), "src %v canvas %v", src, canvas)
		}
	}
}

func TestSize(t *testing.T) {
	tables := []struct {
		src, canvas, want image.Point
		scale             float64
	}{
		{image.Pt(2400, 3200), image.Pt(1200, 1600), image.Pt(1200, 1600), 0.5},
		{image.Pt(4000, 3000), image.Pt(1200, 1600), image.Pt(1200, 900), 0.3},
		{image.Pt(300, 400), image.Pt(1200, 1600), image.Pt(1200, 1600), 4},
		{image.Pt(1200, 1600), image.Pt(1200, 1600), image.Pt(1200, 1600), 1},
	}

	for _, table := range tables {
		size, scale := Size(table.src, table.canvas)
		assert.Equal(t, table.want, size)
		assert.InDelta(t, table.scale, scale, 1e-9)
	}
}

func TestFitLetterbox(t *testing.T) {
	red := color.RGBA{0xFF, 0, 0, 0xFF}
	out := Fit(slog.Default(), solid(20, 10, red), image.Pt(20, 30))

	// 20x10 at scale 1 sits at rows 10..19.
	black := color.RGBA{0, 0, 0, 0xFF}
	assert.Equal(t, black, out.RGBAAt(0, 0))
	assert.Equal(t, black, out.RGBAAt(19, 9))
	assert.Equal(t, red, out.RGBAAt(0, 10))
	assert.Equal(t, red, out.RGBAAt(19, 19))
	assert.Equal(t, black, out.RGBAAt(10, 20))
	assert.Equal(t, black, out.RGBAAt(10, 29))
}

func TestFitPillarbox(t *testing.T) {
	out := Fit(slog.Default(), solid(8, 16, color.White), image.Pt(12, 8))

	// scaled to 4x8 and centered at x=4.
	require.Equal(t, image.Rect(0, 0, 12, 8), out.Bounds())
	assert.Equal(t, color.RGBA{0, 0, 0, 0xFF}, out.RGBAAt(3, 4))
	assert.Equal(t, color.RGBA{0, 0, 0, 0xFF}, out.RGBAAt(8, 4))
	c := out.RGBAAt(5, 4)
	assert.GreaterOrEqual(t, c.R, uint8(250))
	assert.GreaterOrEqual(t, c.B, uint8(250))
}

func TestFitSameSizeCopies(t *testing.T) {
	src := solid(6, 4, color.White)
	src.SetRGBA(2, 1, color.RGBA{1, 2, 3, 0xFF})

	out := Fit(slog.Default(), src, image.Pt(6, 4))
	assert.Equal(t, src.Pix, out.Pix)
}

func TestFitOddBorder(t *testing.T) {
	white := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	out := Fit(slog.Default(), solid(20, 9, white), image.Pt(20, 30))

	// 21 spare rows: 10 above, 11 below.
	black := color.RGBA{0, 0, 0, 0xFF}
	assert.Equal(t, black, out.RGBAAt(5, 9))
	assert.Equal(t, white, out.RGBAAt(5, 10))
	assert.Equal(t, white, out.RGBAAt(5, 18))
	assert.Equal(t, black, out.RGBAAt(5, 19))
}
