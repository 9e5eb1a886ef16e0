package palette

import "image"

// IndexBuffer is a grid of palette slot numbers, one per pixel.
type IndexBuffer struct {
	// Pix holds the palette index of every pixel. The pixel at (x, y) is
	// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)].
	Pix []uint8
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	// Rect is the buffer's bounds.
	Rect image.Rectangle
}

// NewIndexBuffer returns a zeroed buffer with the given bounds.
func NewIndexBuffer(r image.Rectangle) *IndexBuffer {
	return &IndexBuffer{
		Pix:    make([]uint8, r.Dx()*r.Dy()),
		Stride: r.Dx(),
		Rect:   r,
	}
}

// FromPaletted shares the pixel storage of m.
func FromPaletted(m *image.Paletted) *IndexBuffer {
	return &IndexBuffer{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect}
}

// Bounds returns the domain of b.
func (b *IndexBuffer) Bounds() image.Rectangle { return b.Rect }

// PixOffset returns the index of the element of Pix for the pixel at (x, y).
func (b *IndexBuffer) PixOffset(x, y int) int {
	return (y-b.Rect.Min.Y)*b.Stride + (x - b.Rect.Min.X)
}

// At returns the index at (x, y), or 0 outside the bounds.
func (b *IndexBuffer) At(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}.In(b.Rect)) {
		return 0
	}
	return b.Pix[b.PixOffset(x, y)]
}

// Set stores i at (x, y). Points outside the bounds are ignored.
func (b *IndexBuffer) Set(x, y int, i uint8) {
	if !(image.Point{X: x, Y: y}.In(b.Rect)) {
		return
	}
	b.Pix[b.PixOffset(x, y)] = i
}
