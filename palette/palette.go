// Package palette holds the 6-color palettes of the display, the per-pixel
// index buffer produced by quantization and the lookup from indices to
// display colors.
package palette

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Size is the number of colors the panel can show.
const Size = 6

// Palette is an ordered set of exactly Size opaque colors. The position of a
// color is its index.
type Palette [Size]color.RGBA

var (
	// DefaultDither is the set of saturated colors dithering aims at.
	DefaultDither = Palette{
		{R: 30, G: 30, B: 30, A: 0xFF},
		{R: 195, G: 255, B: 255, A: 0xFF},
		{R: 255, G: 255, B: 0, A: 0xFF},
		{R: 255, G: 70, B: 70, A: 0xFF},
		{R: 50, G: 50, B: 255, A: 0xFF},
		{R: 80, G: 140, B: 80, A: 0xFF},
	}

	// DefaultDisplay approximates what the panel actually renders for each
	// slot: black, white, yellow, red, blue and green.
	DefaultDisplay = Palette{
		{R: 0, G: 0, B: 0, A: 0xFF},
		{R: 140, G: 140, B: 110, A: 0xFF},
		{R: 140, G: 120, B: 0, A: 0xFF},
		{R: 100, G: 15, B: 15, A: 0xFF},
		{R: 40, G: 40, B: 100, A: 0xFF},
		{R: 40, G: 63, B: 41, A: 0xFF},
	}
)

// Names are the display colors of the slots, in index order.
var Names = [Size]string{"black", "white", "yellow", "red", "blue", "green"}

// Color returns an opaque color with every component clamped to [0,255].
func Color(r, g, b int) color.RGBA {
	return color.RGBA{R: clampByte(r), G: clampByte(g), B: clampByte(b), A: 0xFF}
}

// FromColors builds a palette from exactly Size colors.
func FromColors(cols []color.Color) (Palette, error) {
	var p Palette
	if len(cols) != Size {
		return p, fmt.Errorf("palette must have %d colors, got %d", Size, len(cols))
	}
	for i, c := range cols {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		p[i] = color.RGBA{R: n.R, G: n.G, B: n.B, A: 0xFF}
	}
	return p, nil
}

// Colors returns p as a color.Palette, suitable for image.Paletted.
func (p Palette) Colors() color.Palette {
	pal := make(color.Palette, Size)
	for i, c := range p {
		pal[i] = c
	}
	return pal
}

// Entry formats slot i the way the settings document stores it: "R G B".
func (p Palette) Entry(i int) string {
	c := p[i]
	return fmt.Sprintf("%d %d %d", c.R, c.G, c.B)
}

// ParseEntry reads an "R G B" line. Missing or unparseable components read
// as 0; fractional values are truncated and everything is clamped to [0,255].
func ParseEntry(s string) color.RGBA {
	var comp [3]int
	for i, f := range strings.Fields(s) {
		if i >= len(comp) {
			break
		}
		comp[i] = ParseComponent(f)
	}
	return Color(comp[0], comp[1], comp[2])
}

// ParseComponent reads a single color component, returning 0 when it is not
// a number.
func ParseComponent(s string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	v = math.Trunc(v)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return int(v)
}

// ParseHex reads a #RGB or #RRGGBB color.
func ParseHex(s string) (color.RGBA, error) {
	c := color.RGBA{A: 0xFF}
	switch len(s) {
	case 4:
		n, err := fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		if err != nil {
			return c, fmt.Errorf("could not read color %q: %w", s, err)
		} else if n < 3 {
			return c, fmt.Errorf("insufficient color fields in %q: %d", s, n)
		}

		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
	case 7:
		n, err := fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
		if err != nil {
			return c, fmt.Errorf("could not read color %q: %w", s, err)
		} else if n < 3 {
			return c, fmt.Errorf("insufficient color fields in %q: %d", s, n)
		}
	default:
		return c, fmt.Errorf("invalid color %q, should be #RGB or #RRGGBB", s)
	}

	return c, nil
}

// ParseHexList reads a full palette of hex colors.
func ParseHexList(list []string) (Palette, error) {
	var p Palette
	if len(list) != Size {
		return p, fmt.Errorf("palette must have %d colors, got %d", Size, len(list))
	}
	for i, s := range list {
		c, err := ParseHex(s)
		if err != nil {
			return p, fmt.Errorf("color %d: %w", i, err)
		}
		p[i] = c
	}
	return p, nil
}

// Remap renders idx with the colors of pal. Indices outside the palette
// render as slot 0.
func Remap(idx *IndexBuffer, pal Palette) *image.RGBA {
	r := idx.Rect
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		src := idx.Pix[y*idx.Stride : y*idx.Stride+r.Dx()]
		dst := out.Pix[y*out.Stride : y*out.Stride+r.Dx()*4]
		for x, i := range src {
			if int(i) >= Size {
				i = 0
			}
			c := pal[i]
			dst[x*4+0] = c.R
			dst[x*4+1] = c.G
			dst[x*4+2] = c.B
			dst[x*4+3] = 0xFF
		}
	}
	return out
}

func clampByte(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
