/*
Package raw implements the packed-nibble image format read by the panel
driver.

The file has no header. Rows are stored top to bottom and every byte holds
two horizontally adjacent pixels, the left one in the high nibble. Each
nibble is the panel code of the pixel's palette slot (see palette.Code), so a
W by H picture takes exactly W*H/2 bytes and W must be even. The reader has
to know the dimensions beforehand.
*/
package raw

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"

	"inkprep/palette"
)

// Ext is the extension of packed files.
const Ext = ".raw"

var (
	// ErrOddWidth is returned for buffers whose width cannot be split in
	// pixel pairs.
	ErrOddWidth = errors.New("raw: width must be even")
	// ErrInvalidCode is returned when decoding a nibble no palette slot
	// maps to.
	ErrInvalidCode = errors.New("raw: invalid pixel code")
)

// Len returns the size in bytes of a packed w by h picture.
func Len(w, h int) int {
	return w * h / 2
}

// Path returns src with its extension replaced by Ext.
func Path(src string) string {
	return src[:len(src)-len(filepath.Ext(src))] + Ext
}

type encoder struct {
	w *bufio.Writer
}

func (e *encoder) encode(m *palette.IndexBuffer) error {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	for y := 0; y < h; y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+w]
		for x := 0; x < w; x += 2 {
			if err := e.w.WriteByte(palette.Code(row[x])<<4 | palette.Code(row[x+1])); err != nil {
				return err
			}
		}
	}
	return e.w.Flush()
}

// Encode writes m to w. Nothing is written if m's width is odd.
func Encode(w io.Writer, m *palette.IndexBuffer) error {
	if m.Rect.Dx()%2 != 0 {
		return fmt.Errorf("%w: %d", ErrOddWidth, m.Rect.Dx())
	}

	e := encoder{w: bufio.NewWriter(w)}

	return e.encode(m)
}

// Marshal returns the packed form of m.
func Marshal(m *palette.IndexBuffer) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, Len(m.Rect.Dx(), m.Rect.Dy())))
	if err := Encode(buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a packed w by h picture from r.
func Decode(r io.Reader, w, h int) (*palette.IndexBuffer, error) {
	if w%2 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrOddWidth, w)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raw: invalid size %dx%d", w, h)
	}

	buf := make([]byte, Len(w, h))
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	m := palette.NewIndexBuffer(image.Rect(0, 0, w, h))
	for i, b := range buf {
		hi, ok := palette.Index(b >> 4)
		if !ok {
			return nil, fmt.Errorf("%w %#x at byte %d", ErrInvalidCode, b>>4, i)
		}
		lo, ok := palette.Index(b & 0x0f)
		if !ok {
			return nil, fmt.Errorf("%w %#x at byte %d", ErrInvalidCode, b&0x0f, i)
		}
		m.Pix[i*2] = hi
		m.Pix[i*2+1] = lo
	}
	return m, nil
}
