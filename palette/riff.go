package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"

	"golang.org/x/image/riff"
)

/*
Palettes are exchanged as Microsoft RIFF PAL documents:

typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

const palVersion = 0x0300

// ErrNoPalette is returned when a RIFF document has no data chunk.
var ErrNoPalette = errors.New("no palette in RIFF document")

// ReadRIFF loads the first palette of a RIFF PAL document. It must hold
// exactly Size colors.
func ReadRIFF(r io.Reader) (Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return Palette{}, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return Palette{}, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	for {
		id, _, data, err := rd.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Palette{}, ErrNoPalette
			}
			return Palette{}, fmt.Errorf("could not read chunk: %w", err)
		}
		if id != dataType {
			continue
		}

		cols, err := readColors(data)
		if err != nil {
			return Palette{}, err
		}
		return FromColors(cols)
	}
}

func readColors(r io.Reader) ([]color.Color, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("could not read palette header: %w", err)
	}

	if ver := binary.LittleEndian.Uint16(hdr[0:2]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version: %#04x", ver)
	}

	count := binary.LittleEndian.Uint16(hdr[2:4])
	res := make([]color.Color, count)
	var entry [4]byte
	for i := range count {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return nil, fmt.Errorf("could not read color %d/%d: %w", i, count, err)
		}
		res[i] = color.RGBA{R: entry[0], G: entry[1], B: entry[2], A: 0xFF}
	}

	return res, nil
}

// WriteRIFF stores p as a single-chunk RIFF PAL document.
func WriteRIFF(w io.Writer, p Palette) (int64, error) {
	dataSize := 4 + Size*4 // palVersion + palNumEntries + 4 bytes/color

	buf := make([]byte, 0, 12+8+dataSize)
	buf = append(buf, riffType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(4+8+dataSize))
	buf = append(buf, palType[:]...)

	buf = append(buf, dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataSize))
	buf = binary.LittleEndian.AppendUint16(buf, palVersion)
	buf = binary.LittleEndian.AppendUint16(buf, Size)
	for _, c := range p {
		buf = append(buf, c.R, c.G, c.B, 0x00)
	}

	n, err := w.Write(buf)
	if err != nil {
		return int64(n), fmt.Errorf("could not save palette: %w", err)
	} else if n != len(buf) {
		return int64(n), fmt.Errorf("wrote only %d/%d bytes", n, len(buf))
	}
	return int64(n), nil
}
