package convert

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkprep/config"
	"inkprep/palette"
	"inkprep/raw"
	"inkprep/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

func writePhoto(t *testing.T, name string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	f, err := os.Create(name)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Canvas = config.CanvasConfig{Width: 6, Height: 4}
	return cfg
}

func TestPreviewName(t *testing.T) {
	assert.Equal(t, "beach_preview.png", PreviewName("/photos/beach.jpg", "png"))
	assert.Equal(t, "beach_preview.bmp", PreviewName("beach", "bmp"))
}

func TestIsOutput(t *testing.T) {
	assert.True(t, isOutput("a.raw"))
	assert.True(t, isOutput("a_preview.png"))
	assert.False(t, isOutput("a.png"))
	assert.False(t, isOutput("preview.png"))
}

func TestJobRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "white.png")
	writePhoto(t, src, 6, 4, color.White)

	j := Job{
		Source:      src,
		Preview:     "png",
		Orientation: "portrait",
		Canvas:      image.Pt(6, 4),
		Settings:    settings.Default(),
	}
	require.NoError(t, j.Run(slog.Default()))

	b, err := os.ReadFile(filepath.Join(dir, "white.raw"))
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0x11}, 12), b)
	assert.Equal(t, filepath.Join(dir, "white.raw"), j.Output())

	f, err := os.Open(filepath.Join(dir, "white_preview.png"))
	require.NoError(t, err)
	defer f.Close()
	preview, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), preview.Bounds())
	r, g, b2, _ := preview.At(0, 0).RGBA()
	want := palette.DefaultDisplay[1]
	assert.Equal(t, []uint32{uint32(want.R), uint32(want.G), uint32(want.B)}, []uint32{r >> 8, g >> 8, b2 >> 8})
}

func TestJobRunAutoLandscape(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(out, 0o755))
	src := filepath.Join(dir, "wide.png")
	writePhoto(t, src, 40, 10, color.RGBA{20, 20, 200, 0xFF})

	j := Job{
		Source:      src,
		DestDir:     out,
		Preview:     "none",
		Orientation: Auto,
		Canvas:      image.Pt(6, 8),
		Settings:    settings.Default(),
	}
	require.NoError(t, j.Run(slog.Default()))

	b, err := os.ReadFile(filepath.Join(out, "wide.raw"))
	require.NoError(t, err)
	assert.Len(t, b, raw.Len(6, 8))
	assert.NoFileExists(t, filepath.Join(out, "wide_preview.png"))

	// letterbox rows are black: index 0, code 0.
	idx, err := raw.Decode(bytes.NewReader(b), 6, 8)
	require.NoError(t, err)
	assert.Contains(t, idx.Pix, uint8(0))
}

func TestJobRunErrors(t *testing.T) {
	dir := t.TempDir()
	j := Job{Source: filepath.Join(dir, "missing.png"), Orientation: "portrait", Canvas: image.Pt(2, 2)}
	assert.Error(t, j.Run(slog.Default()))

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	j.Source = bad
	assert.Error(t, j.Run(slog.Default()))

	odd := filepath.Join(dir, "odd.png")
	writePhoto(t, odd, 3, 3, color.White)
	j.Source = odd
	j.Canvas = image.Pt(3, 3)
	err := j.Run(slog.Default())
	assert.ErrorIs(t, err, raw.ErrOddWidth)
	assert.NoFileExists(t, filepath.Join(dir, "odd.raw"))
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "a_preview.png", ".hidden.png"} {
		writePhoto(t, filepath.Join(dir, name), 2, 2, color.White)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.raw"), []byte{0x11, 0x11}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a photo"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	files, err := expand(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")}, files)

	files, err = expand(filepath.Join(dir, "a.raw"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = expand(filepath.Join(dir, "nope"))
	assert.Error(t, err)
}

func TestLoadSettings(t *testing.T) {
	cfg := config.Default()

	s, err := LoadSettings(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, settings.Default(), s)

	short := filepath.Join(t.TempDir(), "short.txt")
	require.NoError(t, os.WriteFile(short, []byte(strings.Repeat("1\n", 10)), 0o644))
	_, err = LoadSettings(cfg, short)
	assert.ErrorIs(t, err, settings.ErrTooShort)
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	writePhoto(t, filepath.Join(dir, "one.png"), 12, 8, color.White)
	writePhoto(t, filepath.Join(dir, "two.png"), 8, 12, color.Black)
	// the config and a settings document usually live next to the photos.
	doc := filepath.Join(dir, "frame.txt")
	require.NoError(t, settings.Save(doc, settings.Default()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("[canvas]\nwidth = 6\nheight = 4\n"), 0o644))

	c := &CLICmd{Orientation: "portrait", Preview: "bmp", Settings: doc}
	files, err := expand(dir)
	require.NoError(t, err)
	c.files = append(files, files[0])

	jobs, err := c.jobs(smallConfig())
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	var ran int
	worker := func(f func()) { ran++; f() }
	require.NoError(t, c.Run(smallConfig(), worker, func(bool) {}))
	assert.Equal(t, 2, ran)

	assert.FileExists(t, filepath.Join(dir, "one.raw"))
	assert.FileExists(t, filepath.Join(dir, "two.raw"))
	assert.FileExists(t, filepath.Join(dir, "one_preview.bmp"))
}

func TestShow(t *testing.T) {
	dir := t.TempDir()
	idx := palette.NewIndexBuffer(image.Rect(0, 0, 6, 4))
	for i := range idx.Pix {
		idx.Pix[i] = uint8(i % palette.Size)
	}
	b, err := raw.Marshal(idx)
	require.NoError(t, err)
	name := filepath.Join(dir, "panel.raw")
	require.NoError(t, os.WriteFile(name, b, 0o644))

	c := &ShowCmd{Raw: name}
	require.NoError(t, c.Run(smallConfig()))

	f, err := os.Open(filepath.Join(dir, "panel_preview.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())

	c = &ShowCmd{Raw: name, Width: 8, Height: 4}
	assert.ErrorIs(t, c.Run(smallConfig()), io.ErrUnexpectedEOF)
}

func TestWriteFileCleansUp(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")

	err := writeFile(dir, "x.raw", func(w io.Writer) error {
		_, _ = w.Write([]byte{1, 2, 3})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
