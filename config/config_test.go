package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"inkprep/palette"
	"inkprep/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, body string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(name, []byte(body), 0o644))
	return name
}

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, settings.Default(), s)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce())
}

func TestLoad(t *testing.T) {
	name := write(t, `
[canvas]
width = 800
height = 480

[defaults]
inv_gamma = 1.2
contrast = 120
dither_palette = ["#000", "#fff", "#ff0", "#f00", "#00f", "#0f0"]

[output]
preview = "bmp"
dir = "out"

[watch]
debounce_ms = 250
`)

	cfg, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.CanvasSize().X)
	assert.Equal(t, 480, cfg.CanvasSize().Y)
	assert.Equal(t, "bmp", cfg.Output.Preview)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce())

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, 1.2, s.InvGamma)
	assert.Equal(t, 120.0, s.Contrast)
	assert.Equal(t, 100.0, s.Red)
	assert.Equal(t, palette.Color(255, 255, 0), s.Dither[2])
	assert.Equal(t, palette.DefaultDisplay, s.Display)
}

func TestLoadInvalid(t *testing.T) {
	bodies := []string{
		"[canvas]\nwidth = 0\n",
		"[canvas]\nwidth = 1201\n",
		"[output]\npreview = \"jpeg\"\n",
		"[defaults]\ndisplay_palette = [\"#000\"]\n",
		"not toml",
	}

	for _, body := range bodies {
		_, err := Load(write(t, body))
		assert.Error(t, err, body)
	}
}
