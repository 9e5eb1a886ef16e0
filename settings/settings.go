// Package settings reads and writes the plain-text settings document that
// stores a complete set of pipeline parameters.
//
// The document has exactly 18 lines: the six correction scalars (inverse
// gamma, brightness, contrast, red, green and blue percent) as decimal
// numbers, then the six dither palette entries and the six display palette
// entries as "R G B".
package settings

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"inkprep/adjust"
	"inkprep/palette"
)

// Lines is the number of lines of a settings document.
const Lines = 6 + 2*palette.Size

// ErrTooShort is returned for documents with fewer than Lines lines. Such
// documents are not applied at all.
var ErrTooShort = errors.New("settings: document too short")

// Settings is everything a pipeline run needs besides the photo and the
// orientation.
type Settings struct {
	adjust.Params
	Dither  palette.Palette
	Display palette.Palette
}

func Default() Settings {
	return Settings{
		Params:  adjust.Default(),
		Dither:  palette.DefaultDither,
		Display: palette.DefaultDisplay,
	}
}

// Write stores s as a settings document. Lines are separated by "\n" with no
// trailing newline.
func Write(w io.Writer, s Settings) error {
	lines := make([]string, 0, Lines)
	for _, v := range s.Scalars() {
		lines = append(lines, strconv.FormatFloat(v, 'f', -1, 64))
	}
	for i := range palette.Size {
		lines = append(lines, s.Dither.Entry(i))
	}
	for i := range palette.Size {
		lines = append(lines, s.Display.Entry(i))
	}

	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("could not write settings: %w", err)
	}
	return nil
}

// Read parses a settings document. Scalars that are not numbers keep their
// value from prev; palette components that are not numbers read as 0 and
// all components are clamped to [0,255]. Lines past the 18th are ignored.
func Read(r io.Reader, prev Settings) (Settings, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return prev, fmt.Errorf("could not read settings: %w", err)
	}
	if len(lines) < Lines {
		return prev, fmt.Errorf("%w: %d of %d lines", ErrTooShort, len(lines), Lines)
	}

	s := prev
	scalars := prev.Scalars()
	for i := range scalars {
		if v, err := strconv.ParseFloat(strings.TrimSpace(lines[i]), 64); err == nil {
			scalars[i] = v
		}
	}
	s.Params = adjust.FromScalars(scalars)

	for i := range palette.Size {
		s.Dither[i] = palette.ParseEntry(lines[6+i])
		s.Display[i] = palette.ParseEntry(lines[6+palette.Size+i])
	}
	return s, nil
}

// Load reads the settings document at name. prev supplies the fallback
// scalars and is returned unchanged on error.
func Load(name string, prev Settings) (Settings, error) {
	f, err := os.Open(name)
	if err != nil {
		return prev, fmt.Errorf("could not open settings %q: %w", name, err)
	}
	defer f.Close()

	s, err := Read(f, prev)
	if err != nil {
		return prev, fmt.Errorf("%q: %w", name, err)
	}
	return s, nil
}

// Save writes s to name, replacing any existing file.
func Save(name string, s Settings) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("could not create settings %q: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close settings %q: %w", name, closeErr)
		}
	}()

	return Write(f, s)
}
