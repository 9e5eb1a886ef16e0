// Package convert turns photos into panel files, in batches or one at a
// time.
package convert

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"inkprep/config"
	"inkprep/orient"
	"inkprep/parallel"
	"inkprep/raw"
	"inkprep/settings"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Paths       []string `arg:"" optional:"" help:"Photos or folders of photos to convert" default:"."`
	Settings    string   `help:"Settings document (18 lines) with the correction parameters and palettes"`
	Orientation string   `help:"Panel orientation" enum:"portrait,landscape,auto" default:"portrait"`
	Dest        string   `help:"Destination folder. Defaults to the configured output dir, else next to each photo."`
	Preview     string   `help:"Preview format, overriding the configured one" enum:",png,bmp,tiff,gif,none" default:""`

	files []string `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	// kong validates every command of the grammar, not only the selected one.
	if !strings.HasPrefix(kctx.Command(), "convert") {
		return nil
	}

	c.files = c.files[:0]
	for _, p := range c.Paths {
		files, err := expand(p)
		if err != nil {
			return err
		}
		c.files = append(c.files, files...)
	}
	if len(c.files) == 0 {
		return fmt.Errorf("no photos found in %s", strings.Join(c.Paths, ", "))
	}

	if c.Dest != "" {
		dest, err := filepath.Abs(c.Dest)
		if err != nil {
			return fmt.Errorf("invalid destination %q: %w", c.Dest, err)
		}
		c.Dest = dest
	}
	return nil
}

// expand returns p itself for a file, or the photos directly inside p for a
// folder. Panel files, previews, hidden files and anything that is not a
// decodable image are skipped.
func expand(p string) ([]string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", p, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", p, err)
	}
	if !info.IsDir() {
		return []string{abs}, nil
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("unable to read folder %q: %w", abs, err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || isOutput(name) {
			continue
		}
		file := filepath.Join(abs, name)
		if _, err := orient.DetectFile(file); err != nil {
			slog.Debug("skipping file", "file", file, "error", err)
			continue
		}
		files = append(files, file)
	}
	return files, nil
}

func isOutput(name string) bool {
	ext := filepath.Ext(name)
	return ext == raw.Ext || strings.HasSuffix(strings.TrimSuffix(name, ext), "_preview")
}

// LoadSettings returns the configured defaults, replaced by the settings
// document at name when given. A rejected document is an error; nothing of
// it is applied.
func LoadSettings(cfg *config.Config, name string) (settings.Settings, error) {
	s, err := cfg.Settings()
	if err != nil || name == "" {
		return s, err
	}

	loaded, err := settings.Load(name, s)
	if errors.Is(err, settings.ErrTooShort) {
		slog.Error("settings document rejected", "file", name, "error", err)
	}
	return loaded, err
}

func (c *CLICmd) jobs(cfg *config.Config) ([]Job, error) {
	s, err := LoadSettings(cfg, c.Settings)
	if err != nil {
		return nil, err
	}

	tmpl := Job{
		DestDir:     cmp.Or(c.Dest, cfg.Output.Dir),
		Preview:     cmp.Or(c.Preview, cfg.Output.Preview),
		Orientation: c.Orientation,
		Canvas:      cfg.CanvasSize(),
		Settings:    s,
	}

	jobs := make([]Job, 0, len(c.files))
	for _, f := range slices.Compact(slices.Sorted(slices.Values(c.files))) {
		j := tmpl
		j.Source = f
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func (c *CLICmd) Run(cfg *config.Config, worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	jobs, err := c.jobs(cfg)
	if err != nil {
		return err
	}

	if dir := jobs[0].DestDir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create destination folder %q: %w", dir, err)
		}
	}

	var processedCount, errCount atomic.Uint64
	for _, j := range jobs {
		worker(func() {
			logger := slog.Default().With("file", j.Source)
			if err := j.Run(logger); err != nil {
				errCount.Add(1)
				logger.Error("could not convert image", "error", err)
				return
			}
			processedCount.Add(1)
		})
	}

	wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}
