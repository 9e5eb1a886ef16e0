// Package watch re-renders a photo every time it or its settings document
// changes, so parameters can be tuned in an editor while looking at the
// preview.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"inkprep/config"
	"inkprep/convert"

	"github.com/fsnotify/fsnotify"
)

type CLICmd struct {
	Photo       string `arg:"" help:"Photo to convert" type:"existingfile"`
	Settings    string `help:"Settings document to watch along with the photo"`
	Orientation string `help:"Panel orientation" enum:"portrait,landscape,auto" default:"portrait"`
	Dest        string `help:"Destination folder. Defaults to the configured output dir, else next to the photo."`
	Preview     string `help:"Preview format, overriding the configured one" enum:",png,bmp,tiff,gif" default:""`
}

func (c *CLICmd) Run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return Watch(ctx, cfg, c.job, c.paths())
}

func (c *CLICmd) paths() []string {
	paths := []string{c.Photo}
	if c.Settings != "" {
		paths = append(paths, c.Settings)
	}
	return paths
}

// job builds the conversion from the current state of the files, so every
// run picks up the latest settings.
func (c *CLICmd) job(cfg *config.Config) (convert.Job, error) {
	s, err := convert.LoadSettings(cfg, c.Settings)
	if err != nil {
		return convert.Job{}, err
	}

	preview := c.Preview
	if preview == "" {
		preview = cfg.Output.Preview
	}
	if preview == "none" {
		preview = "png"
	}
	dest := c.Dest
	if dest == "" {
		dest = cfg.Output.Dir
	}

	return convert.Job{
		Source:      c.Photo,
		DestDir:     dest,
		Preview:     preview,
		Orientation: c.Orientation,
		Canvas:      cfg.CanvasSize(),
		Settings:    s,
	}, nil
}

// JobFunc builds the conversion to run after a change.
type JobFunc func(*config.Config) (convert.Job, error)

// Watch converts once, then again after every debounced change of one of
// paths, until ctx is done. Conversions never overlap, and Watch returns only
// after the running one has finished.
func Watch(ctx context.Context, cfg *config.Config, mkJob JobFunc, paths []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	// Editors replace files on save, so the folders are watched rather than
	// the files themselves.
	watched := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("invalid path %q: %w", p, err)
		}
		watched[abs] = true
		if err := w.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
		}
		slog.Info("watching", "file", abs)
	}

	var (
		mu     sync.Mutex
		closed bool
	)
	run := func() {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		convertOnce(cfg, mkJob)
	}

	db := newDebouncer(cfg.Watch.Debounce(), run)

	run()
	eventLoop(ctx, w, db, watched)

	slog.Info("shutting down")
	db.stop()
	// wait for a conversion in progress; later ones are dropped.
	mu.Lock()
	closed = true
	mu.Unlock()
	return nil
}

func convertOnce(cfg *config.Config, mkJob JobFunc) {
	j, err := mkJob(cfg)
	if err != nil {
		slog.Error("could not prepare conversion", "error", err)
		return
	}
	logger := slog.Default().With("file", j.Source)
	if err := j.Run(logger); err != nil {
		logger.Error("could not convert image", "error", err)
	}
}

func eventLoop(ctx context.Context, w *fsnotify.Watcher, db *debouncer, watched map[string]bool) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !watched[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				db.trigger()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

// debouncer coalesces bursts of events into a single call.
type debouncer struct {
	mu     sync.Mutex
	timer  *time.Timer
	delay  time.Duration
	onFire func()
}

func newDebouncer(delay time.Duration, onFire func()) *debouncer {
	return &debouncer{delay: delay, onFire: onFire}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Reset(d.delay)
		return
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		d.timer = nil
		d.mu.Unlock()
		d.onFire()
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
