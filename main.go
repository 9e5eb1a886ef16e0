package main

import (
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"inkprep/config"
	"inkprep/convert"
	"inkprep/orient"
	"inkprep/parallel"
	"inkprep/settings"
	"inkprep/watch"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

type cli struct {
	Config   string `help:"Configuration file" default:"inkprep.toml" type:"path"`
	LogLevel string `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	Workers  int    `help:"Number of parallel conversions. Defaults to one per CPU." default:"0"`

	Convert convert.CLICmd      `cmd:"" help:"Convert photos to 6-color panel files"`
	Watch   watch.CLICmd        `cmd:"" help:"Convert a photo again each time it or its settings change"`
	Show    convert.ShowCmd     `cmd:"" help:"Render a panel file as it will look on the display"`
	Orient  orient.CLICmd       `cmd:"" help:"Sort photos into portrait and landscape folders"`
	Palette settings.PaletteCmd `cmd:"" help:"Suggest, export and import palettes"`
}

func logLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("inkprep"),
		kong.Description("Prepare photos for 6-color e-paper picture frames."),
		kong.UsageOnError(),
	)

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(c.LogLevel)})))

	cfg, err := config.Load(c.Config)
	kctx.FatalIfErrorf(err)

	pool := parallel.Start(c.Workers)
	slog.Debug("running", "command", kctx.Command(), "config", c.Config, "workers", pool.Workers())

	err = kctx.Run(cfg, settings.Defaults(cfg.Settings), parallel.WorkerFunc(pool.Do), parallel.WaitFunc(pool.Wait))
	pool.Wait(true)
	kctx.FatalIfErrorf(err)
}
