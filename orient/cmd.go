// Package orient decides and applies the orientation of pictures on the
// panel, and sorts photo folders by orientation.
package orient

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type OpParams struct {
	Scan      string `help:"Source folder to scan" default:"."`
	Portrait  string `help:"Destination folder for portrait images" default:"portrait"`
	Landscape string `help:"Destination folder for landscape images" default:"landscape"`
}

// CLICmd sorts photos so each folder can be converted with a fixed
// orientation.
type CLICmd struct {
	Cp struct {
		OpParams
	} `cmd:"" help:"Copy images to their respective folders"`
	Mv struct {
		OpParams
	} `cmd:"" help:"Move images to their respective folders"`
}

func (c *CLICmd) params(op string) (*OpParams, func(string, string) error) {
	if op == "mv" {
		return &c.Mv.OpParams, moveFile
	}
	return &c.Cp.OpParams, copyFile
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	// kong validates every command of the grammar, not only the selected one.
	fields := strings.Fields(kctx.Command())
	if len(fields) < 2 || fields[0] != "orient" {
		return nil
	}
	conf, _ := c.params(fields[1])

	scanDir, err := filepath.Abs(conf.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", conf.Scan, err)
	}
	conf.Scan = scanDir

	if !filepath.IsAbs(conf.Portrait) {
		conf.Portrait = filepath.Join(scanDir, conf.Portrait)
	}

	if !filepath.IsAbs(conf.Landscape) {
		conf.Landscape = filepath.Join(scanDir, conf.Landscape)
	}

	return nil
}

func (c *CLICmd) Run(kctx *kong.Context) error {
	conf, fileOp := c.params(kctx.Selected().Name)

	for _, dir := range []string{conf.Portrait, conf.Landscape} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create destination folder %q: %w", dir, err)
		}
	}

	files, err := os.ReadDir(conf.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", conf.Scan, err)
	}

	var count [2]int
	var errCount int
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		name := filepath.Join(conf.Scan, file.Name())
		o, err := DetectFile(name)
		if err != nil {
			slog.Error("could not read image", "file", name, "error", err)
			continue
		}

		dest := filepath.Join(conf.Portrait, file.Name())
		if o == Landscape {
			dest = filepath.Join(conf.Landscape, file.Name())
		}
		count[o]++

		if err = fileOp(name, dest); err != nil {
			errCount++
			slog.Error("could not operate image", "from", name, "to", dest, "error", err)
		}
	}

	slog.Info("stats", "portraits", count[Portrait], "landscapes", count[Landscape], "errors", errCount,
		"total", count[Portrait]+count[Landscape])

	if errCount > 0 {
		return fmt.Errorf("error processing %d files", errCount)
	}
	return nil
}

// DetectFile reads only the header of the image at name to decide its
// orientation.
func DetectFile(name string) (Orientation, error) {
	f, err := os.Open(name)
	if err != nil {
		return Portrait, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close image", "file", name, "error", closeErr)
		}
	}()

	conf, _, err := image.DecodeConfig(f)
	if err != nil {
		return Portrait, err
	}
	return Detect(conf), nil
}
