// Package convert is the command that turns ordinary images into indexed
// pictures, for use as canvases or brushes.
package convert

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"pixed/export"
	"pixed/palette"
	"pixed/parallel"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Scan     string  `help:"Source folder to scan" default:"."`
	Dest     string  `help:"Destination folder for indexed pictures. Relative to scan dir if not absolute." default:"indexed"`
	Palette  string  `help:"Palette name or RIFF PAL file" default:"default"`
	Dither   bool    `help:"Apply Floyd-Steinberg dithering instead of nearest colour matching" default:"false"`
	Width    int     `help:"Max width, 0 keeps the source width" default:"0"`
	Height   int     `help:"Max height, 0 keeps the source height" default:"0"`
	Gamma    float64 `help:"Gamma correction applied before quantizing" default:"1"`
	Contrast float64 `help:"Contrast change in [-1,1] applied before quantizing" default:"0"`
	Flip     string  `help:"Mirror the result" enum:"none,horizontal,vertical" default:"none"`
	Format   string  `help:"Output format" enum:"png,gif,bmp,tiff" default:"png"`

	pal color.Palette
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	switch {
	case c.Width < 0:
		return fmt.Errorf("invalid width: %d", c.Width)
	case c.Height < 0:
		return fmt.Errorf("invalid height: %d", c.Height)
	case c.Gamma <= 0:
		return fmt.Errorf("invalid gamma: %g", c.Gamma)
	case c.Contrast < -1 || c.Contrast > 1:
		return fmt.Errorf("invalid contrast: %g", c.Contrast)
	}

	if c.pal, err = palette.LoadPalette(c.Palette); err != nil {
		return err
	}
	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	var processedCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		worker(func() {
			filePath := filepath.Join(c.Scan, file.Name())
			logger := slog.Default().With("file", filePath)

			if err := c.convert(logger, filePath); err != nil {
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

func (c *CLICmd) convert(logger *slog.Logger, path string) error {
	img, _, err := export.Load(path)
	if err != nil {
		return err
	}

	if c.Width > 0 || c.Height > 0 {
		img = export.Resize(logger, img, c.Width, c.Height)
	}
	img = export.Adjust(logger, img, c.Gamma, c.Contrast)

	// row bands are already parallel across files, keep one worker per file
	pic := export.Quantize(logger, img, c.pal, c.Dither, 1)
	switch c.Flip {
	case "horizontal":
		pic = pic.FlipHorizontal()
	case "vertical":
		pic = pic.FlipVertical()
	}

	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	out, err := export.Save(export.Canvas(pic, c.pal), c.Format, c.Dest, name)
	if err != nil {
		return err
	}
	logger.Info("converted", "to", out, "width", pic.Width(), "height", pic.Height())
	return nil
}
