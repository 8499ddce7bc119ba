// Package render is the command that replays gesture scripts and writes
// the resulting canvases.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"pixed/diff"
	"pixed/export"
	"pixed/parallel"
	"pixed/script"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Scripts []string `arg:"" help:"Gesture scripts (TOML) to render" type:"existingfile"`
	Dest    string   `help:"Destination folder for rendered pictures" default:"."`
	Format  string   `help:"Output format" enum:"png,gif,bmp,tiff" default:"png"`
	Flat    bool     `help:"Also write an RGBA PNG expanded through the palette" default:"false"`
	History bool     `help:"Also write the compressed undo history (.hist)" default:"false"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	dest, err := filepath.Abs(c.Dest)
	if err != nil {
		return fmt.Errorf("invalid destination path %q: %w", c.Dest, err)
	}
	c.Dest = dest

	if !slices.Contains(export.Formats, c.Format) {
		return fmt.Errorf("unsupported output format: %s", c.Format)
	}
	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	codec, err := diff.NewCodec()
	if err != nil {
		return err
	}
	defer codec.Close()

	var renderedCount, errCount atomic.Uint64
	for _, path := range c.Scripts {
		worker(func() {
			logger := slog.Default().With("script", path)
			if err := c.render(logger, codec, path); err != nil {
				errCount.Add(1)
				logger.Error("could not render script", "error", err)
				return
			}
			renderedCount.Add(1)
		})
	}

	wait(true)

	rendered := renderedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "rendered", rendered, "errors", errors,
		"total", rendered+errors)

	if errors > 0 {
		return fmt.Errorf("error rendering %d scripts", errors)
	}
	return nil
}

func (c *CLICmd) render(logger *slog.Logger, codec *diff.Codec, path string) error {
	sc, err := script.Load(path)
	if err != nil {
		return err
	}
	pal, err := sc.LoadPalette()
	if err != nil {
		return err
	}

	session := script.NewSession(logger, sc)
	if err := session.Run(sc.Ops); err != nil {
		return err
	}
	logger.Info("rendered", "width", sc.Width, "height", sc.Height,
		"edits", len(session.History()), "dirty", session.TakeDirty().Image())

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out, err := export.Save(export.Canvas(session.Canvas(), pal), c.Format, c.Dest, name)
	if err != nil {
		return err
	}
	logger.Info("saved", "file", out)

	if c.Flat {
		out, err := export.Save(export.Flat(session.Canvas(), pal), "png", c.Dest, name+".rgba")
		if err != nil {
			return err
		}
		logger.Info("saved", "file", out)
	}

	if c.History {
		if err := writeHistory(codec, session, filepath.Join(c.Dest, name+".hist")); err != nil {
			return err
		}
	}
	return nil
}

func writeHistory(codec *diff.Codec, session *script.Session, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create history file %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close history file %q: %w", path, closeErr)
		}
	}()

	if err := script.WriteHistory(f, codec, session.History()); err != nil {
		return fmt.Errorf("could not write history file %q: %w", path, err)
	}
	return nil
}
