// Package swatch is the command that writes palettes as RIFF PAL files and
// reports colours that look alike.
package swatch

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"pixed/palette"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Palette string `arg:"" help:"Palette name or RIFF PAL file" default:"default"`
	Out     string `help:"Destination RIFF PAL file, nothing is written when empty" type:"path"`
	Similar []int  `help:"Indices to list the closest colours for"`
	Count   int    `help:"How many close colours to list per index" default:"4"`
	Ramp    []int  `help:"Rewrite the entries between two indices as a ramp"`
	Hue     bool   `help:"Interpolate ramps around the hue circle (OKLCh)" default:"false"`
	Sort    bool   `help:"Reorder the palette by hue before writing it" default:"false"`

	pal color.Palette
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	pal, err := palette.LoadPalette(c.Palette)
	if err != nil {
		return err
	}
	c.pal = pal

	if c.Count < 1 {
		return fmt.Errorf("invalid count: %d", c.Count)
	}
	for _, i := range c.Similar {
		if i < 0 || i >= len(c.pal) {
			return fmt.Errorf("index out of range: %d", i)
		}
	}
	switch {
	case c.Ramp == nil:
	case len(c.Ramp) != 2:
		return fmt.Errorf("ramp needs 2 indices, got %d", len(c.Ramp))
	case c.Ramp[0] < 0 || c.Ramp[1] >= len(c.pal) || c.Ramp[1]-c.Ramp[0] < 2:
		return fmt.Errorf("invalid ramp: %d..%d", c.Ramp[0], c.Ramp[1])
	}
	return nil
}

func (c *CLICmd) Run() error {
	logger := slog.Default().With("palette", c.Palette)

	if c.Ramp != nil {
		from, to := c.Ramp[0], c.Ramp[1]
		spread := palette.Spread
		if c.Hue {
			spread = palette.SpreadHue
		}
		copy(c.pal[from+1:to], spread(c.pal, from, to))
		logger.Info("ramp", "from", from, "to", to, "hue", c.Hue)
	}

	lab := palette.NewLab(c.pal)
	for _, i := range c.Similar {
		logger.Info("similar", "index", i, "color", hex(c.pal[i]), "closest", lab.Similar(i, c.Count))
	}

	if c.Sort {
		order := palette.ByHue(c.pal)
		sorted := make(color.Palette, len(order))
		for i, j := range order {
			sorted[i] = c.pal[j]
		}
		c.pal = sorted
		logger.Info("sorted by hue", "order", order)
	}

	if c.Out == "" {
		return nil
	}
	return c.write(logger)
}

func (c *CLICmd) write(logger *slog.Logger) (err error) {
	if err := os.MkdirAll(filepath.Dir(c.Out), 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder: %w", err)
	}
	f, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("could not create palette file %q: %w", c.Out, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close palette file %q: %w", c.Out, closeErr)
		}
	}()

	n, err := palette.WriteTo(f, []color.Palette{c.pal})
	if err != nil {
		return fmt.Errorf("could not write palette file %q: %w", c.Out, err)
	}
	logger.Info("saved", "file", c.Out, "colors", n)
	return nil
}

func hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
