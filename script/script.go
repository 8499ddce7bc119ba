// Package script replays drawing gestures described in a TOML file onto an
// indexed canvas. Gestures are drawn into a transparent packed overlay and
// committed to the canvas as diff patches, which also form the undo
// history.
package script

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"pixed/palette"
	"pixed/rect"

	"github.com/BurntSushi/toml"
)

var (
	ErrUnknownOp  = errors.New("unknown operation")
	ErrInvalidArg = errors.New("invalid argument")
)

// Script is the decoded form of a gesture file:
//
//	width = 64
//	height = 48
//	palette = "default"
//	background = 0
//
//	[brush]
//	shape = "ellipse"
//	width = 3
//	height = 3
//
//	[[op]]
//	kind = "line"
//	at = [0, 0]
//	to = [63, 47]
//	color = 9
type Script struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Palette    string `toml:"palette"`
	Background uint8  `toml:"background"`
	Brush      Brush  `toml:"brush"`
	Ops        []Op   `toml:"op"`
}

// Brush selects the brush stamped by outline gestures. Shape is "ellipse",
// "square" or "pixel" (the default).
type Brush struct {
	Shape  string `toml:"shape"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Op is one gesture. Which fields matter depends on Kind:
//
//	line:      At, To, Color, Step, Solid, Colorize
//	stroke:    Points (a polyline, one point draws a dot), Color, Step, Solid, Colorize
//	spray:     At (centre), Spread (scatter, default 10), Count (dots, default 10), Seed, Color, Solid, Colorize
//	rectangle: At (position), Size, Color, Fill, Solid, Colorize
//	ellipse:   At (centre), Size (radii), Color, Fill, Solid, Colorize
//	fill:      At (seed), Color
//	clear:     At, Size (whole canvas when omitted), Color
//	swap:      Color, With
//	flip:      Axis ("horizontal" or "vertical")
//	brush:     At, Size of the canvas area that becomes the brush, Clear to
//	           erase that area to the background; without At the script
//	           brush is restored
//	undo/redo: Count (default 1)
//
// A negative Size on a rectangle, clear or brush extends the box up or
// left from At, At itself included.
type Op struct {
	Kind     string  `toml:"kind"`
	At       []int   `toml:"at"`
	To       []int   `toml:"to"`
	Size     []int   `toml:"size"`
	Points   [][]int `toml:"points"`
	Color    uint8   `toml:"color"`
	With     uint8   `toml:"with"`
	Step     int     `toml:"step"`
	Fill     bool    `toml:"fill"`
	Solid    bool    `toml:"solid"`
	Colorize bool    `toml:"colorize"`
	Clear    bool    `toml:"clear"`
	Axis     string  `toml:"axis"`
	Count    int     `toml:"count"`
	Spread   int     `toml:"spread"`
	Seed     uint64  `toml:"seed"`
}

// Load decodes a script file. A relative palette path is resolved against
// the directory of the script.
func Load(path string) (*Script, error) {
	var s Script
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, fmt.Errorf("could not decode script %q: %w", path, err)
	}
	if err := strict(md); err != nil {
		return nil, fmt.Errorf("script %q: %w", path, err)
	}

	if s.Palette != "" && !filepath.IsAbs(s.Palette) {
		if _, err := palette.LoadPalette(s.Palette); err != nil {
			s.Palette = filepath.Join(filepath.Dir(path), s.Palette)
		}
	}
	return &s, s.Validate()
}

// Parse decodes a script held in memory.
func Parse(data string) (*Script, error) {
	var s Script
	md, err := toml.Decode(data, &s)
	if err != nil {
		return nil, fmt.Errorf("could not decode script: %w", err)
	}
	if err := strict(md); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return &s, s.Validate()
}

// strict rejects keys that match no field, usually misspelt ones.
func strict(md toml.MetaData) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: unknown key %q", ErrInvalidArg, undecoded[0].String())
	}
	return nil
}

func (s *Script) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalidArg, s.Width, s.Height)
	}
	switch s.Brush.Shape {
	case "", "pixel", "ellipse", "square":
	default:
		return fmt.Errorf("%w: brush shape %q", ErrInvalidArg, s.Brush.Shape)
	}
	for i, op := range s.Ops {
		if err := op.validate(); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Kind, err)
		}
	}
	return nil
}

// LoadPalette returns the palette the script draws with, padded to 256
// entries.
func (s *Script) LoadPalette() (color.Palette, error) {
	name := s.Palette
	if name == "" {
		name = "default"
	}
	pal, err := palette.LoadPalette(name)
	if err != nil {
		return nil, err
	}
	return palette.Pad(pal), nil
}

func (op Op) validate() error {
	need := func(name string, v []int) error {
		if len(v) != 2 {
			return fmt.Errorf("%w: %s needs 2 values, got %d", ErrInvalidArg, name, len(v))
		}
		return nil
	}

	switch op.Kind {
	case "line":
		return errors.Join(need("at", op.At), need("to", op.To))
	case "stroke":
		if len(op.Points) == 0 {
			return fmt.Errorf("%w: stroke without points", ErrInvalidArg)
		}
		var errs []error
		for i, p := range op.Points {
			errs = append(errs, need(fmt.Sprintf("points[%d]", i), p))
		}
		return errors.Join(errs...)
	case "spray":
		if op.Spread < 0 || op.Count < 0 {
			return fmt.Errorf("%w: spread %d, count %d", ErrInvalidArg, op.Spread, op.Count)
		}
		return need("at", op.At)
	case "rectangle":
		return errors.Join(need("at", op.At), need("size", op.Size))
	case "ellipse":
		if err := errors.Join(need("at", op.At), need("size", op.Size)); err != nil {
			return err
		}
		if op.Size[0] < 0 || op.Size[1] < 0 {
			return fmt.Errorf("%w: negative radii %v", ErrInvalidArg, op.Size)
		}
		return nil
	case "fill":
		return need("at", op.At)
	case "swap":
		return nil
	case "clear", "brush":
		if op.At == nil && op.Size == nil {
			return nil
		}
		return errors.Join(need("at", op.At), need("size", op.Size))
	case "flip":
		if op.Axis != "horizontal" && op.Axis != "vertical" {
			return fmt.Errorf("%w: axis %q", ErrInvalidArg, op.Axis)
		}
		return nil
	case "undo", "redo":
		if op.Count < 0 {
			return fmt.Errorf("%w: count %d", ErrInvalidArg, op.Count)
		}
		return nil
	}
	return ErrUnknownOp
}

func pt(v []int) image.Point {
	return image.Pt(v[0], v[1])
}

// box turns a position and a possibly negative size into a rectangle.
func box(at, size []int) rect.Rect {
	x, y, w, h := at[0], at[1], size[0], size[1]
	if w < 0 {
		x, w = x+w+1, -w
	}
	if h < 0 {
		y, h = y+h+1, -h
	}
	return rect.New(x, y, w, h)
}
