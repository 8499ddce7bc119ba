// Package palette provides the 256 entry colour tables indexed pictures are
// interpreted against: built-in palettes, RIFF PAL files and perceptual
// colour lookups.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"slices"
	"strings"
)

// Size is the number of entries an indexed picture can address.
const Size = 256

var ErrUnknownPalette = errors.New("unknown palette")

var vga16 = []color.NRGBA{
	{0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0xAA, 0xFF}, {0x00, 0xAA, 0x00, 0xFF}, {0x00, 0xAA, 0xAA, 0xFF},
	{0xAA, 0x00, 0x00, 0xFF}, {0xAA, 0x00, 0xAA, 0xFF}, {0xAA, 0x55, 0x00, 0xFF}, {0xAA, 0xAA, 0xAA, 0xFF},
	{0x55, 0x55, 0x55, 0xFF}, {0x55, 0x55, 0xFF, 0xFF}, {0x55, 0xFF, 0x55, 0xFF}, {0x55, 0xFF, 0xFF, 0xFF},
	{0xFF, 0x55, 0x55, 0xFF}, {0xFF, 0x55, 0xFF, 0xFF}, {0xFF, 0xFF, 0x55, 0xFF}, {0xFF, 0xFF, 0xFF, 0xFF},
}

var named = map[string]func() color.Palette{
	"default": Default,
	"vga16":   func() color.Palette { return fromNRGBA(vga16) },
	"bw": func() color.Palette {
		return color.Palette{color.NRGBA{0, 0, 0, 0xFF}, color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}}
	},
	"gray16":  func() color.Palette { return grays(16) },
	"gray256": func() color.Palette { return grays(256) },
}

// Names lists the built-in palettes.
func Names() []string {
	names := make([]string, 0, len(named))
	for n := range named {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Default returns the editing palette: the 16 VGA colours, a 6×6×6 colour
// cube and a 24 step gray ramp. Entry 0 is transparent.
func Default() color.Palette {
	pal := make(color.Palette, 0, Size)
	pal = append(pal, fromNRGBA(vga16)...)
	pal[0] = color.NRGBA{0, 0, 0, 0}

	levels := [6]uint8{0x00, 0x5F, 0x87, 0xAF, 0xD7, 0xFF}
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				pal = append(pal, color.NRGBA{r, g, b, 0xFF})
			}
		}
	}
	for i := range 24 {
		v := uint8(8 + i*10)
		pal = append(pal, color.NRGBA{v, v, v, 0xFF})
	}
	return pal
}

// LoadPalette returns a built-in palette by name, or reads the first
// palette of a RIFF PAL file.
func LoadPalette(name string) (color.Palette, error) {
	if fn, ok := named[strings.ToLower(name)]; ok {
		return fn(), nil
	}

	f, err := os.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w %q: not one of %s and no such file", ErrUnknownPalette, name, strings.Join(Names(), ", "))
		}
		return nil, fmt.Errorf("could not open palette %q: %w", name, err)
	}
	defer f.Close()

	pals, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("could not read palette %q: %w", name, err)
	} else if len(pals) == 0 {
		return nil, fmt.Errorf("palette file %q holds no palettes", name)
	}
	return pals[0], nil
}

// Pad returns pal extended to Size entries with opaque black, or truncated
// to Size.
func Pad(pal color.Palette) color.Palette {
	res := make(color.Palette, Size)
	n := copy(res, pal)
	for i := n; i < Size; i++ {
		res[i] = color.NRGBA{0, 0, 0, 0xFF}
	}
	return res
}

func fromNRGBA(cs []color.NRGBA) color.Palette {
	pal := make(color.Palette, len(cs))
	for i, c := range cs {
		pal[i] = c
	}
	return pal
}

func grays(n int) color.Palette {
	pal := make(color.Palette, n)
	for i := range pal {
		v := uint8(i * 0xFF / (n - 1))
		pal[i] = color.NRGBA{v, v, v, 0xFF}
	}
	return pal
}
