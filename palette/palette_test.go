package palette

import (
	"bytes"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"pixed/okcolor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	pal := Default()
	require.Len(t, pal, Size)
	assert.Equal(t, color.NRGBA{0, 0, 0, 0}, pal[0])
	assert.Equal(t, color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}, pal[15])
	assert.Equal(t, color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}, pal[16+215])
}

func TestLoadNamed(t *testing.T) {
	for _, name := range Names() {
		pal, err := LoadPalette(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, pal, name)
	}

	_, err := LoadPalette("no-such-palette")
	assert.ErrorIs(t, err, ErrUnknownPalette)
}

func TestRIFFRoundTrip(t *testing.T) {
	pals := []color.Palette{Default(), grays(16)}
	var buf bytes.Buffer
	n, err := WriteTo(&buf, pals)
	require.NoError(t, err)
	assert.Equal(t, int64(Size+16), n)

	got, err := ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, grays(16), got[1])
	// PAL carries no alpha
	assert.Equal(t, color.NRGBA{0, 0, 0, 0xFF}, got[0][0])
	assert.Equal(t, Default()[100], got[0][100])

	path := filepath.Join(t.TempDir(), "test.pal")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	pal, err := LoadPalette(path)
	require.NoError(t, err)
	assert.Len(t, pal, Size)
}

func TestReadFromRejectsOtherForms(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	buf.Write([]byte{4, 0, 0, 0})
	buf.WriteString("WAVE")
	_, err := ReadFrom(&buf)
	assert.Error(t, err)
}

func TestPad(t *testing.T) {
	pal := Pad(grays(2))
	require.Len(t, pal, Size)
	assert.Equal(t, color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}, pal[1])
	assert.Equal(t, color.NRGBA{0, 0, 0, 0xFF}, pal[200])
}

func TestNearestAndSimilar(t *testing.T) {
	lab := NewLab(fromNRGBA(vga16))
	assert.Equal(t, 12, lab.Index(color.NRGBA{0xF0, 0x50, 0x50, 0xFF}))
	assert.Equal(t, 15, lab.Index(color.White))

	sim := lab.Similar(4, 3)
	require.Len(t, sim, 3)
	assert.Equal(t, 4, sim[0])
	assert.Nil(t, lab.Similar(99, 3))
}

func TestSpread(t *testing.T) {
	pal := grays(5)
	ramp := Spread(pal, 4, 0)
	require.Len(t, ramp, 3)
	prev := uint8(0)
	for _, c := range ramp {
		g := color.NRGBAModel.Convert(c).(color.NRGBA)
		assert.InDelta(t, g.R, g.G, 1)
		assert.Greater(t, g.R, prev)
		prev = g.R
	}
	assert.Nil(t, Spread(pal, 1, 2))
}

func TestSimilarStartsWithIndexAmongDuplicates(t *testing.T) {
	red := color.NRGBA{0xFF, 0, 0, 0xFF}
	lab := NewLab(color.Palette{red, color.Black, red, color.White})

	sim := lab.Similar(2, 2)
	assert.Equal(t, []int{2, 0}, sim)
	assert.Equal(t, []int{3}, lab.Similar(3, 1))
	assert.Nil(t, lab.Similar(0, 0))
}

func TestByHue(t *testing.T) {
	pal := color.Palette{
		color.NRGBA{0, 0, 0xFF, 0xFF},    // blue
		color.White,                      // gray
		color.NRGBA{0xFF, 0, 0, 0xFF},    // red
		color.Black,                      // gray
		color.NRGBA{0, 0xFF, 0, 0xFF},    // green
		color.NRGBA{0xFF, 0xFF, 0, 0xFF}, // yellow
	}
	assert.Equal(t, []int{3, 1, 2, 5, 4, 0}, ByHue(pal))
}

func TestSpreadHueKeepsChroma(t *testing.T) {
	from := okcolor.LCh{L: 0.6, C: 0.05, H: 0, Alpha: 0xFFFF}.Lab()
	to := okcolor.LCh{L: 0.6, C: 0.05, H: math.Pi - 0.01, Alpha: 0xFFFF}.Lab()
	pal := color.Palette{from, color.Black, color.Black, color.Black, to}

	hue := SpreadHue(pal, 0, 4)
	lab := Spread(pal, 0, 4)
	require.Len(t, hue, 3)
	require.Len(t, lab, 3)

	// the straight ramp passes through gray halfway, the hue ramp keeps its chroma
	assert.Greater(t, okcolor.FromColor(hue[1]).LCh().C, 0.04)
	assert.Less(t, okcolor.FromColor(lab[1]).LCh().C, 0.01)
	assert.Nil(t, SpreadHue(pal, 0, 1))
}
