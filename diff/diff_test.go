package diff

import (
	"image"
	"math/rand/v2"
	"testing"

	"pixed/picture"
	"pixed/rect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func random(t *testing.T, seed uint64, w, h int) *picture.Indexed {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed+1))
	data := make([]uint8, w*h)
	for i := range data {
		data[i] = uint8(rng.IntN(256))
	}
	p, err := picture.FromData(w, h, data)
	require.NoError(t, err)
	return p
}

func TestRoundTrip(t *testing.T) {
	a := random(t, 1, 8, 6)
	b := random(t, 2, 8, 6)
	r := rect.New(2, 1, 5, 4)

	d := Make(a, b, r)
	require.Len(t, d, r.Area())

	c := a.Clone()
	assert.Equal(t, r, Apply(c, d, r, false))
	for y := range 6 {
		for x := range 8 {
			av, _ := a.Get(x, y)
			bv, _ := b.Get(x, y)
			cv, _ := c.Get(x, y)
			switch {
			case !r.Contains(image.Pt(x, y)):
				assert.Equal(t, av, cv)
			case bv != 0:
				assert.Equal(t, bv, cv, "(%d,%d)", x, y)
			default:
				assert.Equal(t, av, cv, "(%d,%d)", x, y)
			}
		}
	}

	Apply(c, d, r, true)
	assert.Equal(t, a.Pix(), c.Pix())
}

func TestTransparentEditIsNoop(t *testing.T) {
	base := random(t, 3, 4, 4)
	overlay := picture.New[uint32](4, 4)
	r := rect.New(0, 0, 4, 4)

	d := Make(base, overlay, r)
	assert.Equal(t, make([]int16, 16), d)

	before := base.Clone()
	Apply(base, d, r, false)
	assert.Equal(t, before.Pix(), base.Pix())
	assert.True(t, NewPatch(before, overlay, r).Empty())
}

func TestOverlayCommit(t *testing.T) {
	layer, _ := picture.FromData(3, 1, []uint8{10, 20, 30})
	overlay := picture.New[uint32](3, 1)
	overlay.Set(0, 0, picture.Convert[uint32](uint8(250)))
	overlay.Set(2, 0, picture.PackRGBA(1, 0, 0, 255))

	pt := NewPatch(layer, overlay, layer.Rect())
	assert.Equal(t, []int16{240, 0, -29}, pt.Delta)

	Redo(layer, pt)
	assert.Equal(t, []uint8{250, 20, 1}, layer.Pix())
	Undo(layer, pt)
	assert.Equal(t, []uint8{10, 20, 30}, layer.Pix())
}

func TestMakeFullRecordsZero(t *testing.T) {
	base, _ := picture.FromData(2, 1, []uint8{5, 6})
	cleared := picture.New[uint8](2, 1)

	assert.Equal(t, []int16{0, 0}, Make(base, cleared, base.Rect()))
	assert.Equal(t, []int16{-5, -6}, MakeFull(base, cleared, base.Rect()))
}

func TestApplyPackedKeepsColourBytes(t *testing.T) {
	p := picture.New[uint32](1, 1)
	p.Set(0, 0, picture.PackRGBA(3, 7, 8, 255))
	r := rect.New(0, 0, 1, 1)

	Apply(p, []int16{-5}, r, false)
	v, _ := p.Get(0, 0)
	assert.Equal(t, picture.PackRGBA(254, 7, 8, 255), v)

	Apply(p, []int16{-5}, r, true)
	v, _ = p.Get(0, 0)
	assert.Equal(t, picture.PackRGBA(3, 7, 8, 255), v)
}

func TestRectPartlyOutside(t *testing.T) {
	a := random(t, 4, 4, 4)
	b := random(t, 5, 4, 4)
	r := rect.New(2, 2, 4, 4)

	d := Make(a, b, r)
	assert.Len(t, d, 16)
	assert.Equal(t, int16(0), d[3*4+3])

	c := a.Clone()
	assert.Equal(t, rect.New(2, 2, 2, 2), Apply(c, d, r, false))
	Apply(c, d, r, true)
	assert.Equal(t, a.Pix(), c.Pix())
}

func TestCodec(t *testing.T) {
	c, err := NewCodec()
	require.NoError(t, err)
	defer func() { assert.NoError(t, c.Close()) }()

	a := random(t, 6, 16, 16)
	b := random(t, 7, 16, 16)
	pt := NewPatch(a, b, rect.New(-2, 3, 10, 5))

	buf := c.Encode(nil, pt)
	got, err := c.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, pt, got)

	empty, err := c.Decode(c.Encode(nil, Patch{}))
	require.NoError(t, err)
	assert.Equal(t, Patch{}, empty)

	_, err = c.Decode([]byte("not a patch"))
	assert.ErrorIs(t, err, ErrCorruptPatch)

	short := c.enc.EncodeAll([]byte{1, 2, 3}, nil)
	_, err = c.Decode(short)
	assert.ErrorIs(t, err, ErrCorruptPatch)
}
