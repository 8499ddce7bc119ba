package raster

import (
	"image"
	"testing"

	"pixed/picture"
	"pixed/rect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at[T picture.Pixel](t *testing.T, p *picture.Picture[T], x, y int) T {
	t.Helper()
	v, err := p.Get(x, y)
	require.NoError(t, err)
	return v
}

func count[T picture.Pixel](p *picture.Picture[T], v T) int {
	n := 0
	for _, e := range p.Pix() {
		if e == v {
			n++
		}
	}
	return n
}

func TestLineDiagonal(t *testing.T) {
	p := picture.New[uint8](4, 4)
	r := Line(p, image.Pt(0, 0), image.Pt(3, 3), Solid[uint8](7))
	assert.Equal(t, rect.New(0, 0, 4, 4), r)
	assert.Equal(t, []uint8{
		7, 0, 0, 0,
		0, 7, 0, 0,
		0, 0, 7, 0,
		0, 0, 0, 7,
	}, p.Pix())
}

func TestLineSinglePoint(t *testing.T) {
	p := picture.New[uint8](3, 3)
	r := Line(p, image.Pt(1, 2), image.Pt(1, 2), Solid[uint8](4))
	assert.Equal(t, rect.New(1, 2, 1, 1), r)
	assert.Equal(t, 1, count(p, 4))
}

func TestLineShallowAndReversed(t *testing.T) {
	p := picture.New[uint8](6, 3)
	Line(p, image.Pt(5, 2), image.Pt(0, 0), Solid[uint8](1))
	assert.Equal(t, uint8(1), at(t, p, 0, 0))
	assert.Equal(t, uint8(1), at(t, p, 5, 2))
	// one pixel per column on a shallow line
	for x := range 6 {
		n := 0
		for y := range 3 {
			if at(t, p, x, y) == 1 {
				n++
			}
		}
		assert.Equal(t, 1, n, "column %d", x)
	}
}

func TestLineStep(t *testing.T) {
	p := picture.New[uint8](10, 1)
	pen := Solid[uint8](1)
	pen.Step = 3
	Line(p, image.Pt(0, 0), image.Pt(9, 0), pen)
	assert.Equal(t, []uint8{1, 0, 0, 1, 0, 0, 1, 0, 0, 1}, p.Pix())
}

func TestLineClipsOffCanvas(t *testing.T) {
	p := picture.New[uint8](4, 4)
	r := Line(p, image.Pt(-5, 1), image.Pt(10, 1), Solid[uint8](2))
	assert.Equal(t, rect.New(0, 1, 4, 1), r)
	assert.Equal(t, 4, count(p, 2))

	r = Line(p, image.Pt(-5, -5), image.Pt(-1, -1), Solid[uint8](2))
	assert.True(t, r.Empty())
}

func TestLineWithBrush(t *testing.T) {
	p := picture.New[uint32](10, 10)
	brush := RectBrush(3, 3, picture.PackRGBA(1, 0, 0, 255))
	r := Line(p, image.Pt(2, 2), image.Pt(5, 2), WithBrush(brush))
	assert.Equal(t, rect.New(1, 1, 6, 3), r)
	assert.Equal(t, 18, count(p, picture.PackRGBA(1, 0, 0, 255)))
}

func TestBrushTransparencyIsMasked(t *testing.T) {
	p := picture.New[uint32](5, 5)
	p.Clear(p.Rect(), picture.PackRGBA(9, 0, 0, 255))
	brush := picture.New[uint32](3, 3)
	brush.Set(1, 1, picture.PackRGBA(1, 0, 0, 255))
	Line(p, image.Pt(2, 2), image.Pt(2, 2), WithBrush(brush))
	assert.Equal(t, 24, count(p, picture.PackRGBA(9, 0, 0, 255)))
	assert.Equal(t, picture.PackRGBA(1, 0, 0, 255), at(t, p, 2, 2))
}

func TestRectangleFillClamped(t *testing.T) {
	p := picture.New[uint8](4, 4)
	r := Rectangle(p, image.Pt(2, -1), image.Pt(5, 3), Solid[uint8](3), true)
	assert.Equal(t, rect.New(2, 0, 2, 2), r)
	assert.Equal(t, []uint8{
		0, 0, 3, 3,
		0, 0, 3, 3,
		0, 0, 0, 0,
		0, 0, 0, 0,
	}, p.Pix())

	assert.True(t, Rectangle(p, image.Pt(1, 1), image.Pt(0, 2), Solid[uint8](3), true).Empty())
}

func TestRectangleOutline(t *testing.T) {
	p := picture.New[uint8](5, 5)
	r := Rectangle(p, image.Pt(0, 0), image.Pt(4, 3), Solid[uint8](1), false)
	assert.Equal(t, rect.New(0, 0, 4, 3), r)
	assert.Equal(t, []uint8{
		1, 1, 1, 1, 0,
		1, 0, 0, 1, 0,
		1, 1, 1, 1, 0,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
	}, p.Pix())
}

func TestRectangleOutlineBrushExtent(t *testing.T) {
	p := picture.New[uint8](10, 10)
	r := Rectangle(p, image.Pt(3, 3), image.Pt(3, 3), WithBrush(RectBrush[uint8](3, 3, 5)), false)
	assert.Equal(t, rect.New(2, 2, 5, 5), r)
	assert.Equal(t, 25, count(p, 5))
}

func TestEllipseOutline(t *testing.T) {
	p := picture.New[uint8](9, 7)
	c := image.Pt(4, 3)
	r := Ellipse(p, c, 3, 2, Solid[uint8](1), false)
	assert.Equal(t, rect.New(1, 1, 7, 5), r)

	for _, pt := range []image.Point{{7, 3}, {1, 3}, {4, 1}, {4, 5}} {
		assert.Equal(t, uint8(1), at(t, p, pt.X, pt.Y), "extreme %v", pt)
	}
	assert.Equal(t, uint8(0), at(t, p, 4, 3))

	// symmetric about both axes
	for y := range 7 {
		for x := range 9 {
			v := at(t, p, x, y)
			assert.Equal(t, v, at(t, p, 8-x, y))
			assert.Equal(t, v, at(t, p, x, 6-y))
			if !r.Contains(image.Pt(x, y)) {
				assert.Equal(t, uint8(0), v)
			}
		}
	}
}

func TestEllipseFill(t *testing.T) {
	p := picture.New[uint8](9, 7)
	r := Ellipse(p, image.Pt(4, 3), 3, 2, Solid[uint8](2), true)
	assert.Equal(t, rect.New(1, 1, 7, 5), r)
	assert.Equal(t, uint8(2), at(t, p, 4, 3))
	assert.Equal(t, 7, func() int {
		n := 0
		for x := range 9 {
			if at(t, p, x, 3) == 2 {
				n++
			}
		}
		return n
	}())
	assert.Equal(t, uint8(0), at(t, p, 1, 1))
}

func TestEllipseDegenerate(t *testing.T) {
	p := picture.New[uint8](5, 5)
	assert.True(t, Ellipse(p, image.Pt(2, 2), 0, 0, Solid[uint8](1), false).Empty())
	assert.True(t, Ellipse(p, image.Pt(2, 2), -1, -3, Solid[uint8](1), true).Empty())
	assert.Equal(t, 0, count(p, 1))

	r := Ellipse(p, image.Pt(2, 2), 0, 2, Solid[uint8](1), false)
	assert.Equal(t, rect.New(2, 0, 1, 5), r)
	assert.Equal(t, 5, count(p, 1))

	r = Ellipse(p, image.Pt(2, 2), 1, 0, Solid[uint8](3), true)
	assert.Equal(t, rect.New(1, 2, 3, 1), r)
	assert.Equal(t, 3, count(p, 3))
}

func TestEllipseCentreOffCanvasClips(t *testing.T) {
	p := picture.New[uint8](5, 5)
	r := Ellipse(p, image.Pt(-1, 2), 3, 2, Solid[uint8](1), true)
	assert.Equal(t, rect.New(0, 0, 3, 5), r)
	assert.Equal(t, uint8(1), at(t, p, 0, 2))

	assert.True(t, Ellipse(p, image.Pt(-10, -10), 2, 2, Solid[uint8](1), true).Empty())
}

func TestEllipseBrush(t *testing.T) {
	b := EllipseBrush[uint8](3, 3, 4)
	assert.Equal(t, []uint8{
		0, 4, 0,
		4, 4, 4,
		0, 4, 0,
	}, b.Pix())

	assert.Equal(t, []uint8{4}, EllipseBrush[uint8](1, 1, 4).Pix())
	assert.Equal(t, 4, count(EllipseBrush[uint8](2, 2, 4), 4))
}

func TestFillAroundCentre(t *testing.T) {
	p := picture.New[uint8](3, 3)
	p.Set(1, 1, 1)
	r := Fill(p, image.Pt(0, 0), 2)
	assert.Equal(t, rect.New(0, 0, 3, 3), r)
	assert.Equal(t, []uint8{
		2, 2, 2,
		2, 1, 2,
		2, 2, 2,
	}, p.Pix())
}

func TestFillIdempotent(t *testing.T) {
	p := picture.New[uint8](4, 4)
	p.Clear(p.Rect(), 5)
	before := p.Clone()
	assert.True(t, Fill(p, image.Pt(1, 1), 5).Empty())
	assert.Equal(t, before.Pix(), p.Pix())

	assert.True(t, Fill(p, image.Pt(4, 0), 1).Empty())
}

func TestFillContained(t *testing.T) {
	// a wall of 1s splits the picture; the fill must stay on its side
	data := []uint8{
		0, 0, 1, 0, 0,
		0, 0, 1, 0, 0,
		0, 1, 0, 0, 0,
		1, 0, 0, 1, 0,
		0, 0, 1, 0, 0,
	}
	p, err := picture.FromData(5, 5, data)
	require.NoError(t, err)
	orig := p.Clone()

	r := Fill(p, image.Pt(0, 0), 9)
	assert.Equal(t, rect.New(0, 0, 2, 3), r)
	for i, v := range p.Pix() {
		x, y := i%5, i/5
		switch {
		case v == 9:
			assert.Equal(t, uint8(0), orig.Pix()[i])
			assert.True(t, r.Contains(image.Pt(x, y)))
		default:
			assert.Equal(t, orig.Pix()[i], v)
		}
	}
	assert.Equal(t, 5, count(p, 9))
}

func TestFillSpiral(t *testing.T) {
	// serpentine corridor exercising runs that open above and below
	data := []uint8{
		0, 0, 0, 0, 0, 0,
		1, 1, 1, 1, 1, 0,
		0, 0, 0, 0, 0, 0,
		0, 1, 1, 1, 1, 1,
		0, 0, 0, 0, 0, 0,
	}
	p, _ := picture.FromData(6, 5, data)
	r := Fill(p, image.Pt(0, 0), 3)
	assert.Equal(t, rect.New(0, 0, 6, 5), r)
	assert.Equal(t, 0, count(p, 0))
	assert.Equal(t, 10, count(p, 1))
}

func TestFillMaskedOverlay(t *testing.T) {
	layer, _ := picture.FromData(3, 2, []uint8{
		4, 4, 1,
		1, 4, 4,
	})
	overlay := picture.New[uint32](3, 2)
	c := picture.Convert[uint32](uint8(6))

	r := FillMasked(overlay, layer, image.Pt(0, 0), c)
	assert.Equal(t, rect.New(0, 0, 3, 2), r)
	assert.Equal(t, []uint32{c, c, 0, 0, c, c}, overlay.Pix())
	assert.Equal(t, []uint8{4, 4, 1, 1, 4, 4}, layer.Pix())

	// same colour as the seed is a no-op
	assert.True(t, FillMasked(overlay, layer, image.Pt(0, 0), picture.Convert[uint32](uint8(4))).Empty())
}
