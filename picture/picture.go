// Package picture implements the pixel buffers all drawing writes into.
//
// A Picture is a flat, row-major sequence of elements addressed by
// y*width + x with the origin in the top-left corner. Two element kinds are
// used: Indexed pictures hold one palette index per pixel and Packed
// pictures hold 32-bit R,G,B,A values with alpha in the most significant
// byte. Both share the same addressing, blit and crop code.
//
// A Picture holds no references to anything but its own elements, so calls
// on different pictures may run concurrently. Calls on the same picture
// must be serialised by the caller.
package picture

import (
	"errors"
	"fmt"
	"image"
	"math/bits"

	"pixed/rect"
)

var (
	ErrOutOfBounds  = errors.New("coordinates out of bounds")
	ErrSizeMismatch = errors.New("data length does not match picture size")
)

// Pixel is the set of supported element types.
type Pixel interface {
	~uint8 | ~uint32
}

type Picture[T Pixel] struct {
	width  int
	height int
	pix    []T
}

type (
	Indexed = Picture[uint8]
	Packed  = Picture[uint32]
)

// New returns a zeroed picture.
func New[T Pixel](width, height int) *Picture[T] {
	width, height = max(width, 0), max(height, 0)
	return &Picture[T]{
		width:  width,
		height: height,
		pix:    make([]T, width*height),
	}
}

// FromData wraps data, which must hold exactly width*height elements. The
// picture takes ownership of the slice.
func FromData[T Pixel](width, height int, data []T) (*Picture[T], error) {
	if width < 0 || height < 0 || len(data) != width*height {
		return nil, fmt.Errorf("%w: %dx%d needs %d elements, got %d",
			ErrSizeMismatch, width, height, max(width, 0)*max(height, 0), len(data))
	}
	return &Picture[T]{width: width, height: height, pix: data}, nil
}

func (p *Picture[T]) Width() int  { return p.width }
func (p *Picture[T]) Height() int { return p.height }

// Pix returns the backing elements in row-major order.
func (p *Picture[T]) Pix() []T { return p.pix }

// Rect returns the bounds of p.
func (p *Picture[T]) Rect() rect.Rect {
	return rect.New(0, 0, p.width, p.height)
}

func (p *Picture[T]) inside(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}

// Get returns the element at (x, y).
func (p *Picture[T]) Get(x, y int) (T, error) {
	if !p.inside(x, y) {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, p.width, p.height)
	}
	return p.pix[y*p.width+x], nil
}

// Set writes v at (x, y). Coordinates outside the picture are ignored.
func (p *Picture[T]) Set(x, y int, v T) {
	if p.inside(x, y) {
		p.pix[y*p.width+x] = v
	}
}

// HLine sets the run [x0,x1] on row y, clipped to the picture.
func (p *Picture[T]) HLine(x0, x1, y int, v T) {
	if y < 0 || y >= p.height {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0, x1 = max(x0, 0), min(x1, p.width-1)
	if x0 > x1 {
		return
	}
	row := p.pix[y*p.width : (y+1)*p.width]
	for x := x0; x <= x1; x++ {
		row[x] = v
	}
}

// Clone returns a copy of p.
func (p *Picture[T]) Clone() *Picture[T] {
	c := New[T](p.width, p.height)
	copy(c.pix, p.pix)
	return c
}

// Crop returns a copy of the given sub-rectangle. The rectangle must lie
// within p; parts outside it are left zero.
func (p *Picture[T]) Crop(x, y, w, h int) *Picture[T] {
	c := New[T](w, h)
	Blit(c, p, -x, -y, false)
	return c
}

// Clear fills r, clipped to p, with v and returns the filled rectangle.
func (p *Picture[T]) Clear(r rect.Rect, v T) rect.Rect {
	r = r.Intersect(p.Rect())
	for y := r.Top(); y < r.Bottom(); y++ {
		row := p.pix[y*p.width+r.Left() : y*p.width+r.Right()]
		for i := range row {
			row[i] = v
		}
	}
	return r
}

// Swap exchanges every occurrence of a with b and returns the bounds of the
// pixels that changed.
func (p *Picture[T]) Swap(a, b T) rect.Rect {
	if a == b {
		return rect.Rect{}
	}
	var changed rect.Rect
	for y := range p.height {
		row := p.pix[y*p.width : (y+1)*p.width]
		first, last := -1, -1
		for x, v := range row {
			switch v {
			case a:
				row[x] = b
			case b:
				row[x] = a
			default:
				continue
			}
			if first < 0 {
				first = x
			}
			last = x
		}
		if first >= 0 {
			changed = changed.Unite(rect.FromCorners(first, y, last+1, y+1))
		}
	}
	return changed
}

// FlipHorizontal returns a copy of p mirrored left to right.
func (p *Picture[T]) FlipHorizontal() *Picture[T] {
	f := New[T](p.width, p.height)
	for y := range p.height {
		src := p.pix[y*p.width : (y+1)*p.width]
		dst := f.pix[y*p.width : (y+1)*p.width]
		for x, v := range src {
			dst[p.width-1-x] = v
		}
	}
	return f
}

// FlipVertical returns a copy of p with the row order reversed.
func (p *Picture[T]) FlipVertical() *Picture[T] {
	f := New[T](p.width, p.height)
	for y := range p.height {
		copy(f.pix[(p.height-1-y)*p.width:(p.height-y)*p.width], p.pix[y*p.width:(y+1)*p.width])
	}
	return f
}

// Paste overlays src onto p with its top-left corner at (x, y). See Blit.
func (p *Picture[T]) Paste(src *Picture[T], x, y int, mask bool) rect.Rect {
	return Blit(p, src, x, y, mask)
}

// Blit copies src onto dst with its top-left corner at (x, y), converting
// elements with Convert. When mask is set, source pixels whose alpha byte is
// zero leave the destination untouched. The returned rectangle bounds the
// pixels written, in dst coordinates; it is empty when nothing overlaps.
// dst and src may be the same picture.
func Blit[D, S Pixel](dst *Picture[D], src *Picture[S], x, y int, mask bool) rect.Rect {
	area := src.Rect().Offset(image.Pt(x, y)).Intersect(dst.Rect())
	if area.Empty() {
		return rect.Rect{}
	}
	if any(dst) == any(src) {
		src = src.Clone()
	}

	var written rect.Rect
	for dy := area.Top(); dy < area.Bottom(); dy++ {
		srow := src.pix[(dy-y)*src.width : (dy-y+1)*src.width]
		drow := dst.pix[dy*dst.width : (dy+1)*dst.width]
		first, last := -1, -1
		for dx := area.Left(); dx < area.Right(); dx++ {
			v := srow[dx-x]
			if mask && Alpha(v) == 0 {
				continue
			}
			drow[dx] = Convert[D](v)
			if first < 0 {
				first = dx
			}
			last = dx
		}
		if first >= 0 {
			written = written.Unite(rect.FromCorners(first, dy, last+1, dy+1))
		}
	}
	return written
}

func bitSize[T Pixel]() uint {
	var zero T
	return uint(bits.Len64(uint64(^zero)))
}

// Alpha returns the most significant byte of v. For indexed elements this
// is the index itself, so index 0 counts as transparent.
func Alpha[T Pixel](v T) uint8 {
	return uint8(v >> (bitSize[T]() - 8))
}

// Index returns the palette index held in the low byte of v.
func Index[T Pixel](v T) uint8 {
	return uint8(v)
}

// Convert changes the element kind of v. Narrowing keeps the low (index)
// byte. Widening an index yields that index with full alpha, except index
// 0 which stays fully transparent.
func Convert[D, S Pixel](v S) D {
	ds, ss := bitSize[D](), bitSize[S]()
	if ds <= ss || v == 0 {
		return D(v)
	}
	return D(v) | D(0xFF)<<(ds-8)
}
