// Package rect implements the axis-aligned boxes used to report which part
// of a picture an operation touched.
package rect

import "image"

// Rect is an immutable box with its origin at the top-left corner. A Rect
// with zero area is treated as absent.
type Rect struct {
	X, Y int
	W, H int
}

// New returns a Rect, clamping negative sizes to zero.
func New(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: max(w, 0), H: max(h, 0)}
}

// FromCorners returns the Rect spanning the half-open range [x0,x1)×[y0,y1).
func FromCorners(x0, y0, x1, y1 int) Rect {
	return New(x0, y0, x1-x0, y1-y0)
}

// FromImage converts an image.Rectangle.
func FromImage(r image.Rectangle) Rect {
	r = r.Canon()
	return New(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

func (r Rect) Position() image.Point { return image.Pt(r.X, r.Y) }
func (r Rect) Size() image.Point     { return image.Pt(r.W, r.H) }

// Area returns width*height.
func (r Rect) Area() int {
	return r.W * r.H
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

// Contains is half-open: the left and top edges are inside, the right and
// bottom edges are not.
func (r Rect) Contains(p image.Point) bool {
	return r.X <= p.X && p.X < r.Right() && r.Y <= p.Y && p.Y < r.Bottom()
}

// Intersect returns the overlap of r and o, or the zero Rect when they do
// not overlap. Rectangles that only share an edge do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	if r.Empty() || o.Empty() {
		return Rect{}
	}
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x0 >= x1 || y0 >= y1 {
		return Rect{}
	}
	return FromCorners(x0, y0, x1, y1)
}

// Unite returns the smallest Rect containing both r and o. An empty operand
// is ignored.
func (r Rect) Unite(o Rect) Rect {
	switch {
	case o.Empty():
		return r
	case r.Empty():
		return o
	}
	return FromCorners(
		min(r.X, o.X), min(r.Y, o.Y),
		max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom()),
	)
}

// Expanded returns the smallest Rect containing r and the pixel at p.
func (r Rect) Expanded(p image.Point) Rect {
	if r.Contains(p) {
		return r
	}
	return r.Unite(New(p.X, p.Y, 1, 1))
}

// Offset moves r by d.
func (r Rect) Offset(d image.Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Grow extends r by the given margins on each side.
func (r Rect) Grow(left, top, right, bottom int) Rect {
	if r.Empty() {
		return r
	}
	return FromCorners(r.X-left, r.Y-top, r.Right()+right, r.Bottom()+bottom)
}

// Cover returns the union of all rs.
func Cover(rs ...Rect) Rect {
	var res Rect
	for _, r := range rs {
		res = res.Unite(r)
	}
	return res
}
