// Package raster turns gestures into pixels: lines, rectangles, ellipses
// and flood fills drawn into a picture.
//
// Every function returns the rectangle of pixels it may have touched,
// clipped to the target picture, or an empty rectangle when nothing was
// drawn. Coordinates outside the picture are clipped, never rejected.
package raster

import (
	"image"

	"pixed/picture"
	"pixed/rect"
)

// Pen describes how a path is rendered. With a Brush, the brush is stamped
// (masked) with its Anchor on each sample point; without one, the sample
// pixel is set to Color.
type Pen[T picture.Pixel] struct {
	Brush  *picture.Picture[T]
	Anchor image.Point
	Color  T
	// Step renders every Step-th sample of a line. Values below 1 mean 1.
	Step int
}

// Solid returns a single-pixel pen.
func Solid[T picture.Pixel](c T) Pen[T] {
	return Pen[T]{Color: c, Step: 1}
}

// WithBrush returns a pen stamping brush anchored at its centre.
func WithBrush[T picture.Pixel](brush *picture.Picture[T]) Pen[T] {
	return Pen[T]{
		Brush:  brush,
		Anchor: image.Pt(brush.Width()/2, brush.Height()/2),
		Step:   1,
	}
}

func (pen Pen[T]) step() int {
	return max(pen.Step, 1)
}

func (pen Pen[T]) plot(p *picture.Picture[T], x, y int) {
	if pen.Brush == nil {
		p.Set(x, y, pen.Color)
		return
	}
	p.Paste(pen.Brush, x-pen.Anchor.X, y-pen.Anchor.Y, true)
}

// extent grows a rectangle of sample points into the area the pen covers
// when stamped on each of them.
func (pen Pen[T]) extent(r rect.Rect) rect.Rect {
	if pen.Brush == nil {
		return r
	}
	return r.Grow(
		pen.Anchor.X, pen.Anchor.Y,
		pen.Brush.Width()-pen.Anchor.X-1, pen.Brush.Height()-pen.Anchor.Y-1,
	)
}

// EllipseBrush returns a w×h brush holding a filled ellipse of colour c on a
// transparent background.
func EllipseBrush[T picture.Pixel](w, h int, c T) *picture.Picture[T] {
	if w <= 2 && h <= 2 {
		return RectBrush(w, h, c)
	}
	b := picture.New[T](w, h)
	Ellipse(b, image.Pt(w/2, h/2), (w-1)/2, (h-1)/2, Solid(c), true)
	return b
}

// RectBrush returns a w×h brush filled with c.
func RectBrush[T picture.Pixel](w, h int, c T) *picture.Picture[T] {
	b := picture.New[T](w, h)
	b.Clear(b.Rect(), c)
	return b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
