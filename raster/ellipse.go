package raster

import (
	"image"

	"pixed/picture"
	"pixed/rect"
)

// Ellipse draws the axis-aligned ellipse centred on c with radii a and b
// using the midpoint algorithm. A zero radius degenerates to a line (or a
// filled one pixel wide box); both radii zero draws nothing. Outlines stamp
// pen at the four mirrored points, filled ellipses paint pen.Color spans.
// The centre may lie outside the picture; only the visible part is drawn.
func Ellipse[T picture.Pixel](p *picture.Picture[T], c image.Point, a, b int, pen Pen[T], fill bool) rect.Rect {
	a, b = max(a, 0), max(b, 0)
	switch {
	case a == 0 && b == 0:
		return rect.Rect{}
	case a == 0 || b == 0:
		if fill {
			return Rectangle(p, image.Pt(c.X-a, c.Y-b), image.Pt(2*a+1, 2*b+1), pen, true)
		}
		return Line(p, image.Pt(c.X-a, c.Y-b), image.Pt(c.X+a, c.Y+b), pen)
	}

	plot := func(x, y int) {
		if fill {
			p.HLine(c.X-x, c.X+x, c.Y+y, pen.Color)
			p.HLine(c.X-x, c.X+x, c.Y-y, pen.Color)
			return
		}
		pen.plot(p, c.X+x, c.Y+y)
		pen.plot(p, c.X-x, c.Y+y)
		pen.plot(p, c.X+x, c.Y-y)
		pen.plot(p, c.X-x, c.Y-y)
	}

	// Decision terms are kept at four times their value so they stay integral.
	a2, b2 := a*a, b*b
	x, y := 0, b
	dx, dy := 0, 2*a2*y

	d := 4*b2 - 4*a2*b + a2
	for dx < dy {
		plot(x, y)
		x++
		dx += 2 * b2
		if d < 0 {
			d += 4 * (dx + b2)
		} else {
			y--
			dy -= 2 * a2
			d += 4 * (dx - dy + b2)
		}
	}

	d = b2*(2*x+1)*(2*x+1) + 4*a2*(y-1)*(y-1) - 4*a2*b2
	for y >= 0 {
		plot(x, y)
		y--
		dy -= 2 * a2
		if d > 0 {
			d += 4 * (a2 - dy)
		} else {
			x++
			dx += 2 * b2
			d += 4 * (dx - dy + a2)
		}
	}

	box := rect.New(c.X-a, c.Y-b, 2*a+1, 2*b+1)
	if !fill {
		box = pen.extent(box)
	}
	return box.Intersect(p.Rect())
}
