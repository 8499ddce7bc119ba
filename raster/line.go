package raster

import (
	"image"

	"pixed/picture"
	"pixed/rect"
)

// Line draws from p0 to p1 inclusive using Bresenham stepping. A zero
// length line still plots once.
func Line[T picture.Pixel](p *picture.Picture[T], p0, p1 image.Point, pen Pen[T]) rect.Rect {
	x, y := p0.X, p0.Y
	dx, dy := abs(p1.X-x), -abs(p1.Y-y)
	sx, sy := 1, 1
	if p1.X < x {
		sx = -1
	}
	if p1.Y < y {
		sy = -1
	}

	step := pen.step()
	err := dx + dy
	for i := 0; ; i++ {
		if i%step == 0 {
			pen.plot(p, x, y)
		}
		if x == p1.X && y == p1.Y {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}

	box := rect.FromCorners(min(p0.X, p1.X), min(p0.Y, p1.Y), max(p0.X, p1.X)+1, max(p0.Y, p1.Y)+1)
	return pen.extent(box).Intersect(p.Rect())
}
