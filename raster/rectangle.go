package raster

import (
	"image"

	"pixed/picture"
	"pixed/rect"
)

// Rectangle draws the box at pos with the given size, first clamped to the
// picture. Filled boxes are painted in pen.Color row by row; outlines are
// four Line calls with pen.
func Rectangle[T picture.Pixel](p *picture.Picture[T], pos, size image.Point, pen Pen[T], fill bool) rect.Rect {
	box := rect.New(pos.X, pos.Y, size.X, size.Y).Intersect(p.Rect())
	if box.Empty() {
		return rect.Rect{}
	}

	if fill {
		for y := box.Top(); y < box.Bottom(); y++ {
			p.HLine(box.Left(), box.Right()-1, y, pen.Color)
		}
		return box
	}

	x0, y0 := box.Left(), box.Top()
	x1, y1 := box.Right()-1, box.Bottom()-1
	Line(p, image.Pt(x0, y0), image.Pt(x1, y0), pen)
	Line(p, image.Pt(x1, y0), image.Pt(x1, y1), pen)
	Line(p, image.Pt(x1, y1), image.Pt(x0, y1), pen)
	Line(p, image.Pt(x0, y1), image.Pt(x0, y0), pen)
	return pen.extent(box).Intersect(p.Rect())
}
