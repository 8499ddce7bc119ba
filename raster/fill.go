package raster

import (
	"image"

	"pixed/picture"
	"pixed/rect"
)

// Fill replaces the 4-connected region of pixels sharing the colour found
// at seed with c. Filling with the colour already present is a no-op.
func Fill[T picture.Pixel](p *picture.Picture[T], seed image.Point, c T) rect.Rect {
	return FillMasked(p, p, seed, c)
}

// FillMasked finds the region around seed in src and paints it with c into
// dst, which may be src itself. Pixels of dst already holding c are treated
// as done, so dst can be an overlay that is filled without touching src.
//
// The fill is scanline based with an explicit stack. Each run of matching
// pixels pushes at most one seed per contiguous matching segment on the
// rows above and below, so the stack grows with the number of runs rather
// than with the area.
func FillMasked[D, S picture.Pixel](dst *picture.Picture[D], src *picture.Picture[S], seed image.Point, c D) rect.Rect {
	w, h := min(dst.Width(), src.Width()), min(dst.Height(), src.Height())
	if seed.X < 0 || seed.X >= w || seed.Y < 0 || seed.Y >= h {
		return rect.Rect{}
	}

	spix, dpix := src.Pix(), dst.Pix()
	sw, dw := src.Width(), dst.Width()
	start := spix[seed.Y*sw+seed.X]
	if picture.Convert[D](start) == c {
		return rect.Rect{}
	}

	match := func(x, y int) bool {
		return spix[y*sw+x] == start && dpix[y*dw+x] != c
	}

	var changed rect.Rect
	stack := []image.Point{seed}
	for len(stack) > 0 {
		pt := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := pt.X, pt.Y
		if !match(x, y) {
			continue
		}
		for x > 0 && match(x-1, y) {
			x--
		}

		runStart := x
		above, below := false, false
		for x < w && match(x, y) {
			dpix[y*dw+x] = c

			if y > 0 {
				if match(x, y-1) {
					if !above {
						stack = append(stack, image.Pt(x, y-1))
						above = true
					}
				} else {
					above = false
				}
			}
			if y < h-1 {
				if match(x, y+1) {
					if !below {
						stack = append(stack, image.Pt(x, y+1))
						below = true
					}
				} else {
					below = false
				}
			}
			x++
		}
		changed = changed.Unite(rect.FromCorners(runStart, y, x, y+1))
	}
	return changed
}
