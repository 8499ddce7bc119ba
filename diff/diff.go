// Package diff computes and applies signed per-pixel deltas between two
// pictures over a sub-rectangle. A delta only covers the edited region, so
// undo history grows with the size of the edits rather than the canvas.
//
// Deltas act on the palette index (the low byte of each element) and wrap
// modulo 256, which makes applying a delta and then its inverse exact.
package diff

import (
	"pixed/picture"
	"pixed/rect"
)

// Make returns, for every pixel of r, the difference between the index in
// edited and the index in base. Pixels that edited leaves transparent (zero
// alpha byte) get a zero delta. The result is sized r.W*r.H, row-major.
// Pixels of r outside either picture are left zero.
func Make[B, E picture.Pixel](base *picture.Picture[B], edited *picture.Picture[E], r rect.Rect) []int16 {
	return build(base, edited, r, true)
}

// MakeFull is Make without the transparency mask: every pixel of r is
// recorded, including ones edited to index 0. Use it for edits that replace
// whole areas, such as clears and flips.
func MakeFull[B, E picture.Pixel](base *picture.Picture[B], edited *picture.Picture[E], r rect.Rect) []int16 {
	return build(base, edited, r, false)
}

func build[B, E picture.Pixel](base *picture.Picture[B], edited *picture.Picture[E], r rect.Rect, mask bool) []int16 {
	if r.Empty() {
		return nil
	}
	delta := make([]int16, r.Area())
	valid := r.Intersect(base.Rect()).Intersect(edited.Rect())

	bpix, epix := base.Pix(), edited.Pix()
	bw, ew := base.Width(), edited.Width()
	for y := valid.Top(); y < valid.Bottom(); y++ {
		row := delta[(y-r.Y)*r.W : (y-r.Y+1)*r.W]
		for x := valid.Left(); x < valid.Right(); x++ {
			e := epix[y*ew+x]
			if mask && picture.Alpha(e) == 0 {
				continue
			}
			row[x-r.X] = int16(picture.Index(e)) - int16(picture.Index(bpix[y*bw+x]))
		}
	}
	return delta
}

// Apply adds delta (or subtracts it when invert is set) to the index byte
// of every pixel of r in p. delta must have been built for the same r and
// picture size. The returned rectangle is r clipped to p.
func Apply[T picture.Pixel](p *picture.Picture[T], delta []int16, r rect.Rect, invert bool) rect.Rect {
	r2 := r.Intersect(p.Rect())
	if r2.Empty() || len(delta) < r.Area() {
		return rect.Rect{}
	}

	sign := 1
	if invert {
		sign = -1
	}
	pix, w := p.Pix(), p.Width()
	for y := r2.Top(); y < r2.Bottom(); y++ {
		row := delta[(y-r.Y)*r.W : (y-r.Y+1)*r.W]
		for x := r2.Left(); x < r2.Right(); x++ {
			d := row[x-r.X]
			if d == 0 {
				continue
			}
			v := pix[y*w+x]
			idx := uint8(int(picture.Index(v)) + sign*int(d))
			pix[y*w+x] = v&^T(0xFF) | T(idx)
		}
	}
	return r2
}
