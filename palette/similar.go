package palette

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"pixed/okcolor"
)

// Lab is a palette converted to OKLab for perceptual lookups.
type Lab []okcolor.Lab

func NewLab(pal color.Palette) Lab {
	lab := make(Lab, len(pal))
	for i, c := range pal {
		lab[i] = okcolor.FromColor(c)
	}
	return lab
}

// Index returns the entry closest to c.
func (p Lab) Index(c color.Color) int {
	return p.IndexLab(okcolor.FromColor(c))
}

func (p Lab) IndexLab(lc okcolor.Lab) int {
	ret, best := 0, -1.0
	for i, v := range p {
		d := lc.Distance(v)
		if best < 0 || d < best {
			if d == 0 {
				return i
			}
			ret, best = i, d
		}
	}
	return ret
}

// Similar returns up to n indices ordered by closeness to entry index,
// starting with index itself.
func (p Lab) Similar(index, n int) []int {
	if index < 0 || index >= len(p) || n < 1 {
		return nil
	}
	order := make([]int, 0, len(p))
	for i := range p {
		if i != index {
			order = append(order, i)
		}
	}
	ref := p[index]
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(ref.Distance(p[a]), ref.Distance(p[b]))
	})
	return append([]int{index}, order[:min(n-1, len(order))]...)
}

// grayChroma is the OKLab chroma below which a colour sorts as a gray.
const grayChroma = 0.02

// ByHue returns the indices of pal ordered by hue, grays first by
// lightness, then colours by hue angle and lightness.
func ByHue(pal color.Palette) []int {
	lch := make([]okcolor.LCh, len(pal))
	for i, c := range pal {
		lch[i] = okcolor.FromColor(c).LCh()
	}
	order := make([]int, len(pal))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ca, cb := lch[a], lch[b]
		ga, gb := ca.C < grayChroma, cb.C < grayChroma
		switch {
		case ga && !gb:
			return -1
		case !ga && gb:
			return 1
		case ga && gb:
			return cmp.Compare(ca.L, cb.L)
		}
		return cmp.Or(cmp.Compare(hueAngle(ca.H), hueAngle(cb.H)), cmp.Compare(ca.L, cb.L))
	})
	return order
}

// hueAngle maps an atan2 angle to [0,2π).
func hueAngle(h float64) float64 {
	if h < 0 {
		h += 2 * math.Pi
	}
	return h
}

// Spread returns the colours of a smooth OKLab ramp strictly between
// entries from and to of pal, suitable for filling the entries in between.
func Spread(pal color.Palette, from, to int) []color.Color {
	return spread(pal, from, to, func(a, b okcolor.Lab, t float64) okcolor.Lab {
		return a.Mix(b, t)
	})
}

// SpreadHue is like Spread but interpolates lightness, chroma and hue, so
// the ramp turns around the hue circle instead of cutting through gray.
func SpreadHue(pal color.Palette, from, to int) []color.Color {
	return spread(pal, from, to, func(a, b okcolor.Lab, t float64) okcolor.Lab {
		return a.LCh().Mix(b.LCh(), t).Lab()
	})
}

func spread(pal color.Palette, from, to int, mix func(a, b okcolor.Lab, t float64) okcolor.Lab) []color.Color {
	if from > to {
		from, to = to, from
	}
	if from < 0 || to >= len(pal) || to-from < 2 {
		return nil
	}

	a, b := okcolor.FromColor(pal[from]), okcolor.FromColor(pal[to])
	steps := to - from
	res := make([]color.Color, 0, steps-1)
	for i := 1; i < steps; i++ {
		res = append(res, color.NRGBAModel.Convert(mix(a, b, float64(i)/float64(steps))))
	}
	return res
}
