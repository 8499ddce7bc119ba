package export

import (
	"image"
	"image/color"
	"log/slog"
	"math"

	"pixed/palette"
	"pixed/parallel"
	"pixed/picture"

	"github.com/anthonynsimon/bild/adjust"
	"golang.org/x/image/draw"
)

// Quantize maps img onto pal. With dither, Floyd-Steinberg error diffusion
// is used; otherwise each pixel takes the perceptually closest entry,
// computed in row bands on workers goroutines. Pixels with zero alpha map to
// index 0.
func Quantize(logger *slog.Logger, img image.Image, pal color.Palette, dither bool, workers int) *picture.Indexed {
	sr := img.Bounds()
	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	logger.Info("applying palette", "colors", len(pal), "dither", dither)

	if dither {
		dest := image.NewPaletted(dr, pal)
		draw.FloydSteinberg.Draw(dest, dr, img, sr.Min)
		return picture.FromPaletted(dest)
	}

	src := nrgba(img)
	lab := palette.NewLab(pal)
	out := picture.New[uint8](dr.Dx(), dr.Dy())
	pix := out.Pix()
	parallel.Bands(dr.Dy(), workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := range dr.Dx() {
				c := src.NRGBAAt(sr.Min.X+x, sr.Min.Y+y)
				if c.A == 0 {
					continue
				}
				pix[y*dr.Dx()+x] = uint8(lab.Index(c))
			}
		}
	})
	return out
}

// nrgba returns img as straight-alpha NRGBA so partly transparent pixels
// keep their colour for the palette lookup.
func nrgba(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	n := image.NewNRGBA(b)
	draw.Draw(n, b, img, b.Min, draw.Src)
	return n
}

// Resize scales img to fit within width×height keeping its aspect ratio.
// A zero dimension is derived from the other one.
func Resize(logger *slog.Logger, img image.Image, width, height int) image.Image {
	src := img.Bounds()
	srcW, srcH := float64(src.Dx()), float64(src.Dy())
	if srcW == 0 || srcH == 0 {
		return img
	}

	scale := math.Inf(1)
	if width > 0 {
		scale = float64(width) / srcW
	}
	if height > 0 {
		scale = min(scale, float64(height)/srcH)
	}
	if math.IsInf(scale, 1) || scale == 1 {
		return img
	}

	dr := image.Rect(0, 0, max(int(math.Round(srcW*scale)), 1), max(int(math.Round(srcH*scale)), 1))
	logger.Info("resizing", "width", dr.Dx(), "height", dr.Dy())
	dest := image.NewNRGBA(dr)
	draw.CatmullRom.Scale(dest, dr, img, src, draw.Src, nil)
	return dest
}

// Adjust corrects gamma and contrast ahead of quantizing. contrast ranges
// over [-1,1]; gamma 1 and contrast 0 leave img untouched.
func Adjust(logger *slog.Logger, img image.Image, gamma, contrast float64) image.Image {
	if gamma != 1 {
		logger.Info("adjusting gamma", "gamma", gamma)
		img = adjust.Gamma(img, gamma)
	}
	if contrast != 0 {
		logger.Info("adjusting contrast", "contrast", contrast)
		img = adjust.Contrast(img, contrast)
	}
	return img
}
