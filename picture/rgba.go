package picture

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
)

// PackRGBA packs a colour into a Packed element: R in the low byte, A in the
// high byte.
func PackRGBA(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// UnpackRGBA is the inverse of PackRGBA.
func UnpackRGBA(v uint32) (r, g, b, a uint8) {
	return uint8(v), uint8(v >> 8), uint8(v >> 16), uint8(v >> 24)
}

// Expand looks every index of p up in pal and returns the resulting packed
// picture. Indices beyond the end of pal expand to transparent black. When
// alpha is false every pixel is made opaque.
func Expand(p *Indexed, pal color.Palette, alpha bool) *Packed {
	var lut [256]uint32
	for i, c := range pal[:min(len(pal), len(lut))] {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		if !alpha {
			n.A = 0xFF
		}
		lut[i] = PackRGBA(n.R, n.G, n.B, n.A)
	}

	out := New[uint32](p.width, p.height)
	for i, v := range p.pix {
		out.pix[i] = lut[v]
	}
	return out
}

// Bytes returns the elements of p as little-endian bytes, one element per
// pixel in row-major order.
func (p *Picture[T]) Bytes() []byte {
	size := int(bitSize[T]() / 8)
	if size == 1 {
		buf := make([]byte, len(p.pix))
		for i, v := range p.pix {
			buf[i] = uint8(v)
		}
		return buf
	}

	buf := make([]byte, 0, len(p.pix)*size)
	for _, v := range p.pix {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
	}
	return buf
}

// FromBytes builds a picture from the layout produced by Bytes.
func FromBytes[T Pixel](width, height int, data []byte) (*Picture[T], error) {
	size := int(bitSize[T]() / 8)
	if width < 0 || height < 0 || len(data) != width*height*size {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			ErrSizeMismatch, width, height, max(width, 0)*max(height, 0)*size, len(data))
	}

	p := New[T](width, height)
	for i := range p.pix {
		if size == 1 {
			p.pix[i] = T(data[i])
		} else {
			p.pix[i] = T(binary.LittleEndian.Uint32(data[i*size:]))
		}
	}
	return p, nil
}

// ToPaletted returns an image sharing nothing with p, using pal for colours.
func ToPaletted(p *Indexed, pal color.Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, p.width, p.height), pal)
	copy(img.Pix, p.pix)
	return img
}

// FromPaletted copies the indices of img into a new picture.
func FromPaletted(img *image.Paletted) *Indexed {
	b := img.Bounds()
	p := New[uint8](b.Dx(), b.Dy())
	for y := range p.height {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(p.pix[y*p.width:(y+1)*p.width], img.Pix[off:off+p.width])
	}
	return p
}

// ToNRGBA converts a packed picture to a non-premultiplied image.
func ToNRGBA(p *Packed) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	for i, v := range p.pix {
		r, g, b, a := UnpackRGBA(v)
		copy(img.Pix[i*4:i*4+4], []uint8{r, g, b, a})
	}
	return img
}

// FromImage converts any image into a packed picture.
func FromImage(img image.Image) *Packed {
	b := img.Bounds()
	p := New[uint32](b.Dx(), b.Dy())
	for y := range p.height {
		for x := range p.width {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			p.pix[y*p.width+x] = PackRGBA(c.R, c.G, c.B, c.A)
		}
	}
	return p
}
