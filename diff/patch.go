package diff

import (
	"encoding/binary"
	"errors"
	"fmt"

	"pixed/picture"
	"pixed/rect"

	"github.com/klauspost/compress/zstd"
)

var ErrCorruptPatch = errors.New("corrupt patch")

// Patch is a delta together with the rectangle it was computed over.
type Patch struct {
	Rect  rect.Rect
	Delta []int16
}

// NewPatch captures the change from base to edited inside r.
func NewPatch[B, E picture.Pixel](base *picture.Picture[B], edited *picture.Picture[E], r rect.Rect) Patch {
	return Patch{Rect: r, Delta: Make(base, edited, r)}
}

// Empty reports whether applying the patch would change nothing.
func (pt Patch) Empty() bool {
	for _, d := range pt.Delta {
		if d != 0 {
			return false
		}
	}
	return true
}

// Redo applies the patch to p.
func Redo[T picture.Pixel](p *picture.Picture[T], pt Patch) rect.Rect {
	return Apply(p, pt.Delta, pt.Rect, false)
}

// Undo reverts the patch on p.
func Undo[T picture.Pixel](p *picture.Picture[T], pt Patch) rect.Rect {
	return Apply(p, pt.Delta, pt.Rect, true)
}

const headerSize = 4 * 4

// Codec serialises patches into zstd compressed records. A Codec may be
// shared between goroutines.
type Codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewCodec() (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("could not create patch encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("could not create patch decoder: %w", err)
	}
	return &Codec{enc: enc, dec: dec}, nil
}

func (c *Codec) Close() error {
	c.dec.Close()
	return c.enc.Close()
}

// Encode appends the compressed form of pt to dst.
func (c *Codec) Encode(dst []byte, pt Patch) []byte {
	raw := make([]byte, 0, headerSize+len(pt.Delta)*2)
	for _, v := range []int{pt.Rect.X, pt.Rect.Y, pt.Rect.W, pt.Rect.H} {
		raw = binary.LittleEndian.AppendUint32(raw, uint32(int32(v)))
	}
	for _, d := range pt.Delta {
		raw = binary.LittleEndian.AppendUint16(raw, uint16(d))
	}
	return c.enc.EncodeAll(raw, dst)
}

// Decode restores a patch produced by Encode.
func (c *Codec) Decode(src []byte) (Patch, error) {
	raw, err := c.dec.DecodeAll(src, nil)
	if err != nil {
		return Patch{}, fmt.Errorf("%w: %w", ErrCorruptPatch, err)
	}
	if len(raw) < headerSize {
		return Patch{}, fmt.Errorf("%w: short header (%d bytes)", ErrCorruptPatch, len(raw))
	}

	var hdr [4]int
	for i := range hdr {
		hdr[i] = int(int32(binary.LittleEndian.Uint32(raw[i*4:])))
	}
	r := rect.New(hdr[0], hdr[1], hdr[2], hdr[3])
	body := raw[headerSize:]
	if len(body) != r.Area()*2 {
		return Patch{}, fmt.Errorf("%w: %dx%d rectangle with %d delta bytes", ErrCorruptPatch, r.W, r.H, len(body))
	}

	pt := Patch{Rect: r}
	if r.Area() > 0 {
		pt.Delta = make([]int16, r.Area())
		for i := range pt.Delta {
			pt.Delta[i] = int16(binary.LittleEndian.Uint16(body[i*2:]))
		}
	}
	return pt, nil
}
