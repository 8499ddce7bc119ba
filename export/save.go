// Package export moves pictures in and out of image files: it encodes an
// indexed canvas with its palette and maps decoded images onto a palette.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"

	"pixed/picture"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Formats lists the supported output formats.
var Formats = []string{"png", "gif", "bmp", "tiff"}

// Canvas pairs an indexed picture with its palette as an image.
func Canvas(p *picture.Indexed, pal color.Palette) image.Image {
	return picture.ToPaletted(p, pal)
}

// Flat expands an indexed picture through its palette, keeping palette
// transparency.
func Flat(p *picture.Indexed, pal color.Palette) image.Image {
	return picture.ToNRGBA(picture.Expand(p, pal, true))
}

// Encode writes img in the given format. Paletted images keep their
// indices in every format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode PNG: %w", err)
		}
	case "gif":
		if err := gif.Encode(w, img, nil); err != nil {
			return fmt.Errorf("could not encode GIF: %w", err)
		}
	case "bmp":
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode BMP: %w", err)
		}
	case "tiff":
		if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("could not encode TIFF: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	return nil
}

// Save encodes img into destDir/name.format through a temporary file that
// is renamed into place once fully written.
func Save(img image.Image, format, destDir, name string) (path string, err error) {
	destName := fmt.Sprintf("%s.%s", name, format)
	path = filepath.Join(destDir, destName)

	outFile, err := os.CreateTemp(destDir, destName)
	if err != nil {
		return "", fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		} else {
			_ = os.Remove(outFile.Name())
		}
	}()

	if err = Encode(outFile, img, format); err != nil {
		return "", fmt.Errorf("could not save %q: %w", destName, err)
	}

	canRename = true
	return path, nil
}

// Load decodes any registered image format.
func Load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image %q: %w", path, err)
	}
	return img, format, nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
