package script

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"pixed/diff"
)

// MaxRecordSize bounds a single compressed patch record.
const MaxRecordSize = 64 << 20

// WriteHistory stores patches as length prefixed compressed records.
func WriteHistory(w io.Writer, c *diff.Codec, patches []diff.Patch) error {
	var buf []byte
	for i, pt := range patches {
		buf = c.Encode(buf[:0], pt)
		if len(buf) > MaxRecordSize {
			return fmt.Errorf("patch %d: record of %d bytes exceeds %d", i, len(buf), MaxRecordSize)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(buf))); err != nil {
			return fmt.Errorf("could not write length of patch %d: %w", i, err)
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("could not write patch %d: %w", i, err)
		}
	}
	return nil
}

// ReadHistory reads records written by WriteHistory until EOF.
func ReadHistory(r io.Reader, c *diff.Codec) ([]diff.Patch, error) {
	var res []diff.Patch
	for {
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			if errors.Is(err, io.EOF) {
				return res, nil
			}
			return res, fmt.Errorf("could not read length of patch %d: %w", len(res), err)
		}

		if n > MaxRecordSize {
			return res, fmt.Errorf("patch %d: %w: record of %d bytes exceeds %d", len(res), diff.ErrCorruptPatch, n, MaxRecordSize)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return res, fmt.Errorf("could not read patch %d: %w", len(res), err)
		}
		pt, err := c.Decode(buf)
		if err != nil {
			return res, fmt.Errorf("patch %d: %w", len(res), err)
		}
		res = append(res, pt)
	}
}
