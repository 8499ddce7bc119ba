package script

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"math/rand/v2"

	"pixed/diff"
	"pixed/picture"
	"pixed/raster"
	"pixed/rect"
)

// Session owns a canvas and its undo history. It is not safe for
// concurrent use; separate sessions are independent.
type Session struct {
	logger  *slog.Logger
	canvas  *picture.Indexed
	overlay *picture.Packed
	brush   Brush
	// custom is a brush cut from the canvas, used instead of brush when set.
	custom     *picture.Packed
	background uint8

	history []diff.Patch
	applied int

	dirty rect.Rect
}

// NewSession creates a canvas of the script's size filled with its
// background.
func NewSession(logger *slog.Logger, s *Script) *Session {
	canvas := picture.New[uint8](s.Width, s.Height)
	canvas.Clear(canvas.Rect(), s.Background)
	return &Session{
		logger:  logger,
		canvas:  canvas,
		overlay: picture.New[uint32](s.Width, s.Height),
		brush:   s.Brush,
		dirty:   canvas.Rect(),

		background: s.Background,
	}
}

func (s *Session) Canvas() *picture.Indexed { return s.canvas }

// History returns the patches currently applied, oldest first.
func (s *Session) History() []diff.Patch {
	return s.history[:s.applied]
}

// TakeDirty returns the area changed since the previous call and resets it.
func (s *Session) TakeDirty() rect.Rect {
	r := s.dirty
	s.dirty = rect.Rect{}
	return r
}

// Run performs ops in order, stopping at the first failing one.
func (s *Session) Run(ops []Op) error {
	for i, op := range ops {
		r, err := s.Do(op)
		if err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Kind, err)
		}
		s.logger.Debug("op done", "index", i, "kind", op.Kind, "rect", r.Image())
	}
	return nil
}

// Do performs a single op and returns the area of the canvas it changed.
func (s *Session) Do(op Op) (rect.Rect, error) {
	if err := op.validate(); err != nil {
		return rect.Rect{}, err
	}

	c := overlayColor(op.Color)
	pen := s.pen(op, c)

	var r rect.Rect
	switch op.Kind {
	case "line":
		r = raster.Line(s.overlay, pt(op.At), pt(op.To), pen)
	case "stroke":
		r = s.stroke(op.Points, pen)
	case "spray":
		r = s.spray(op, pen)
	case "rectangle":
		b := box(op.At, op.Size)
		r = raster.Rectangle(s.overlay, b.Position(), b.Size(), pen, op.Fill)
	case "ellipse":
		r = raster.Ellipse(s.overlay, pt(op.At), op.Size[0], op.Size[1], pen, op.Fill)
	case "fill":
		r = raster.FillMasked(s.overlay, s.canvas, pt(op.At), c)
	case "clear":
		area := s.canvas.Rect()
		if op.At != nil {
			area = box(op.At, op.Size)
		}
		edited := s.canvas.Clone()
		return s.replace(edited, edited.Clear(area, op.Color)), nil
	case "swap":
		edited := s.canvas.Clone()
		return s.replace(edited, edited.Swap(op.Color, op.With)), nil
	case "flip":
		edited := s.canvas.FlipVertical()
		if op.Axis == "horizontal" {
			edited = s.canvas.FlipHorizontal()
		}
		return s.replace(edited, s.canvas.Rect()), nil
	case "brush":
		if op.At == nil {
			s.custom = nil
			return rect.Rect{}, nil
		}
		return s.cutBrush(box(op.At, op.Size), op.Clear)
	case "undo":
		return s.Undo(max(op.Count, 1)), nil
	case "redo":
		return s.Redo(max(op.Count, 1)), nil
	}
	return s.commit(r), nil
}

// pen picks what a gesture stamps: a single pixel when solid, otherwise
// the brush cut from the canvas or the script brush.
func (s *Session) pen(op Op, c uint32) raster.Pen[uint32] {
	pen := raster.Solid(c)
	if !op.Solid {
		b := s.custom
		if b != nil && op.Colorize {
			b = colorize(b, c)
		}
		if b == nil {
			b = s.makeBrush(c)
		}
		if b != nil {
			pen = raster.WithBrush(b)
			pen.Color = c
		}
	}
	pen.Step = op.Step
	return pen
}

func (s *Session) stroke(points [][]int, pen raster.Pen[uint32]) rect.Rect {
	if len(points) == 1 {
		return raster.Line(s.overlay, pt(points[0]), pt(points[0]), pen)
	}
	var r rect.Rect
	for i := 1; i < len(points); i++ {
		r = r.Unite(raster.Line(s.overlay, pt(points[i-1]), pt(points[i]), pen))
	}
	return r
}

// spray scatters dots around op.At with a normal distribution. The same
// seed always gives the same dots.
func (s *Session) spray(op Op, pen raster.Pen[uint32]) rect.Rect {
	spread, count := float64(op.Spread), op.Count
	if op.Spread == 0 {
		spread = 10
	}
	if count == 0 {
		count = 10
	}
	rng := rand.New(rand.NewPCG(op.Seed, uint64(op.At[0])<<32|uint64(uint32(op.At[1]))))
	c := pt(op.At)

	var r rect.Rect
	for range count {
		p := image.Pt(
			c.X+int(math.Round(rng.NormFloat64()*spread)),
			c.Y+int(math.Round(rng.NormFloat64()*spread)),
		)
		r = r.Unite(raster.Line(s.overlay, p, p, pen))
	}
	return r
}

// cutBrush copies area of the canvas into a packed brush; index 0 becomes
// transparent. With clear, the area is erased to the background as an
// undoable edit.
func (s *Session) cutBrush(area rect.Rect, clear bool) (rect.Rect, error) {
	area = area.Intersect(s.canvas.Rect())
	if area.Empty() {
		return rect.Rect{}, fmt.Errorf("%w: brush area outside the canvas", ErrInvalidArg)
	}

	cut := s.canvas.Crop(area.X, area.Y, area.W, area.H)
	brush := picture.New[uint32](area.W, area.H)
	picture.Blit(brush, cut, 0, 0, false)
	s.custom = brush
	s.logger.Debug("brush cut", "rect", area.Image())

	if !clear {
		return rect.Rect{}, nil
	}
	edited := s.canvas.Clone()
	return s.replace(edited, edited.Clear(area, s.background)), nil
}

// commit merges the overlay inside r into the canvas and clears it.
func (s *Session) commit(r rect.Rect) rect.Rect {
	if r.Empty() {
		return r
	}
	patch := diff.NewPatch(s.canvas, s.overlay, r)
	s.overlay.Clear(r, 0)
	return s.push(patch)
}

// replace records the change from the canvas to edited inside r and
// applies it.
func (s *Session) replace(edited *picture.Indexed, r rect.Rect) rect.Rect {
	if r.Empty() {
		return r
	}
	return s.push(diff.Patch{Rect: r, Delta: diff.MakeFull(s.canvas, edited, r)})
}

func (s *Session) push(patch diff.Patch) rect.Rect {
	if patch.Empty() {
		return rect.Rect{}
	}
	r := diff.Redo(s.canvas, patch)
	s.history = append(s.history[:s.applied], patch)
	s.applied = len(s.history)
	s.dirty = s.dirty.Unite(r)
	return r
}

// Undo reverts up to n edits and returns the area changed.
func (s *Session) Undo(n int) rect.Rect {
	var changed rect.Rect
	for ; n > 0 && s.applied > 0; n-- {
		s.applied--
		changed = changed.Unite(diff.Undo(s.canvas, s.history[s.applied]))
	}
	s.dirty = s.dirty.Unite(changed)
	return changed
}

// Redo re-applies up to n undone edits and returns the area changed.
func (s *Session) Redo(n int) rect.Rect {
	var changed rect.Rect
	for ; n > 0 && s.applied < len(s.history); n-- {
		changed = changed.Unite(diff.Redo(s.canvas, s.history[s.applied]))
		s.applied++
	}
	s.dirty = s.dirty.Unite(changed)
	return changed
}

func (s *Session) makeBrush(c uint32) *picture.Packed {
	w, h := max(s.brush.Width, 1), max(s.brush.Height, 1)
	switch s.brush.Shape {
	case "ellipse":
		return raster.EllipseBrush(w, h, c)
	case "square":
		return raster.RectBrush(w, h, c)
	}
	return nil
}

// overlayColor marks a palette index as drawn on the overlay. Index 0 stays
// opaque so it can be painted like any other colour.
func overlayColor(index uint8) uint32 {
	return picture.PackRGBA(index, 0, 0, 0xFF)
}

// colorize returns a copy of brush with every visible pixel set to c.
func colorize(brush *picture.Packed, c uint32) *picture.Packed {
	res := brush.Clone()
	pix := res.Pix()
	for i, v := range pix {
		if picture.Alpha(v) != 0 {
			pix[i] = c
		}
	}
	return res
}
