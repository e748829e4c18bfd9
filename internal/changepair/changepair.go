// Package changepair derives a changed "after" image from a composed
// "before" image for change-detection fixtures.
//
// The effects pipeline runs separately on each image, so the two carry
// independent noise and blur draws. Pixels outside the injected regions
// therefore differ too. Change-detection code exercised with these pairs has
// to tolerate sensor noise unless the pipeline has noise and blur disabled.
package changepair

import (
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/bagtoad/scenegen/internal/canvas"
	"github.com/bagtoad/scenegen/internal/effects"
	"github.com/bagtoad/scenegen/internal/palette"
	"github.com/bagtoad/scenegen/internal/terrain"
)

// ChangePair is a before/after raster pair of identical size.
type ChangePair struct {
	Mode   terrain.Mode
	Before *canvas.Canvas
	After  *canvas.Canvas
	// Changes are the canvas-clipped bounding boxes of the injected edits.
	Changes []image.Rectangle
}

// Synthesizer produces change pairs using one effects pipeline for both
// images.
type Synthesizer struct {
	Effects effects.Pipeline
}

// New returns a Synthesizer that post-processes with p.
func New(p effects.Pipeline) *Synthesizer {
	return &Synthesizer{Effects: p}
}

// Synthesize composes a scene, runs it through the effects pipeline to get
// the before image, then edits a deep copy according to the scene's mode
// and runs the pipeline again with fresh draws to get the after image.
func (s *Synthesizer) Synthesize(rng *rand.Rand, mode terrain.Mode, size image.Point) *ChangePair {
	scene := terrain.Compose(rng, mode, size)
	before := s.Effects.Apply(rng, scene.Canvas)

	after := before.Clone()
	changes := InjectChanges(rng, scene.Mode, after)
	after = s.Effects.Apply(rng, after)

	return &ChangePair{
		Mode:    scene.Mode,
		Before:  before,
		After:   after,
		Changes: changes,
	}
}

// InjectChanges draws the class-conditional edits for mode onto c in place
// and returns their clipped bounding boxes. Only boxes whose pixels actually
// changed are returned; if no edit changed anything, a small patch in a
// contrasting colour is painted at the origin so at least one box is
// always visible.
func InjectChanges(rng *rand.Rand, mode terrain.Mode, c *canvas.Canvas) []image.Rectangle {
	w, h := c.Width(), c.Height()
	orig := c.Clone()
	var changes []image.Rectangle
	record := func(r image.Rectangle) {
		if r = r.Intersect(c.Bounds()); !r.Empty() {
			changes = append(changes, r)
		}
	}

	switch mode {
	case terrain.Urban:
		// New construction.
		for range between(rng, 2, 4) {
			x, y := between(rng, 0, w-60), between(rng, 0, h-60)
			bw, bh := between(rng, 40, 60), between(rng, 40, 60)
			r := canvas.Box(x, y, x+bw, y+bh)
			c.FillRect(r, palette.ChangeRed)
			c.StrokeRect(r, palette.Outline)
			record(r)
		}
	case terrain.Vegetation:
		// Clear-cutting.
		for range between(rng, 1, 3) {
			x, y := between(rng, 0, w-80), between(rng, 0, h-80)
			bw, bh := between(rng, 60, 80), between(rng, 60, 80)
			r := canvas.Box(x, y, x+bw, y+bh)
			c.FillRect(r, palette.Furrow)
			record(r)
		}
	default:
		// Water, agricultural, mixed and anything else get a generic
		// structural marker, shrunk to fit canvases smaller than it.
		for range between(rng, 1, 3) {
			x, y := between(rng, 0, w-50), between(rng, 0, h-50)
			d := min(between(rng, 20, 40), w-1-x, h-1-y)
			r := canvas.Box(x, y, x+d, y+d)
			c.FillEllipse(r, palette.ChangeYellow)
			record(r)
		}
	}

	visible := changes[:0]
	for _, r := range changes {
		if differs(orig, c, r) {
			visible = append(visible, r)
		}
	}
	if len(visible) == 0 {
		r := canvas.Box(0, 0, min(w, 4)-1, min(h, 4)-1)
		c.FillRect(r, contrast(c, r.Min))
		visible = append(visible, r)
	}
	return visible
}

// contrast returns a change colour that differs from the pixel at p.
func contrast(c *canvas.Canvas, p image.Point) color.RGBA {
	r, g, b := c.RGB(p.X, p.Y)
	if red := palette.ChangeRed; r != red.R || g != red.G || b != red.B {
		return red
	}
	return palette.ChangeYellow
}

func differs(a, b *canvas.Canvas, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			ar, ag, ab := a.RGB(x, y)
			br, bg, bb := b.RGB(x, y)
			if ar != br || ag != bg || ab != bb {
				return true
			}
		}
	}
	return false
}

func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}
