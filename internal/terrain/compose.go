package terrain

import (
	"image"
	"math/rand/v2"

	"github.com/bagtoad/scenegen/internal/canvas"
	"github.com/bagtoad/scenegen/internal/palette"
)

// Layout constants, in pixels.
const (
	gridCell      = 60
	coastStep     = 20
	coastJitter   = 20
	coastMargin   = 50
	mainRoadHalf  = 15
	minorRoadHalf = 5
	farmhouseSide = 30
)

// Scene is a composed canvas tagged with the mode that produced it.
type Scene struct {
	Mode   Mode
	Canvas *canvas.Canvas
}

// Compose draws a fresh scene of the given size. Every draw comes from rng,
// so equal seeds give equal scenes. Shapes that would leave the canvas are
// clipped; Compose never fails.
func Compose(rng *rand.Rand, mode Mode, size image.Point) *Scene {
	c := canvas.New(size, palette.Sky)
	area := c.Bounds()

	switch mode {
	case Urban:
		composeUrban(rng, c, area)
	case Vegetation:
		composeVegetation(rng, c, area)
	case Water:
		composeWater(rng, c, area)
	case Agricultural:
		composeAgricultural(rng, c, area)
	case Mixed:
		composeMixed(rng, c, area)
	default:
		// Unknown modes have always rendered as mixed rather than failing.
		mode = Mixed
		composeMixed(rng, c, area)
	}
	return &Scene{Mode: mode, Canvas: c}
}

// between returns a uniform integer in [lo, hi]. A collapsed range yields lo.
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

func composeUrban(rng *rand.Rand, c *canvas.Canvas, a image.Rectangle) {
	w, h := a.Dx(), a.Dy()
	c.FillRect(a, palette.UrbanGround)

	for range between(rng, 8, 15) {
		x := between(rng, 0, w-80)
		y := between(rng, 0, h-80)
		bw := between(rng, 40, 80)
		bh := between(rng, 40, 80)
		r := canvas.Box(x, y, x+bw, y+bh).Add(a.Min)
		c.FillRect(r, palette.Pick(rng, palette.Urban))
		c.StrokeRect(r, palette.Outline)
	}

	// Arterial roads through the centre, then three minor cross streets.
	cx, cy := a.Min.X+w/2, a.Min.Y+h/2
	c.FillRect(canvas.Box(a.Min.X, cy-mainRoadHalf, a.Max.X, cy+mainRoadHalf), palette.Pick(rng, palette.Road))
	c.FillRect(canvas.Box(cx-mainRoadHalf, a.Min.Y, cx+mainRoadHalf, a.Max.Y), palette.Pick(rng, palette.Road))
	for range 3 {
		y := a.Min.Y + between(rng, 50, h-50)
		c.FillRect(canvas.Box(a.Min.X, y-minorRoadHalf, a.Max.X, y+minorRoadHalf), palette.Pick(rng, palette.Road))
	}
}

func composeVegetation(rng *rand.Rand, c *canvas.Canvas, a image.Rectangle) {
	w, h := a.Dx(), a.Dy()
	c.FillRect(a, palette.Pick(rng, palette.Vegetation))

	for range between(rng, 15, 25) {
		x := between(rng, 0, w-40)
		y := between(rng, 0, h-40)
		d := between(rng, 15, 35)
		c.FillEllipse(canvas.Box(x, y, x+d, y+d).Add(a.Min), palette.Pick(rng, palette.Vegetation))
	}

	for range 2 {
		p0 := image.Pt(between(rng, 0, w), between(rng, 0, h)).Add(a.Min)
		p1 := image.Pt(between(rng, 0, w), between(rng, 0, h)).Add(a.Min)
		c.Line(p0, p1, between(rng, 3, 8), palette.Furrow)
	}
}

func composeWater(rng *rand.Rand, c *canvas.Canvas, a image.Rectangle) {
	w, h := a.Dx(), a.Dy()
	c.FillRect(a, palette.Pick(rng, palette.Water))

	for range between(rng, 2, 5) {
		x := between(rng, 50, w-100)
		y := between(rng, 50, h-100)
		iw := between(rng, 30, 80)
		ih := between(rng, 30, 80)
		c.FillEllipse(canvas.Box(x, y, x+iw, y+ih).Add(a.Min), palette.Pick(rng, palette.Soil))

		vx, vy := x+iw/4, y+ih/4
		c.FillEllipse(canvas.Box(vx, vy, vx+iw/2, vy+ih/2).Add(a.Min), palette.Pick(rng, palette.Vegetation))
	}

	var coast []image.Point
	for x := 0; x < w; x += coastStep {
		y := h - coastMargin + between(rng, -coastJitter, coastJitter)
		coast = append(coast, image.Pt(x, y).Add(a.Min))
	}
	if len(coast) >= 2 {
		coast = append(coast, a.Max, image.Pt(a.Min.X, a.Max.Y))
		c.FillPolygon(coast, palette.Pick(rng, palette.Soil))
	}
}

func composeAgricultural(rng *rand.Rand, c *canvas.Canvas, a image.Rectangle) {
	w, h := a.Dx(), a.Dy()

	for x := 0; x < w; x += gridCell {
		for y := 0; y < h; y += gridCell {
			cell := canvas.Box(x, y, x+gridCell, y+gridCell).Add(a.Min)
			c.FillRect(cell, palette.Pick(rng, palette.Agricultural))
		}
	}

	// Two pixel furrows straddle every grid line.
	for x := 0; x < w; x += gridCell {
		c.FillRect(image.Rect(x-1, 0, x+1, h).Add(a.Min), palette.Furrow)
	}
	for y := 0; y < h; y += gridCell {
		c.FillRect(image.Rect(0, y-1, w, y+1).Add(a.Min), palette.Furrow)
	}

	for range between(rng, 1, 3) {
		x := between(rng, 0, w-40)
		y := between(rng, 0, h-40)
		r := canvas.Box(x, y, x+farmhouseSide, y+farmhouseSide).Add(a.Min)
		c.FillRect(r, palette.Farmhouse)
		c.StrokeRect(r, palette.Outline)
	}
}

// composeMixed splits the canvas into quadrants: woodland top-left, built-up
// top-right, open water bottom-left and a field bottom-right, joined by two
// roads along the quadrant boundaries.
func composeMixed(rng *rand.Rand, c *canvas.Canvas, a image.Rectangle) {
	w, h := a.Dx(), a.Dy()
	qw, qh := w/2, h/2
	mid := a.Min.Add(image.Pt(qw, qh))

	c.FillRect(canvas.Box(a.Min.X, a.Min.Y, mid.X, mid.Y), palette.Pick(rng, palette.Vegetation))
	for range 5 {
		x := between(rng, 0, qw-20)
		y := between(rng, 0, qh-20)
		d := between(rng, 10, 20)
		c.FillEllipse(canvas.Box(x, y, x+d, y+d).Add(a.Min), palette.Pick(rng, palette.Vegetation))
	}

	c.FillRect(canvas.Box(mid.X, a.Min.Y, a.Max.X, mid.Y), palette.UrbanGround)
	for range 4 {
		x := between(rng, qw, w-30)
		y := between(rng, 0, qh-30)
		bw := between(rng, 20, 40)
		bh := between(rng, 20, 40)
		c.FillRect(canvas.Box(x, y, x+bw, y+bh).Add(a.Min), palette.Pick(rng, palette.Urban))
	}

	c.FillRect(canvas.Box(a.Min.X, mid.Y, mid.X, a.Max.Y), palette.Pick(rng, palette.Water))
	c.FillRect(canvas.Box(mid.X, mid.Y, a.Max.X, a.Max.Y), palette.FieldGold)

	c.FillRect(canvas.Box(mid.X-minorRoadHalf, a.Min.Y, mid.X+minorRoadHalf, a.Max.Y), palette.Pick(rng, palette.Road))
	c.FillRect(canvas.Box(a.Min.X, mid.Y-minorRoadHalf, a.Max.X, mid.Y+minorRoadHalf), palette.Pick(rng, palette.Road))
}
