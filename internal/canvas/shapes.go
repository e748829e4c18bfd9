package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic Bézier control points so four arcs approximate an
// ellipse.
const kappa = 0.5522847498

// Box converts inclusive corner coordinates into a rectangle covering both
// corners. Corners may be given in any order.
func Box(x0, y0, x1, y1 int) image.Rectangle {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return image.Rect(x0, y0, x1+1, y1+1)
}

// FillRect paints r clipped to the canvas.
func (c *Canvas) FillRect(r image.Rectangle, col color.RGBA) {
	r = r.Canon().Intersect(c.img.Rect)
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// StrokeRect draws a one pixel border along the inside edge of r, clipped to
// the canvas.
func (c *Canvas) StrokeRect(r image.Rectangle, col color.RGBA) {
	r = r.Canon()
	if r.Empty() {
		return
	}
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), col)
	c.FillRect(image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), col)
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), col)
	c.FillRect(image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), col)
}

// FillEllipse paints the ellipse inscribed in r. Parts outside the canvas are
// clipped.
func (c *Canvas) FillEllipse(r image.Rectangle, col color.RGBA) {
	r = r.Canon()
	if r.Empty() || !r.Overlaps(c.img.Rect) {
		return
	}
	cx := float32(r.Min.X+r.Max.X) / 2
	cy := float32(r.Min.Y+r.Max.Y) / 2
	rx := float32(r.Dx()) / 2
	ry := float32(r.Dy()) / 2
	kx, ky := rx*kappa, ry*kappa

	z := c.rasterizer()
	z.MoveTo(cx+rx, cy)
	z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	z.ClosePath()
	c.paint(z, col)
}

// FillPolygon paints the closed polygon through pts using the non-zero
// winding rule. Fewer than three points draw nothing.
func (c *Canvas) FillPolygon(pts []image.Point, col color.RGBA) {
	if len(pts) < 3 {
		return
	}
	z := c.rasterizer()
	z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
	c.paint(z, col)
}

// Line strokes a straight segment of the given width between pixel centres
// p0 and p1. A degenerate segment paints a width-sized square.
func (c *Canvas) Line(p0, p1 image.Point, width int, col color.RGBA) {
	width = max(width, 1)
	ax, ay := float64(p0.X)+0.5, float64(p0.Y)+0.5
	bx, by := float64(p1.X)+0.5, float64(p1.Y)+0.5
	dx, dy := bx-ax, by-ay
	length := math.Hypot(dx, dy)
	half := float64(width) / 2
	if length == 0 {
		lo := int(math.Floor(ax - half))
		c.FillRect(image.Rect(lo, int(math.Floor(ay-half)), lo+width, int(math.Floor(ay-half))+width), col)
		return
	}
	nx, ny := -dy/length*half, dx/length*half

	z := c.rasterizer()
	z.MoveTo(float32(ax+nx), float32(ay+ny))
	z.LineTo(float32(bx+nx), float32(by+ny))
	z.LineTo(float32(bx-nx), float32(by-ny))
	z.LineTo(float32(ax-nx), float32(ay-ny))
	z.ClosePath()
	c.paint(z, col)
}

func (c *Canvas) rasterizer() *vector.Rasterizer {
	return vector.NewRasterizer(c.Width(), c.Height())
}

// paint composites col through the accumulated path coverage. The source is
// opaque, so edge pixels blend between col and what was already there and
// never leave [0,255].
func (c *Canvas) paint(z *vector.Rasterizer, col color.RGBA) {
	col.A = 0xff
	z.DrawOp = draw.Over
	z.Draw(c.img, c.img.Rect, image.NewUniform(col), image.Point{})
}
