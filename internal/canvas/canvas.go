// Package canvas provides the in-memory RGB raster that scenes are drawn on.
//
// A Canvas owns its pixel buffer. Stages that need to diverge from a canvas
// must Clone it first; no two components hold the same buffer at once.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Canvas is a width x height grid of 8-bit RGB samples. Alpha is always
// opaque.
type Canvas struct {
	img *image.RGBA
}

// New returns a canvas of the given size filled with bg. Non-positive
// dimensions are raised to 1.
func New(size image.Point, bg color.RGBA) *Canvas {
	w, h := max(size.X, 1), max(size.Y, 1)
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	c.Fill(bg)
	return c
}

// FromImage copies src into a new canvas anchored at the origin, dropping
// any transparency against black.
func FromImage(src image.Image) *Canvas {
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Over)
	return &Canvas{img: img}
}

func (c *Canvas) Width() int  { return c.img.Rect.Dx() }
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// Size returns the canvas dimensions as a point.
func (c *Canvas) Size() image.Point { return c.img.Rect.Size() }

// Bounds returns the canvas rectangle, always anchored at (0,0).
func (c *Canvas) Bounds() image.Rectangle { return c.img.Rect }

// Image exposes the backing raster for encoding and bulk pixel stages.
// Callers must not retain it past the canvas's owner handing it on.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Clone returns a deep copy; the two canvases share no memory.
func (c *Canvas) Clone() *Canvas {
	img := &image.RGBA{
		Pix:    make([]uint8, len(c.img.Pix)),
		Stride: c.img.Stride,
		Rect:   c.img.Rect,
	}
	copy(img.Pix, c.img.Pix)
	return &Canvas{img: img}
}

// RGB returns the samples at (x, y). Out-of-bounds reads return zeros.
func (c *Canvas) RGB(x, y int) (r, g, b uint8) {
	if !(image.Point{x, y}).In(c.img.Rect) {
		return 0, 0, 0
	}
	i := c.img.PixOffset(x, y)
	return c.img.Pix[i], c.img.Pix[i+1], c.img.Pix[i+2]
}

// Set writes an opaque colour at (x, y); out-of-bounds writes are ignored.
func (c *Canvas) Set(x, y int, col color.RGBA) {
	if !(image.Point{x, y}).In(c.img.Rect) {
		return
	}
	i := c.img.PixOffset(x, y)
	c.img.Pix[i], c.img.Pix[i+1], c.img.Pix[i+2], c.img.Pix[i+3] = col.R, col.G, col.B, 0xff
}

// Fill paints the whole canvas.
func (c *Canvas) Fill(col color.RGBA) {
	c.FillRect(c.img.Rect, col)
}

// Equal reports whether two canvases have the same size and samples.
func (c *Canvas) Equal(o *Canvas) bool {
	if c.img.Rect != o.img.Rect {
		return false
	}
	for y := 0; y < c.Height(); y++ {
		a := c.img.Pix[y*c.img.Stride : y*c.img.Stride+c.Width()*4]
		b := o.img.Pix[y*o.img.Stride : y*o.img.Stride+o.Width()*4]
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// Clamp rounds v to the nearest integer and saturates it to [0,255].
func Clamp(v float64) uint8 {
	v = math.Round(v)
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
