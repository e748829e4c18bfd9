// Package rasterio encodes canvases to image files and reads image headers
// back.
package rasterio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultQuality is the JPEG quality used for fixtures.
const DefaultQuality = 90

// ErrUnsupportedFormat is returned for output formats we cannot encode.
var ErrUnsupportedFormat = errors.New("unsupported raster format")

var extensions = map[imaging.Format]string{
	imaging.JPEG: ".jpg",
	imaging.PNG:  ".png",
	imaging.GIF:  ".gif",
	imaging.TIFF: ".tiff",
	imaging.BMP:  ".bmp",
}

// Encoder writes images in one format.
type Encoder struct {
	Format  imaging.Format
	Quality int // JPEG only
}

// DefaultEncoder returns a JPEG encoder at DefaultQuality.
func DefaultEncoder() Encoder {
	return Encoder{Format: imaging.JPEG, Quality: DefaultQuality}
}

// NewEncoder parses a format name or extension ("jpg", ".png", "tiff", ...)
// and validates the quality.
func NewEncoder(format string, quality int) (Encoder, error) {
	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return Encoder{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if quality < 1 || quality > 100 {
		return Encoder{}, fmt.Errorf("quality must be between 1 and 100, got %d", quality)
	}
	return Encoder{Format: f, Quality: quality}, nil
}

// Ext returns the file extension, with leading dot, for the encoder format.
func (e Encoder) Ext() string {
	return extensions[e.Format]
}

// WriteFile encodes img to path, replacing any existing file, and returns
// the number of bytes written.
func (e Encoder) WriteFile(path string, img image.Image) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("cannot create %s: %w", path, err)
	}

	cw := &countingWriter{w: f}
	bw := bufio.NewWriter(cw)
	if err := imaging.Encode(bw, img, e.Format, imaging.JPEGQuality(e.Quality)); err != nil {
		f.Close()
		return 0, fmt.Errorf("cannot encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return 0, fmt.Errorf("cannot write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("cannot close %s: %w", path, err)
	}
	return cw.n, nil
}

// DecodeConfig reads only the header of the image at path.
func DecodeConfig(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("cannot open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("cannot decode image header: %w", err)
	}
	return cfg, format, nil
}

// Decode loads the full image at path.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}
	return img, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
