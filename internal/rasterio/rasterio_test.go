package rasterio

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 4), uint8(y * 4), 90, 255})
		}
	}
	return img
}

func TestWriteFileEveryFormat(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"jpg", "png", "bmp", "tiff", "gif"} {
		t.Run(name, func(t *testing.T) {
			enc, err := NewEncoder(name, DefaultQuality)
			require.NoError(t, err)

			path := filepath.Join(dir, "img"+enc.Ext())
			n, err := enc.WriteFile(path, testImage(40, 30))
			require.NoError(t, err)

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, info.Size(), n)
			assert.Positive(t, n)

			cfg, _, err := DecodeConfig(path)
			require.NoError(t, err)
			assert.Equal(t, 40, cfg.Width)
			assert.Equal(t, 30, cfg.Height)
		})
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	enc, err := NewEncoder(".png", DefaultQuality)
	require.NoError(t, err)

	_, err = enc.WriteFile(path, testImage(60, 60))
	require.NoError(t, err)
	_, err = enc.WriteFile(path, testImage(10, 5))
	require.NoError(t, err)

	img, err := Decode(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 5), img.Bounds())
}

func TestWriteFileUnwritableDir(t *testing.T) {
	_, err := DefaultEncoder().WriteFile("/nonexistent/dir/12345/out.jpg", testImage(2, 2))
	assert.Error(t, err)
}

func TestNewEncoderRejects(t *testing.T) {
	_, err := NewEncoder("webp", 90)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = NewEncoder("jpg", 0)
	assert.Error(t, err)
	_, err = NewEncoder("jpg", 101)
	assert.Error(t, err)
}

func TestDefaultEncoder(t *testing.T) {
	enc := DefaultEncoder()
	assert.Equal(t, imaging.JPEG, enc.Format)
	assert.Equal(t, 90, enc.Quality)
	assert.Equal(t, ".jpg", enc.Ext())
}

func TestDecodeConfigGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))
	_, _, err := DecodeConfig(path)
	assert.Error(t, err)
}
