package config

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestResolveDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Resolve("", newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "test_data", cfg.OutputDir)
	assert.Equal(t, image.Pt(512, 512), cfg.Size())
	assert.Equal(t, 90, cfg.Quality)
	assert.NotZero(t, cfg.Seed, "seed is drawn from the clock")

	enc, err := cfg.Encoder()
	require.NoError(t, err)
	assert.Equal(t, imaging.JPEG, enc.Format)
	assert.Equal(t, 8.0, cfg.Effects().NoiseSigma)
}

func TestResolvePriority(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, t.TempDir(), "output_dir: from_file\nwidth: 300\nheight: 200\nquality: 70\nseed: 5\n")

	cfg, err := Resolve(path, newFlags(t, "--quality", "80"))
	require.NoError(t, err)

	assert.Equal(t, "from_file", cfg.OutputDir, "file beats default")
	assert.Equal(t, image.Pt(300, 200), cfg.Size())
	assert.Equal(t, 80, cfg.Quality, "flag beats file")
	assert.Equal(t, uint64(5), cfg.Seed)
	assert.Equal(t, "jpg", cfg.Format, "untouched keys keep defaults")
}

func TestResolveUsesHomeConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".scenegen")
	require.NoError(t, os.MkdirAll(dir, 0755))
	writeConfig(t, dir, "format: png\nwrite_manifest: true\n")

	cfg, err := Resolve("", newFlags(t, "-o", "out", "-s", "64x32", "--seed", "9"))
	require.NoError(t, err)
	assert.Equal(t, "png", cfg.Format)
	assert.True(t, cfg.WriteManifest)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, image.Pt(64, 32), cfg.Size())

	opts, err := cfg.AssemblerOptions()
	require.NoError(t, err)
	assert.Equal(t, ".png", opts.Encoder.Ext())
	assert.Equal(t, uint64(9), opts.Seed)
	assert.True(t, opts.WriteManifest)
}

func TestResolveExplicitMissingFile(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestResolveBadYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "width: [1, 2\n")
	_, err := Resolve(path, nil)
	assert.Error(t, err)
}

func TestResolveRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Resolve("", newFlags(t, "--size", "0x10"))
	assert.True(t, errors.Is(err, ErrInvalidSize))

	_, err = Resolve("", newFlags(t, "--format", "webp"))
	assert.Error(t, err)

	_, err = Resolve("", newFlags(t, "--blur-probability", "1.5"))
	assert.Error(t, err)

	_, err = Resolve("", newFlags(t, "--noise", "-1"))
	assert.Error(t, err)
}

func TestResolveRejectsNonFiniteEffects(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	for _, flag := range []string{"--noise", "--blur-probability", "--blur-sigma"} {
		for _, v := range []string{"NaN", "+Inf"} {
			_, err := Resolve("", newFlags(t, flag, v))
			assert.Error(t, err, "%s %s", flag, v)
		}
	}

	path := writeConfig(t, t.TempDir(), "noise_sigma: .nan\n")
	_, err := Resolve(path, nil)
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	for in, want := range map[string]image.Point{
		"512x512": {512, 512},
		"640X480": {640, 480},
		"100,50":  {100, 50},
		"7 3":     {7, 3},
	} {
		got, err := ParseSize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "512", "ax b", "-1x5", "5x0", "1x2x3"} {
		_, err := ParseSize(bad)
		assert.True(t, errors.Is(err, ErrInvalidSize), bad)
	}
}
