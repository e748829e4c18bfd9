// Package config resolves generator settings from flags, an optional YAML
// file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/bagtoad/scenegen/internal/dataset"
	"github.com/bagtoad/scenegen/internal/effects"
	"github.com/bagtoad/scenegen/internal/rasterio"
)

// ErrInvalidSize is returned for non-positive or malformed image sizes.
var ErrInvalidSize = errors.New("invalid image size")

// Config holds every tunable of a generation run.
type Config struct {
	OutputDir       string  `yaml:"output_dir"`
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Format          string  `yaml:"format"`
	Quality         int     `yaml:"quality"`
	Seed            uint64  `yaml:"seed"`
	NoiseSigma      float64 `yaml:"noise_sigma"`
	BlurProbability float64 `yaml:"blur_probability"`
	BlurSigma       float64 `yaml:"blur_sigma"`
	WriteManifest   bool    `yaml:"write_manifest"`
	LogLevel        string  `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		OutputDir:       "test_data",
		Width:           512,
		Height:          512,
		Format:          "jpg",
		Quality:         rasterio.DefaultQuality,
		NoiseSigma:      effects.DefaultNoiseSigma,
		BlurProbability: effects.DefaultBlurProbability,
		BlurSigma:       effects.DefaultBlurSigma,
		LogLevel:        "info",
	}
}

// Flag names shared by BindFlags and Resolve.
const (
	FlagOutputDir = "output-dir"
	FlagSize      = "size"
	FlagFormat    = "format"
	FlagQuality   = "quality"
	FlagSeed      = "seed"
	FlagNoise     = "noise"
	FlagBlurProb  = "blur-probability"
	FlagBlurSigma = "blur-sigma"
	FlagManifest  = "manifest"
	FlagLogLevel  = "log-level"
)

// BindFlags registers the configuration flags with their default values.
func BindFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.StringP(FlagOutputDir, "o", d.OutputDir, "Output directory")
	flags.StringP(FlagSize, "s", fmt.Sprintf("%dx%d", d.Width, d.Height), "Image size as WIDTHxHEIGHT")
	flags.String(FlagFormat, d.Format, "Output format: jpg, png, bmp, tiff or gif")
	flags.Int(FlagQuality, d.Quality, "JPEG quality (1-100)")
	flags.Uint64(FlagSeed, 0, "Random seed (0 picks one from the clock)")
	flags.Float64(FlagNoise, d.NoiseSigma, "Standard deviation of the Gaussian sensor noise")
	flags.Float64(FlagBlurProb, d.BlurProbability, "Probability of applying the atmospheric blur (0.0-1.0)")
	flags.Float64(FlagBlurSigma, d.BlurSigma, "Sigma of the atmospheric blur")
	flags.Bool(FlagManifest, d.WriteManifest, "Also write manifest.yaml into the output directory")
	flags.String(FlagLogLevel, d.LogLevel, "Log level: debug, info, warn, error")
}

// DefaultPath returns ~/.scenegen/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".scenegen", "config.yaml"), nil
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current values. A missing file is not an error unless
// required is set.
func LoadFile(path string, cfg *Config, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("cannot parse config file %s: %w", path, err)
	}
	return nil
}

// Resolve returns the effective configuration.
// Priority: flags set on the command line > config file > defaults.
// If path is empty the default config file is used when it exists.
func Resolve(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()

	required := path != ""
	if !required {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := LoadFile(path, &cfg, required); err != nil {
			return Config{}, err
		}
	}

	if flags != nil {
		if err := applyFlags(flags, &cfg); err != nil {
			return Config{}, err
		}
	}

	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFlags(flags *pflag.FlagSet, cfg *Config) error {
	var err error
	set := func(name string, apply func() error) {
		if err == nil && flags.Changed(name) {
			err = apply()
		}
	}

	set(FlagOutputDir, func() (e error) { cfg.OutputDir, e = flags.GetString(FlagOutputDir); return })
	set(FlagSize, func() error {
		s, e := flags.GetString(FlagSize)
		if e != nil {
			return e
		}
		size, e := ParseSize(s)
		if e != nil {
			return e
		}
		cfg.Width, cfg.Height = size.X, size.Y
		return nil
	})
	set(FlagFormat, func() (e error) { cfg.Format, e = flags.GetString(FlagFormat); return })
	set(FlagQuality, func() (e error) { cfg.Quality, e = flags.GetInt(FlagQuality); return })
	set(FlagSeed, func() (e error) { cfg.Seed, e = flags.GetUint64(FlagSeed); return })
	set(FlagNoise, func() (e error) { cfg.NoiseSigma, e = flags.GetFloat64(FlagNoise); return })
	set(FlagBlurProb, func() (e error) { cfg.BlurProbability, e = flags.GetFloat64(FlagBlurProb); return })
	set(FlagBlurSigma, func() (e error) { cfg.BlurSigma, e = flags.GetFloat64(FlagBlurSigma); return })
	set(FlagManifest, func() (e error) { cfg.WriteManifest, e = flags.GetBool(FlagManifest); return })
	set(FlagLogLevel, func() (e error) { cfg.LogLevel, e = flags.GetString(FlagLogLevel); return })
	return err
}

// ParseSize parses "WIDTHxHEIGHT", "WIDTH,HEIGHT" or "WIDTH HEIGHT".
func ParseSize(s string) (image.Point, error) {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == 'x' || r == ',' || r == ' '
	})
	if len(fields) != 2 {
		return image.Point{}, fmt.Errorf("%w: %q (want WIDTHxHEIGHT)", ErrInvalidSize, s)
	}
	w, err := strconv.Atoi(fields[0])
	if err != nil {
		return image.Point{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	h, err := strconv.Atoi(fields[1])
	if err != nil {
		return image.Point{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	if w <= 0 || h <= 0 {
		return image.Point{}, fmt.Errorf("%w: %dx%d must be positive", ErrInvalidSize, w, h)
	}
	return image.Pt(w, h), nil
}

// Validate checks ranges and the output format.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d must be positive", ErrInvalidSize, c.Width, c.Height)
	}
	if c.OutputDir == "" {
		return errors.New("output directory must not be empty")
	}
	if _, err := rasterio.NewEncoder(c.Format, c.Quality); err != nil {
		return err
	}
	for name, v := range map[string]float64{
		"noise sigma":      c.NoiseSigma,
		"blur probability": c.BlurProbability,
		"blur sigma":       c.BlurSigma,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number, got %g", name, v)
		}
	}
	if c.NoiseSigma < 0 {
		return fmt.Errorf("noise sigma must not be negative, got %g", c.NoiseSigma)
	}
	if c.BlurProbability < 0 || c.BlurProbability > 1 {
		return fmt.Errorf("blur probability must be between 0 and 1, got %g", c.BlurProbability)
	}
	if c.BlurSigma < 0 {
		return fmt.Errorf("blur sigma must not be negative, got %g", c.BlurSigma)
	}
	return nil
}

// Size returns the image size.
func (c Config) Size() image.Point { return image.Pt(c.Width, c.Height) }

// Encoder returns the raster encoder for the configured format.
func (c Config) Encoder() (rasterio.Encoder, error) {
	return rasterio.NewEncoder(c.Format, c.Quality)
}

// Effects returns the effects pipeline parameters.
func (c Config) Effects() effects.Pipeline {
	return effects.Pipeline{
		NoiseSigma:      c.NoiseSigma,
		BlurProbability: c.BlurProbability,
		BlurSigma:       c.BlurSigma,
	}
}

// AssemblerOptions converts the configuration into dataset options.
func (c Config) AssemblerOptions() (dataset.Options, error) {
	enc, err := c.Encoder()
	if err != nil {
		return dataset.Options{}, err
	}
	return dataset.Options{
		Size:          c.Size(),
		Encoder:       enc,
		Effects:       c.Effects(),
		Seed:          c.Seed,
		WriteManifest: c.WriteManifest,
	}, nil
}
