// Package dataset assembles the fixed set of fixture images into an output
// directory.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bagtoad/scenegen/internal/canvas"
	"github.com/bagtoad/scenegen/internal/changepair"
	"github.com/bagtoad/scenegen/internal/effects"
	"github.com/bagtoad/scenegen/internal/rasterio"
	"github.com/bagtoad/scenegen/internal/terrain"
)

// Logical image names, without extension.
const (
	SingleImage = "single_image"
	PairBefore  = "image_pair_1"
	PairAfter   = "image_pair_2"
)

// BatchModes and ExtraModes fix the scene for batch_image_N and
// extra_image_N, in order.
var (
	BatchModes = []terrain.Mode{terrain.Vegetation, terrain.Water, terrain.Agricultural}
	ExtraModes = []terrain.Mode{terrain.Urban, terrain.Mixed}
)

// BatchName returns the logical name of the i-th (1-based) batch image.
func BatchName(i int) string { return fmt.Sprintf("batch_image_%d", i) }

// ExtraName returns the logical name of the i-th (1-based) extra image.
func ExtraName(i int) string { return fmt.Sprintf("extra_image_%d", i) }

// RequiredNames lists the images the analysis-service tests depend on.
func RequiredNames() []string {
	names := []string{SingleImage, PairBefore, PairAfter}
	for i := range BatchModes {
		names = append(names, BatchName(i+1))
	}
	return names
}

// FileName joins a logical name and an extension such as ".jpg".
func FileName(name, ext string) string { return name + ext }

// ErrNothingWritten is returned when every image in a run failed.
var ErrNothingWritten = errors.New("no images could be written")

// Options configures an Assembler.
type Options struct {
	Size          image.Point
	Encoder       rasterio.Encoder
	Effects       effects.Pipeline
	Seed          uint64
	WriteManifest bool
}

// DefaultOptions returns 512x512 JPEG fixtures at quality 90 with the
// default effects.
func DefaultOptions() Options {
	return Options{
		Size:    image.Pt(512, 512),
		Encoder: rasterio.DefaultEncoder(),
		Effects: effects.DefaultPipeline(),
	}
}

// Assembler generates a dataset. It owns its random generator and must not
// be used from more than one goroutine at a time.
type Assembler struct {
	opts  Options
	rng   *rand.Rand
	synth *changepair.Synthesizer
	log   zerolog.Logger
}

// New returns an Assembler seeded from opts.Seed.
func New(opts Options, log zerolog.Logger) *Assembler {
	return &Assembler{
		opts:  opts,
		rng:   rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5eed5eed5eed5eed)),
		synth: changepair.New(opts.Effects),
		log:   log.With().Str("component", "dataset").Logger(),
	}
}

// Assemble writes, in order, the mixed single image, the urban change pair,
// the three batch images and the two extra images into dir, creating dir if
// needed and overwriting existing files.
//
// A file that cannot be written is logged, recorded on its manifest entry
// and skipped; the rest of the run continues. The returned error is non-nil
// only when dir cannot be created, ctx is cancelled, or nothing could be
// written. The manifest holds everything attempted before that point.
func (a *Assembler) Assemble(ctx context.Context, dir string) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create output directory %q: %w", dir, err)
	}

	m := &Manifest{
		RunID:  uuid.New().String(),
		Dir:    dir,
		Width:  a.opts.Size.X,
		Height: a.opts.Size.Y,
		Format: a.opts.Encoder.Format.String(),
		Seed:   a.opts.Seed,
	}
	log := a.log.With().Str("run_id", m.RunID).Logger()
	log.Info().Str("dir", dir).Int("width", m.Width).Int("height", m.Height).Msg("generating dataset")

	write := func(name string, mode terrain.Mode, c *canvas.Canvas) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.add(a.writeImage(log, dir, name, mode, c))
		return nil
	}

	if err := write(SingleImage, terrain.Mixed, a.scene(terrain.Mixed)); err != nil {
		return m, err
	}

	pair := a.synth.Synthesize(a.rng, terrain.Urban, a.opts.Size)
	if err := write(PairBefore, pair.Mode, pair.Before); err != nil {
		return m, err
	}
	if err := write(PairAfter, pair.Mode, pair.After); err != nil {
		return m, err
	}

	for i, mode := range BatchModes {
		if err := write(BatchName(i+1), mode, a.scene(mode)); err != nil {
			return m, err
		}
	}
	for i, mode := range ExtraModes {
		if err := write(ExtraName(i+1), mode, a.scene(mode)); err != nil {
			return m, err
		}
	}

	if len(m.Written()) == 0 {
		return m, ErrNothingWritten
	}

	if a.opts.WriteManifest {
		if err := m.Save(filepath.Join(dir, ManifestFile)); err != nil {
			log.Warn().Err(err).Msg("manifest not saved")
		}
	}

	log.Info().Int("files", len(m.Written())).Int("failed", len(m.Failed())).
		Int64("bytes", m.TotalBytes).Msg("dataset complete")
	return m, nil
}

// scene composes one mode and runs it through the effects pipeline.
func (a *Assembler) scene(mode terrain.Mode) *canvas.Canvas {
	s := terrain.Compose(a.rng, mode, a.opts.Size)
	return a.opts.Effects.Apply(a.rng, s.Canvas)
}

func (a *Assembler) writeImage(log zerolog.Logger, dir, name string, mode terrain.Mode, c *canvas.Canvas) Entry {
	path := filepath.Join(dir, FileName(name, a.opts.Encoder.Ext()))
	e := Entry{Name: name, Path: path, Mode: mode.String()}

	n, err := a.opts.Encoder.WriteFile(path, c.Image())
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("skipping image")
		e.Error = err.Error()
		return e
	}
	e.Bytes = n
	log.Debug().Str("file", path).Str("mode", e.Mode).Int64("bytes", n).Msg("saved")
	return e
}
