// Package effects applies the sensor-noise and atmospheric-blur stages to a
// finished canvas.
package effects

import (
	"math/rand/v2"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/bagtoad/scenegen/internal/canvas"
)

const (
	DefaultNoiseSigma      = 8.0
	DefaultBlurProbability = 0.5
	DefaultBlurSigma       = 0.5
)

// Pipeline holds the stage parameters. A NoiseSigma of 0 skips the noise
// stage and a BlurProbability of 0 never blurs.
type Pipeline struct {
	NoiseSigma      float64
	BlurProbability float64
	BlurSigma       float64
}

// DefaultPipeline returns the parameters used for generated fixtures.
func DefaultPipeline() Pipeline {
	return Pipeline{
		NoiseSigma:      DefaultNoiseSigma,
		BlurProbability: DefaultBlurProbability,
		BlurSigma:       DefaultBlurSigma,
	}
}

// Apply runs noise injection then the optional blur and returns a new
// canvas. src is left untouched.
func (p Pipeline) Apply(rng *rand.Rand, src *canvas.Canvas) *canvas.Canvas {
	out := p.addNoise(rng, src)
	if p.BlurProbability > 0 && p.BlurSigma > 0 && rng.Float64() < p.BlurProbability {
		out = canvas.FromImage(imaging.Blur(out.Image(), p.BlurSigma))
	}
	return out
}

// addNoise adds an independent zero-mean Gaussian sample to every colour
// channel and saturates the sum to [0,255].
func (p Pipeline) addNoise(rng *rand.Rand, src *canvas.Canvas) *canvas.Canvas {
	out := src.Clone()
	if p.NoiseSigma <= 0 {
		return out
	}
	noise := distuv.Normal{Mu: 0, Sigma: p.NoiseSigma, Src: rng}

	img := out.Image()
	w, h := out.Width(), out.Height()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			row[i+0] = canvas.Clamp(float64(row[i+0]) + noise.Rand())
			row[i+1] = canvas.Clamp(float64(row[i+1]) + noise.Rand())
			row[i+2] = canvas.Clamp(float64(row[i+2]) + noise.Rand())
		}
	}
	return out
}
