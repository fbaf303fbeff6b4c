// Package signal renders deterministic calibration signals for the meters:
// sine tones, white and pink noise and silence.
package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/cwbudde/algo-kmeter/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// DefaultFrequency is the calibration tone of BS.1770 and the K-System.
const DefaultFrequency = 997.0

var (
	// ErrInvalidLength is returned for a non-positive sample count.
	ErrInvalidLength = errors.New("signal: sample count must be positive")
	// ErrInvalidLevel is returned for a negative amplitude or RMS target.
	ErrInvalidLevel = errors.New("signal: level must not be negative")
	// ErrInvalidSampleRate is returned when a tone needs a sample rate.
	ErrInvalidSampleRate = errors.New("signal: sample rate must be positive")
	// ErrEmptyInput is returned when rescaling an empty signal.
	ErrEmptyInput = errors.New("signal: input is empty")
)

// Kind names a calibration signal.
type Kind int

const (
	KindSine Kind = iota
	KindPink
	KindWhite
	KindSilence
)

func (k Kind) String() string {
	switch k {
	case KindSine:
		return "sine"
	case KindPink:
		return "pink"
	case KindWhite:
		return "noise"
	case KindSilence:
		return "silence"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the names printed by Kind.String plus "white".
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "tone":
		return KindSine, nil
	case "pink":
		return KindPink, nil
	case "noise", "white":
		return KindWhite, nil
	case "silence", "none":
		return KindSilence, nil
	default:
		return 0, fmt.Errorf("signal: unknown kind %q", name)
	}
}

// Generator renders signals at a fixed sample rate.
type Generator struct {
	cfg       core.ProcessorConfig
	seed      int64
	frequency float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the noise seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithFrequency sets the tone frequency used by Render.
func WithFrequency(hz float64) Option {
	return func(g *Generator) {
		if hz > 0 {
			g.frequency = hz
		}
	}
}

// NewGenerator creates a generator with seed 1 and a 997 Hz tone.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions is NewGenerator with generator options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:       core.ApplyProcessorOptions(coreOpts...),
		seed:      1,
		frequency: DefaultFrequency,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Config returns the processor configuration.
func (g *Generator) Config() core.ProcessorConfig { return g.cfg }

// Seed returns the noise seed.
func (g *Generator) Seed() int64 { return g.seed }

// SetSeed changes the seed of subsequent noise.
func (g *Generator) SetSeed(seed int64) { g.seed = seed }

// Frequency returns the tone frequency used by Render.
func (g *Generator) Frequency() float64 { return g.frequency }

// Render returns samples of kind at levelDB dBFS. Tones are levelled by
// their peak, noise by its RMS.
func (g *Generator) Render(kind Kind, levelDB float64, samples int) ([]float64, error) {
	level := core.DBToLinear(levelDB)

	switch kind {
	case KindSine:
		return g.Sine(g.frequency, level, samples)
	case KindPink:
		return g.PinkNoise(level, samples)
	case KindWhite:
		x, err := g.WhiteNoise(1, samples)
		if err != nil {
			return nil, err
		}

		return ScaleToRMS(x, level)
	case KindSilence:
		if samples <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidLength, samples)
		}

		return make([]float64, samples), nil
	default:
		return nil, fmt.Errorf("signal: unknown kind %v", kind)
	}
}

// Sine renders a tone starting at phase 0.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	return g.SinePhase(freqHz, amplitude, 0, samples)
}

// SinePhase renders a tone starting at phase radians.
func (g *Generator) SinePhase(freqHz, amplitude, phase float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, samples)
	}
	if !(g.cfg.SampleRate > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, g.cfg.SampleRate)
	}

	w := 2 * math.Pi * freqHz / g.cfg.SampleRate

	out := make([]float64, samples)
	for n := range out {
		out[n] = amplitude * math.Sin(w*float64(n)+phase)
	}

	return out, nil
}

// WhiteNoise renders uniform noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if err := checkNoise(amplitude, samples); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(g.seed))

	out := make([]float64, samples)
	for n := range out {
		out[n] = amplitude * (2*rng.Float64() - 1)
	}

	return out, nil
}

// PinkNoise renders noise falling 3 dB per octave with the given RMS.
// Uniform white noise runs through Paul Kellet's refined filter, which is
// within 0.05 dB of the ideal slope above 9 Hz at 44.1 kHz.
func (g *Generator) PinkNoise(rms float64, samples int) ([]float64, error) {
	if err := checkNoise(rms, samples); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(g.seed))

	var p pinkFilter
	out := make([]float64, samples)
	for n := range out {
		out[n] = p.next(2*rng.Float64() - 1)
	}

	return ScaleToRMS(out, rms)
}

func checkNoise(level float64, samples int) error {
	if samples <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, samples)
	}
	if level < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, level)
	}

	return nil
}

// pinkFilter is a bank of six leaky integrators plus a one-sample delay.
type pinkFilter struct {
	b [7]float64
}

func (p *pinkFilter) next(white float64) float64 {
	b := &p.b
	b[0] = 0.99886*b[0] + white*0.0555179
	b[1] = 0.99332*b[1] + white*0.0750759
	b[2] = 0.96900*b[2] + white*0.1538520
	b[3] = 0.86650*b[3] + white*0.3104856
	b[4] = 0.55000*b[4] + white*0.5329522
	b[5] = -0.7616*b[5] - white*0.0168980

	out := b[0] + b[1] + b[2] + b[3] + b[4] + b[5] + b[6] + white*0.5362
	b[6] = white * 0.115926

	return out
}

// Normalize returns a copy of data scaled to the given peak.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, targetPeak)
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	out := append([]float64(nil), data...)
	rescale(out, vecmath.MaxAbs(out), targetPeak)

	return out, nil
}

// ScaleToRMS scales data in place to the given RMS and returns it.
func ScaleToRMS(data []float64, targetRMS float64) ([]float64, error) {
	if targetRMS < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, targetRMS)
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	rms := math.Sqrt(vecmath.DotProduct(data, data) / float64(len(data)))
	rescale(data, rms, targetRMS)

	return data, nil
}

// rescale multiplies x by target/level; a silent input or target gives
// silence.
func rescale(x []float64, level, target float64) {
	if level == 0 || target == 0 {
		clear(x)
		return
	}

	vecmath.ScaleBlockInPlace(x, target/level)
}
