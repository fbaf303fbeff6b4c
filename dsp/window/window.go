// Package window generates the cosine-sum windows that taper
// windowed-sinc kernels.
//
// A window of type t and length N is
//
//	w[n] = sum_k a_k cos(2*pi*k*n/D)
//
// with D = N-1 for the symmetric form used by filter kernels and D = N for
// the periodic form used for FFT framing.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type selects a cosine-sum window.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeBlackman
	TypeExactBlackman
	TypeBlackmanHarris
)

var (
	// ErrEmpty is returned for an empty coefficient slice.
	ErrEmpty = errors.New("window: no coefficients")
	// ErrZeroSum is returned when the coefficients sum to zero.
	ErrZeroSum = errors.New("window: coefficients sum to zero")
)

// terms lists a_0, a_1, ... of each window.
var terms = map[Type][]float64{
	TypeRectangular:    {1},
	TypeHann:           {0.5, -0.5},
	TypeBlackman:       {0.42, -0.5, 0.08},
	TypeExactBlackman:  {7938.0 / 18608, -9240.0 / 18608, 1430.0 / 18608},
	TypeBlackmanHarris: {0.35875, -0.48829, 0.14128, -0.01168},
}

// sidelobes holds the highest sidelobe level in dB.
var sidelobes = map[Type]float64{
	TypeRectangular:    -13.3,
	TypeHann:           -31.5,
	TypeBlackman:       -58.1,
	TypeExactBlackman:  -68.2,
	TypeBlackmanHarris: -92.0,
}

func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "Rectangular"
	case TypeHann:
		return "Hann"
	case TypeBlackman:
		return "Blackman"
	case TypeExactBlackman:
		return "Exact Blackman"
	case TypeBlackmanHarris:
		return "Blackman-Harris"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// HighestSidelobe returns the level of the largest sidelobe in dB, or 0
// for an unknown type.
func (t Type) HighestSidelobe() float64 {
	return sidelobes[t]
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic selects the periodic form.
func WithPeriodic() Option {
	return func(c *config) { c.periodic = true }
}

// Generate returns the window of the given length. Unknown types give a
// rectangular window; a non-positive length gives nil.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	a, ok := terms[t]
	if !ok {
		a = terms[TypeRectangular]
	}

	span := float64(length - 1)
	if cfg.periodic {
		span = float64(length)
	}

	w := make([]float64, length)
	for n := range w {
		phase := 0.0
		if span > 0 {
			phase = 2 * math.Pi * float64(n) / span
		}

		for k, ak := range a {
			w[n] += ak * math.Cos(float64(k)*phase)
		}
	}

	return w
}

// Apply tapers buf in place.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// EquivalentNoiseBandwidth returns the ENBW of w in bins.
func EquivalentNoiseBandwidth(w []float64) (float64, error) {
	if len(w) == 0 {
		return 0, ErrEmpty
	}

	sum := vecmath.Sum(w)
	if sum == 0 {
		return 0, ErrZeroSum
	}

	return float64(len(w)) * vecmath.DotProduct(w, w) / (sum * sum), nil
}
