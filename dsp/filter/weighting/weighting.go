package weighting

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-kmeter/dsp/filter/biquad"
)

// Analog prototype of the BS.1770 pre-filter (high shelf).
const (
	preGainHigh = 1.584864701130855
	preGainLow  = 1.0
	preQ        = 0.7071752369554196
	preFreq     = 1681.974450955533
)

// Analog prototype of the RLB high-pass.
const (
	rlbQ    = 0.5003270373238773
	rlbFreq = 38.13547087602444
)

// Type identifies a frequency weighting curve.
type Type int

const (
	// TypeK is the K-weighting of ITU-R BS.1770 (pre-filter followed by
	// the RLB high-pass).
	TypeK Type = iota

	// TypeZ applies no frequency weighting (unity gain at all frequencies).
	TypeZ
)

// String returns a human-readable name for the weighting type.
func (t Type) String() string {
	switch t {
	case TypeK:
		return "K"
	case TypeZ:
		return "Z"
	default:
		return "Unknown"
	}
}

var (
	// ErrInvalidSampleRate is returned for a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("weighting: sample rate must be positive")
	// ErrUnknownType is returned for an unsupported weighting curve.
	ErrUnknownType = errors.New("weighting: unknown type")
)

// New returns a cascade applying curve t to channels channels at
// sampleRate. K-weighting flushes denormals after each section.
func New(t Type, sampleRate float64, channels int) (*biquad.Cascade, error) {
	if !(sampleRate > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	switch t {
	case TypeK:
		return biquad.NewCascade(KCoefficients(sampleRate), channels, biquad.WithDenormalFlush())
	case TypeZ:
		return biquad.NewCascade([]biquad.Coefficients{{B0: 1}}, channels)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownType, t)
	}
}

// KCoefficients returns the two K-weighting sections (pre-filter, RLB) for
// sampleRate.
func KCoefficients(sampleRate float64) []biquad.Coefficients {
	return []biquad.Coefficients{
		PreFilter(sampleRate),
		RLB(sampleRate),
	}
}

// PreFilter returns the high-shelf stage of the K-weighting.
func PreFilter(sampleRate float64) biquad.Coefficients {
	gainBand := math.Sqrt(preGainHigh)

	k := math.Tan(math.Pi * preFreq / sampleRate)
	k2 := k * k
	a0 := 1 + k/preQ + k2

	return biquad.Coefficients{
		B0: (preGainLow*k2 + gainBand*k/preQ + preGainHigh) / a0,
		B1: 2 * (preGainLow*k2 - preGainHigh) / a0,
		B2: (preGainLow*k2 - gainBand*k/preQ + preGainHigh) / a0,
		A1: 2 * (k2 - 1) / a0,
		A2: (k2 - k/preQ + 1) / a0,
	}
}

// RLB returns the high-pass stage of the K-weighting. Its numerator is
// the unnormalized (1, -2, 1), which leaves a pass-band gain of about
// +0.04 dB at 48 kHz.
func RLB(sampleRate float64) biquad.Coefficients {
	k := math.Tan(math.Pi * rlbFreq / sampleRate)
	k2 := k * k
	a0 := 1 + k/rlbQ + k2

	return biquad.Coefficients{
		B0: 1,
		B1: -2,
		B2: 1,
		A1: 2 * (k2 - 1) / a0,
		A2: (k2 - k/rlbQ + 1) / a0,
	}
}
