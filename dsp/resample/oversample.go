package resample

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-kmeter/dsp/conv"
	"github.com/cwbudde/algo-kmeter/dsp/core"
)

var (
	// ErrInvalidFactor indicates an oversampling factor that is not a
	// positive power of two.
	ErrInvalidFactor = errors.New("resample: invalid oversampling factor")
	// ErrLengthMismatch indicates an input block of the wrong length.
	ErrLengthMismatch = errors.New("resample: block length mismatch")
)

// OversamplingFactor returns the oversampling factor used for true-peak
// detection at sampleRate: 8 up to 88.2 kHz, 4 up to 176.4 kHz, else 2.
func OversamplingFactor(sampleRate float64) int {
	switch {
	case sampleRate <= 88200:
		return 8
	case sampleRate <= 176400:
		return 4
	default:
		return 2
	}
}

// Upsampler oversamples fixed-size blocks of several channels.
type Upsampler struct {
	blockSize int
	factor    int
	conv      *conv.BlockConvolver
}

// NewUpsampler creates an upsampler for blocks of blockSize samples.
// blockSize and factor must be positive powers of two.
func NewUpsampler(channels, blockSize, factor int) (*Upsampler, error) {
	if !core.IsPowerOfTwo(factor) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, factor)
	}

	c, err := conv.NewBlockConvolver(channels, blockSize*factor)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	if err := c.ComputeKernel(0.5 / float64(factor)); err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	return &Upsampler{
		blockSize: blockSize,
		factor:    factor,
		conv:      c,
	}, nil
}

// Factor returns the oversampling factor.
func (u *Upsampler) Factor() int { return u.factor }

// BlockSize returns the input block size.
func (u *Upsampler) BlockSize() int { return u.blockSize }

// OutputSize returns the number of samples produced per input block.
func (u *Upsampler) OutputSize() int { return u.blockSize * u.factor }

// Process oversamples src into channel ch and returns the oversampled
// block. The returned slice is owned by the upsampler and overwritten by
// the next call for the same channel.
func (u *Upsampler) Process(ch int, src []float64) ([]float64, error) {
	if len(src) != u.blockSize {
		return nil, fmt.Errorf("%w: expected %d samples, got %d", ErrLengthMismatch, u.blockSize, len(src))
	}

	dst := u.conv.Block(ch)
	core.Zero(dst)
	for i, x := range src {
		dst[i*u.factor] = x
	}

	if err := u.conv.Convolve(ch, float64(u.factor)); err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	return dst, nil
}

// Reset clears the interpolation filter state of all channels.
func (u *Upsampler) Reset() {
	u.conv.Reset()
}
