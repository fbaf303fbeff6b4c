package conv

import (
	"errors"
	"math/bits"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput       = errors.New("conv: empty input")
	ErrEmptyKernel      = errors.New("conv: empty kernel")
	ErrInvalidBlockSize = errors.New("conv: invalid block size")
	ErrInvalidChannels  = errors.New("conv: invalid channel count")
	ErrInvalidCutoff    = errors.New("conv: relative cutoff must be in (0, 0.5]")
	ErrNoKernel         = errors.New("conv: kernel not computed")
)

// Direct returns the full linear convolution of x and h, of length
// len(x)+len(h)-1, computed in the time domain. It is the reference the
// FFT path is checked against.
func Direct(x, h []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if len(h) == 0 {
		return nil, ErrEmptyKernel
	}

	y := make([]float64, len(x)+len(h)-1)
	for n := range y {
		lo := max(0, n-len(h)+1)
		hi := min(n, len(x)-1)

		var acc float64
		for k := lo; k <= hi; k++ {
			acc += x[k] * h[n-k]
		}
		y[n] = acc
	}

	return y, nil
}

// nextPowerOf2 returns the smallest power of two >= n (1 for n <= 1).
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	return 1 << bits.Len(uint(n-1))
}
