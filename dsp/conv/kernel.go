package conv

import (
	"math"

	"github.com/cwbudde/algo-kmeter/dsp/window"
)

// WindowedSincLowpass returns a Blackman-windowed sinc low-pass kernel with
// length taps, normalised for unity gain at DC.
//
// relativeCutoff is the cutoff frequency divided by the sample rate. The
// sinc is centred at (length-1)/2; when that position is a whole sample
// the centre tap takes the limit value 2*pi*relativeCutoff.
//
// Returns nil when length is not positive.
func WindowedSincLowpass(length int, relativeCutoff float64) []float64 {
	if length <= 0 {
		return nil
	}

	kernel := window.Generate(window.TypeBlackman, length)
	center := float64(length-1) / 2
	omega := 2 * math.Pi * relativeCutoff

	sum := 0.0
	for i := range kernel {
		x := float64(i) - center
		if x == 0 {
			kernel[i] *= omega
		} else {
			kernel[i] *= math.Sin(omega*x) / x
		}
		sum += kernel[i]
	}

	if sum != 0 {
		for i := range kernel {
			kernel[i] /= sum
		}
	}

	return kernel
}
