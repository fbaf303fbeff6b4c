package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// SilenceThreshold is the RMS level (-80 dBFS) below which a channel is
// treated as silent by the stereo measurements.
const SilenceThreshold = 0.0001

// PhaseCorrelation returns the normalized cross-correlation
// sum(l*r) / sqrt(sum(l^2) * sum(r^2)) of two equally long channels, in
// [-1, 1]. When either channel carries no energy the result is +1: a
// silent channel is mono-compatible.
func PhaseCorrelation(left, right []float64) float64 {
	n := min(len(left), len(right))
	left, right = left[:n], right[:n]

	sumLR := vecmath.DotProduct(left, right)
	sumLL := vecmath.DotProduct(left, left)
	sumRR := vecmath.DotProduct(right, right)

	den := sumLL * sumRR
	if !(den > 0) {
		return 1
	}

	c := sumLR / math.Sqrt(den)
	switch {
	case c > 1:
		return 1
	case c < -1:
		return -1
	default:
		return c
	}
}

// StereoBalance returns the balance of two RMS levels in [-1, 1]:
// 0 when both are equal or both are below SilenceThreshold, positive when
// the right channel is louder (1 - L/R) and negative when the left one is
// (R/L - 1).
func StereoBalance(rmsLeft, rmsRight float64) float64 {
	switch {
	case rmsLeft < SilenceThreshold && rmsRight < SilenceThreshold:
		return 0
	case rmsRight >= rmsLeft:
		return 1 - rmsLeft/rmsRight
	default:
		return rmsRight/rmsLeft - 1
	}
}
