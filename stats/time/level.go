// Package time measures blocks of audio in the time domain: the level
// readings a meter chunk feeds into ballistics, overflow counting and the
// stereo correlation and balance of a channel pair.
package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// OverflowThreshold flags samples that touch digital full scale.
const OverflowThreshold = 0.9999

// SumSquares is the energy of block, the sum of its squared samples.
func SumSquares(block []float64) float64 {
	if len(block) == 0 {
		return 0
	}

	return vecmath.DotProduct(block, block)
}

// MeanSquare is the average power of block; 0 when block is empty.
func MeanSquare(block []float64) float64 {
	n := len(block)
	if n == 0 {
		return 0
	}

	return SumSquares(block) / float64(n)
}

// RMS is the square root of MeanSquare.
func RMS(block []float64) float64 { return math.Sqrt(MeanSquare(block)) }

// Peak is the largest absolute sample of block.
func Peak(block []float64) float64 {
	if len(block) == 0 {
		return 0
	}

	return vecmath.MaxAbs(block)
}

// CountOverflows counts samples with |x| strictly above limit.
func CountOverflows(block []float64, limit float64) int {
	n := 0

	for _, x := range block {
		if x > limit || x < -limit {
			n++
		}
	}

	return n
}
