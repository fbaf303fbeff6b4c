package core

// denormalThreshold is roughly -400 dBFS.
const denormalThreshold = 1e-20

// Clamp limits value to [lo, hi]; swapped bounds are accepted.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	return min(max(value, lo), hi)
}

// FlushDenormals returns 0 for |x| below about -400 dBFS. IIR feedback
// decaying towards silence would otherwise run through subnormal numbers.
func FlushDenormals(x float64) float64 {
	if x > -denormalThreshold && x < denormalThreshold {
		return 0
	}

	return x
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
