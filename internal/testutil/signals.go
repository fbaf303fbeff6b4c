// Package testutil holds deterministic test signals and tolerance
// assertions shared by the meter tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns length samples of a sine starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	return PhasedSine(freqHz, sampleRate, amplitude, 0, length)
}

// PhasedSine returns length samples of a sine starting at phase radians.
func PhasedSine(freqHz, sampleRate, amplitude, phase float64, length int) []float64 {
	w := 2 * math.Pi * freqHz / sampleRate

	out := make([]float64, length)
	for n := range out {
		out[n] = amplitude * math.Sin(w*float64(n)+phase)
	}

	return out
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude].
// Equal seeds give equal noise.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewSource(seed))

	out := make([]float64, length)
	for n := range out {
		out[n] = amplitude * (2*rng.Float64() - 1)
	}

	return out
}

// Impulse returns a unit impulse at pos; pos outside the signal yields
// silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC returns length samples of value.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for n := range out {
		out[n] = value
	}

	return out
}

// Ones is DC(1, n).
func Ones(n int) []float64 { return DC(1, n) }

// Replicate builds a planar buffer holding channels independent copies
// of signal.
func Replicate(signal []float64, channels int) [][]float64 {
	planar := make([][]float64, channels)
	for ch := range planar {
		planar[ch] = append([]float64(nil), signal...)
	}

	return planar
}

// Chunk views frames [start, start+n) of every channel. The result shares
// memory with planar.
func Chunk(planar [][]float64, start, n int) [][]float64 {
	view := make([][]float64, len(planar))
	for ch := range planar {
		view[ch] = planar[ch][start : start+n]
	}

	return view
}
