package loudness

import (
	"fmt"
	"strings"
)

// Algorithm selects how the average level is computed.
type Algorithm int

const (
	// AlgorithmRMS reports the RMS level of each channel.
	AlgorithmRMS Algorithm = iota

	// AlgorithmITUBS1770 reports ITU-R BS.1770 program loudness.
	AlgorithmITUBS1770

	numAlgorithms
)

// Valid reports whether a is a known algorithm.
func (a Algorithm) Valid() bool {
	return a >= AlgorithmRMS && a < numAlgorithms
}

// Normalize returns a, or [AlgorithmITUBS1770] for unknown values.
func (a Algorithm) Normalize() Algorithm {
	if !a.Valid() {
		return AlgorithmITUBS1770
	}

	return a
}

// String returns a human-readable name for the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmRMS:
		return "RMS"
	case AlgorithmITUBS1770:
		return "ITU-R BS.1770"
	default:
		return "Unknown"
	}
}

// ParseAlgorithm converts a name such as "rms" or "bs1770" into an
// Algorithm. Matching is case-insensitive.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rms":
		return AlgorithmRMS, nil
	case "bs1770", "itu", "itu-r bs.1770", "itu-bs1770", "lufs":
		return AlgorithmITUBS1770, nil
	default:
		return 0, fmt.Errorf("loudness: unknown algorithm %q", name)
	}
}
