package core

// NewChannels allocates channels planar buffers of length samples in one
// backing array. Each channel is capped at its own length, so appending
// to one never overwrites the next.
func NewChannels(channels, length int) [][]float64 {
	if channels <= 0 || length < 0 {
		return nil
	}

	backing := make([]float64, channels*length)

	planar := make([][]float64, channels)
	for ch := range planar {
		lo, hi := ch*length, (ch+1)*length
		planar[ch] = backing[lo:hi:hi]
	}

	return planar
}

// Zero clears buf.
func Zero(buf []float64) { clear(buf) }

// ZeroChannels clears every channel of a planar buffer.
func ZeroChannels(planar [][]float64) {
	for _, buf := range planar {
		clear(buf)
	}
}
