package buffer

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-kmeter/dsp/core"
	timestats "github.com/cwbudde/algo-kmeter/stats/time"
)

// Errors returned by Ring.
var (
	ErrInvalidChannels = errors.New("buffer: channel count must be positive")
	ErrInvalidLength   = errors.New("buffer: chunk length must be positive")
	ErrInvalidPreDelay = errors.New("buffer: pre-delay must not be negative")
	ErrChannelMismatch = errors.New("buffer: source channel mismatch")
)

// Ring is a planar multi-channel ring buffer delivering fixed-size chunks
// in FIFO order.
type Ring struct {
	channels int
	length   int
	preDelay int
	total    int

	data [][]float64

	// pos is the next write index; pending counts frames written since
	// the last complete chunk.
	pos     int
	pending int
}

// NewRing allocates a ring for chunks of length frames that can be read
// back with up to preDelay frames of delay.
func NewRing(channels, length, preDelay int) (*Ring, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if length <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	if preDelay < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPreDelay, preDelay)
	}

	total := length + preDelay

	return &Ring{
		channels: channels,
		length:   length,
		preDelay: preDelay,
		total:    total,
		data:     core.NewChannels(channels, total),
	}, nil
}

// Channels returns the number of channels.
func (r *Ring) Channels() int { return r.channels }

// Length returns the chunk length in frames.
func (r *Ring) Length() int { return r.length }

// PreDelay returns the maximum read delay in frames.
func (r *Ring) PreDelay() int { return r.preDelay }

// Clear zeroes all stored frames and rewinds the write position.
func (r *Ring) Clear() {
	core.ZeroChannels(r.data)
	r.pos = 0
	r.pending = 0
}

// Write appends the frames of src, a planar buffer with at least Channels
// channels of equal length. onChunk is called each time a full chunk has
// been written, before any later frame overwrites it; a non-nil error from
// onChunk stops the write and is returned. Frames written before the error
// stay in the ring.
func (r *Ring) Write(src [][]float64, onChunk func() error) error {
	if len(src) < r.channels {
		return fmt.Errorf("%w: need %d channels, got %d", ErrChannelMismatch, r.channels, len(src))
	}

	frames := len(src[0])
	for ch := 1; ch < r.channels; ch++ {
		if len(src[ch]) != frames {
			return fmt.Errorf("%w: channel %d has %d frames, want %d", ErrChannelMismatch, ch, len(src[ch]), frames)
		}
	}

	done := 0
	for done < frames {
		n := min(r.length-r.pending, r.total-r.pos, frames-done)

		for ch := 0; ch < r.channels; ch++ {
			copy(r.data[ch][r.pos:r.pos+n], src[ch][done:done+n])
		}

		r.pending += n
		r.pos = (r.pos + n) % r.total
		done += n

		if r.pending == r.length {
			r.pending = 0
			if onChunk != nil {
				if err := onChunk(); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// CopyChunk copies the n frames that end preDelay frames before the
// newest frame into dst[ch][0:n] for every channel.
func (r *Ring) CopyChunk(dst [][]float64, n, preDelay int) {
	for ch := 0; ch < r.channels; ch++ {
		seg := r.segments(ch, n, preDelay)
		first := copy(dst[ch][:n], seg[0])
		copy(dst[ch][first:n], seg[1])
	}
}

// Sample returns the frame of channel ch that is age frames older than the
// newest frame after skipping preDelay frames. age 0 is the newest frame.
func (r *Ring) Sample(ch, age, preDelay int) float64 {
	r.checkRead(age+1, preDelay)
	return r.data[ch][r.wrap(r.pos-1-age-preDelay)]
}

// Magnitude returns the largest absolute value among the n frames that
// end preDelay frames before the newest frame.
func (r *Ring) Magnitude(ch, n, preDelay int) float64 {
	seg := r.segments(ch, n, preDelay)
	return max(timestats.Peak(seg[0]), timestats.Peak(seg[1]))
}

// RMSLevel returns the root mean square of the same n frames Magnitude
// reads. It returns 0 for n == 0.
func (r *Ring) RMSLevel(ch, n, preDelay int) float64 {
	seg := r.segments(ch, n, preDelay)
	if n == 0 {
		return 0
	}

	return math.Sqrt((timestats.SumSquares(seg[0]) + timestats.SumSquares(seg[1])) / float64(n))
}

// CountOverflows returns how many of the same n frames exceed threshold in
// absolute value.
func (r *Ring) CountOverflows(ch, n, preDelay int, threshold float64) int {
	seg := r.segments(ch, n, preDelay)
	return timestats.CountOverflows(seg[0], threshold) + timestats.CountOverflows(seg[1], threshold)
}

// segments returns the n frames ending preDelay frames before the newest
// one as at most two contiguous slices, oldest first.
func (r *Ring) segments(ch, n, preDelay int) [2][]float64 {
	r.checkRead(n, preDelay)

	src := r.data[ch]
	start := r.wrap(r.pos - n - preDelay)
	first := min(n, r.total-start)

	return [2][]float64{src[start : start+first], src[:n-first]}
}

func (r *Ring) checkRead(n, preDelay int) {
	if n < 0 || n > r.length {
		panic(fmt.Sprintf("buffer: read of %d frames outside chunk length %d", n, r.length))
	}
	if preDelay < 0 || preDelay > r.preDelay {
		panic(fmt.Sprintf("buffer: pre-delay %d outside [0, %d]", preDelay, r.preDelay))
	}
}

func (r *Ring) wrap(i int) int {
	i %= r.total
	if i < 0 {
		i += r.total
	}
	return i
}
