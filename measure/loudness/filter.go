package loudness

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-kmeter/dsp/conv"
	"github.com/cwbudde/algo-kmeter/dsp/core"
	"github.com/cwbudde/algo-kmeter/dsp/filter/biquad"
	"github.com/cwbudde/algo-kmeter/dsp/filter/weighting"
	timestats "github.com/cwbudde/algo-kmeter/stats/time"
)

const (
	// PeakToAverageCorrection is the level difference between the peak
	// and the RMS of a sine wave, 20*log10(sqrt(2)) dB.
	PeakToAverageCorrection = 3.0103

	// MinimumDecibel is the lowest level any meter reports: 70.01 dB of
	// dynamic range below the K-20 headroom and the RMS correction.
	MinimumDecibel = -(70.01 + 20.0 + PeakToAverageCorrection)

	// lowpassCutoff limits the measured bandwidth to the audible range.
	lowpassCutoff = 21000.0

	// bs1770Offset calibrates the K-weighted mean square to LKFS.
	bs1770Offset = -0.691

	surroundWeight = 1.41 * 1.41
)

var (
	// ErrInvalidChannels is returned for a non-positive channel count.
	ErrInvalidChannels = errors.New("loudness: channel count must be positive")
	// ErrBlockMismatch is returned when CopyFrom receives a block of the
	// wrong shape.
	ErrBlockMismatch = errors.New("loudness: block shape does not match filter")
)

// ChannelWeight returns the BS.1770 weight of a channel in the usual
// L, R, C, LFE, Ls, Rs order. The LFE and channels beyond the surround
// pair do not contribute.
func ChannelWeight(ch int) float64 {
	switch {
	case ch >= 0 && ch < 3:
		return 1
	case ch == 4 || ch == 5:
		return surroundWeight
	default:
		return 0
	}
}

// AverageFilter computes per-block average levels for a fixed number of
// channels.
type AverageFilter struct {
	cfg FilterConfig

	conv      *conv.BlockConvolver
	weighting *biquad.Cascade
	levels    []float64
}

// NewAverageFilter creates an average level filter. The block size must
// be a power of two.
func NewAverageFilter(opts ...FilterOption) (*AverageFilter, error) {
	cfg := ApplyFilterOptions(opts...)
	if cfg.Channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, cfg.Channels)
	}

	bc, err := conv.NewBlockConvolver(cfg.Channels, cfg.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("loudness: %w", err)
	}

	kw, err := weighting.New(weighting.TypeK, cfg.SampleRate, cfg.Channels)
	if err != nil {
		return nil, fmt.Errorf("loudness: %w", err)
	}

	f := &AverageFilter{
		cfg:       cfg,
		conv:      bc,
		weighting: kw,
		levels:    make([]float64, cfg.Channels),
	}

	if err := f.reconfigure(); err != nil {
		return nil, err
	}

	return f, nil
}

// Channels returns the number of channels.
func (f *AverageFilter) Channels() int { return f.cfg.Channels }

// BlockSize returns the number of samples per block.
func (f *AverageFilter) BlockSize() int { return f.cfg.BlockSize }

// SampleRate returns the current sample rate in Hz.
func (f *AverageFilter) SampleRate() float64 { return f.cfg.SampleRate }

// Algorithm returns the active averaging algorithm.
func (f *AverageFilter) Algorithm() Algorithm { return f.cfg.Algorithm }

// SetAlgorithm switches the averaging algorithm. Unknown values select
// BS.1770. Switching rebuilds the filters and clears all history.
func (f *AverageFilter) SetAlgorithm(a Algorithm) error {
	a = a.Normalize()
	if a == f.cfg.Algorithm {
		return nil
	}

	f.cfg.Algorithm = a

	return f.reconfigure()
}

// SetSampleRate recomputes the low-pass kernel and the K-weighting
// coefficients when the rate changes. All history is cleared.
func (f *AverageFilter) SetSampleRate(sampleRate float64) error {
	if !(sampleRate > 0) {
		return fmt.Errorf("loudness: invalid sample rate %v", sampleRate)
	}

	if sampleRate == f.cfg.SampleRate {
		return nil
	}

	f.cfg.SampleRate = sampleRate

	return f.reconfigure()
}

// Reset clears overlap and IIR history without recomputing filters.
func (f *AverageFilter) Reset() {
	f.conv.Reset()

	f.weighting.Reset()

	for ch := range f.levels {
		f.levels[ch] = MinimumDecibel
	}
}

func (f *AverageFilter) reconfigure() error {
	f.weighting.SetCoefficients(weighting.KCoefficients(f.cfg.SampleRate))

	cutoff := math.Min(lowpassCutoff/f.cfg.SampleRate, 0.5)
	if err := f.conv.ComputeKernel(cutoff); err != nil {
		return fmt.Errorf("loudness: %w", err)
	}

	f.Reset()

	return nil
}

// CopyFrom ingests one block (one slice of BlockSize samples per channel)
// and recomputes the levels of every channel.
func (f *AverageFilter) CopyFrom(block [][]float64) error {
	if len(block) != f.cfg.Channels {
		return fmt.Errorf("%w: got %d channels, want %d", ErrBlockMismatch, len(block), f.cfg.Channels)
	}

	for ch, src := range block {
		if len(src) != f.cfg.BlockSize {
			return fmt.Errorf("%w: channel %d has %d samples, want %d",
				ErrBlockMismatch, ch, len(src), f.cfg.BlockSize)
		}
	}

	bs1770 := f.cfg.Algorithm == AlgorithmITUBS1770

	for ch, src := range block {
		buf := f.conv.Block(ch)
		copy(buf, src)

		if bs1770 {
			f.weighting.ProcessBlock(ch, buf)
		}

		if err := f.conv.Convolve(ch, 1); err != nil {
			return fmt.Errorf("loudness: %w", err)
		}
	}

	if bs1770 {
		f.updateLoudness()
	} else {
		f.updateRMS()
	}

	return nil
}

func (f *AverageFilter) updateRMS() {
	for ch := range f.levels {
		db := core.LinearToDB(timestats.RMS(f.conv.Block(ch)))
		f.levels[ch] = core.FloorDB(db+PeakToAverageCorrection, MinimumDecibel)
	}
}

func (f *AverageFilter) updateLoudness() {
	var sum float64
	for ch := range f.levels {
		if w := ChannelWeight(ch); w != 0 {
			sum += w * timestats.MeanSquare(f.conv.Block(ch))
		}

		f.levels[ch] = MinimumDecibel
	}

	f.levels[0] = core.FloorDB(bs1770Offset+core.LinearPowerToDB(sum), MinimumDecibel)
}

// Level returns the average level of channel ch in dB, as computed by the
// last CopyFrom. In BS.1770 mode only channel 0 carries the program
// loudness; every other channel reads [MinimumDecibel].
func (f *AverageFilter) Level(ch int) float64 {
	return f.levels[ch]
}

// Block returns the filtered samples of channel ch from the last
// CopyFrom. The slice is overwritten by the next call.
func (f *AverageFilter) Block(ch int) []float64 {
	return f.conv.Block(ch)
}
