package truepeak

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-kmeter/dsp/core"
	"github.com/cwbudde/algo-kmeter/dsp/resample"
	timestats "github.com/cwbudde/algo-kmeter/stats/time"
)

// OverflowThreshold is the oversampled magnitude above which a sample
// counts as a true-peak overflow.
const OverflowThreshold = 0.9807

var (
	// ErrInvalidChannels is returned for a non-positive channel count.
	ErrInvalidChannels = errors.New("truepeak: channel count must be positive")
	// ErrBlockMismatch is returned when CopyFrom receives a block of the
	// wrong shape.
	ErrBlockMismatch = errors.New("truepeak: block shape does not match detector")
)

// Config defines configuration for a Detector.
type Config struct {
	core.ProcessorConfig
	Channels int
}

// Option mutates a Config.
type Option func(*Config)

// WithSampleRate sets the sample rate, which selects the oversampling
// factor.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the number of samples per block.
func WithBlockSize(blockSize int) Option {
	return func(cfg *Config) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithChannels sets the number of channels. NewDetector rejects a
// non-positive count.
func WithChannels(channels int) Option {
	return func(cfg *Config) {
		cfg.Channels = channels
	}
}

// Detector measures the true peak of fixed-size blocks.
type Detector struct {
	cfg Config

	up        *resample.Upsampler
	levels    []float64
	overflows []int
}

// NewDetector creates a true-peak detector. Defaults to two channels at
// the default processor sample rate and block size.
func NewDetector(opts ...Option) (*Detector, error) {
	cfg := Config{
		ProcessorConfig: core.DefaultProcessorConfig(),
		Channels:        2,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.Channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, cfg.Channels)
	}

	d := &Detector{
		cfg:       cfg,
		levels:    make([]float64, cfg.Channels),
		overflows: make([]int, cfg.Channels),
	}
	if err := d.rebuild(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Detector) rebuild() error {
	up, err := resample.NewUpsampler(d.cfg.Channels, d.cfg.BlockSize, resample.OversamplingFactor(d.cfg.SampleRate))
	if err != nil {
		return fmt.Errorf("truepeak: %w", err)
	}

	d.up = up

	return nil
}

// Channels returns the number of channels.
func (d *Detector) Channels() int { return d.cfg.Channels }

// SampleRate returns the current sample rate in Hz.
func (d *Detector) SampleRate() float64 { return d.cfg.SampleRate }

// Factor returns the current oversampling factor.
func (d *Detector) Factor() int { return d.up.Factor() }

// SetSampleRate adapts the detector to a new sample rate. The
// interpolator is rebuilt when the oversampling factor changes; its
// history and the last readings are cleared on any rate change.
func (d *Detector) SetSampleRate(sampleRate float64) error {
	if !(sampleRate > 0) {
		return fmt.Errorf("truepeak: invalid sample rate %v", sampleRate)
	}

	if sampleRate == d.cfg.SampleRate {
		return nil
	}

	d.cfg.SampleRate = sampleRate

	if resample.OversamplingFactor(sampleRate) != d.up.Factor() {
		if err := d.rebuild(); err != nil {
			return err
		}
	}

	d.Reset()

	return nil
}

// Reset clears the interpolator history and the last readings.
func (d *Detector) Reset() {
	d.up.Reset()

	for ch := range d.levels {
		d.levels[ch] = 0
		d.overflows[ch] = 0
	}
}

// CopyFrom oversamples one block (BlockSize samples per channel) and
// updates the true-peak level and overflow count of every channel.
func (d *Detector) CopyFrom(block [][]float64) error {
	if len(block) != d.cfg.Channels {
		return fmt.Errorf("%w: got %d channels, want %d", ErrBlockMismatch, len(block), d.cfg.Channels)
	}

	for ch, src := range block {
		out, err := d.up.Process(ch, src)
		if err != nil {
			return fmt.Errorf("truepeak: channel %d: %w", ch, err)
		}

		d.levels[ch] = timestats.Peak(out)
		d.overflows[ch] = timestats.CountOverflows(out, OverflowThreshold)
	}

	return nil
}

// Level returns the linear true-peak level of channel ch for the last
// block.
func (d *Detector) Level(ch int) float64 {
	return d.levels[ch]
}

// Overflows returns the number of oversampled values of channel ch in the
// last block whose magnitude exceeded [OverflowThreshold].
func (d *Detector) Overflows(ch int) int {
	return d.overflows[ch]
}
