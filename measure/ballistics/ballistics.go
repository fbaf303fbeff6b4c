package ballistics

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-kmeter/dsp/core"
	"github.com/cwbudde/algo-kmeter/measure/loudness"
)

// MeterMinimumDecibel is the floor of every level reading.
const MeterMinimumDecibel = loudness.MinimumDecibel

const (
	releaseDecibels = 26.0
	releaseSeconds  = 3.0
	holdSeconds     = 10.0

	averageInertia = 0.6
	stereoInertia  = 1.2

	// infiniteHold marks a hold timer that never advances.
	infiniteHold = -1.0
)

// ErrInvalidChannels is returned for a non-positive channel count.
var ErrInvalidChannels = errors.New("ballistics: channel count must be positive")

// LevelToDecibel converts a linear level to dB, clamped to
// [MeterMinimumDecibel].
func LevelToDecibel(level float64) float64 {
	return core.FloorDB(core.LinearToDB(level), MeterMinimumDecibel)
}

// DecibelToLevel converts dB to a linear level.
func DecibelToLevel(db float64) float64 {
	return core.DBToLinear(db)
}

// Config defines configuration for a Meter.
type Config struct {
	Algorithm           loudness.Algorithm
	PeakInfiniteHold    bool
	AverageInfiniteHold bool
}

// Option mutates a Config.
type Option func(*Config)

// WithAlgorithm selects the averaging algorithm whose presentation rules
// the accessors follow.
func WithAlgorithm(a loudness.Algorithm) Option {
	return func(cfg *Config) {
		cfg.Algorithm = a.Normalize()
	}
}

// WithPeakInfiniteHold keeps peak and true-peak hold marks until reset.
func WithPeakInfiniteHold(hold bool) Option {
	return func(cfg *Config) {
		cfg.PeakInfiniteHold = hold
	}
}

// WithAverageInfiniteHold keeps average hold marks until reset.
func WithAverageInfiniteHold(hold bool) Option {
	return func(cfg *Config) {
		cfg.AverageInfiniteHold = hold
	}
}

// holdMark is a peak mark with the time it has been held for.
type holdMark struct {
	level float64
	timer float64
}

type channel struct {
	peak         float64
	peakHold     holdMark
	peakMax      float64
	average      float64
	averageHold  holdMark
	truePeak     float64
	truePeakHold holdMark
	truePeakMax  float64
	overflows    int
}

// Meter holds the ballistic readings of every channel plus the stereo
// balance and phase correlation of a channel pair.
type Meter struct {
	algorithm loudness.Algorithm
	channels  []channel

	stereo      float64
	correlation float64
}

// New creates a meter for the given number of channels with all readings
// at their reset values. Defaults to the BS.1770 algorithm.
func New(channels int, opts ...Option) (*Meter, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	cfg := Config{Algorithm: loudness.AlgorithmITUBS1770}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	m := &Meter{
		algorithm: cfg.Algorithm,
		channels:  make([]channel, channels),
	}
	m.SetPeakMeterInfiniteHold(cfg.PeakInfiniteHold)
	m.SetAverageMeterInfiniteHold(cfg.AverageInfiniteHold)
	m.Reset()

	return m, nil
}

// Channels returns the number of channels.
func (m *Meter) Channels() int { return len(m.channels) }

// Algorithm returns the averaging algorithm the accessors present.
func (m *Meter) Algorithm() loudness.Algorithm { return m.algorithm }

// SetAlgorithm changes the presentation rules. Unknown values select
// BS.1770.
func (m *Meter) SetAlgorithm(a loudness.Algorithm) {
	m.algorithm = a.Normalize()
}

// Reset puts every level at the floor, clears overflow counters, centres
// the stereo balance and sets the phase correlation to +1. Hold modes are
// kept.
func (m *Meter) Reset() {
	m.correlation = 1
	m.stereo = 0

	for i := range m.channels {
		c := &m.channels[i]
		c.peak = MeterMinimumDecibel
		c.peakHold.level = MeterMinimumDecibel
		c.average = MeterMinimumDecibel
		c.averageHold.level = MeterMinimumDecibel
		c.truePeak = MeterMinimumDecibel
		c.truePeakHold.level = MeterMinimumDecibel
		c.peakMax = MeterMinimumDecibel
		c.truePeakMax = MeterMinimumDecibel
		c.overflows = 0
	}
}

// SetPeakMeterInfiniteHold switches the peak and true-peak hold marks
// between infinite hold and falling after 10 seconds.
func (m *Meter) SetPeakMeterInfiniteHold(hold bool) {
	timer := holdTimer(hold)
	for i := range m.channels {
		m.channels[i].peakHold.timer = timer
		m.channels[i].truePeakHold.timer = timer
	}
}

// SetAverageMeterInfiniteHold switches the average hold marks between
// infinite hold and falling after 10 seconds.
func (m *Meter) SetAverageMeterInfiniteHold(hold bool) {
	timer := holdTimer(hold)
	for i := range m.channels {
		m.channels[i].averageHold.timer = timer
	}
}

func holdTimer(infinite bool) float64 {
	if infinite {
		return infiniteHold
	}

	return 0
}

// UpdateChannel applies one block of measurements to channel ch. dt is
// the block duration in seconds, peak and truePeak are linear levels,
// averageDB is the filtered average level in dB and overflows the number
// of overflowing samples in the block.
func (m *Meter) UpdateChannel(ch int, dt, peak, truePeak, averageDB float64, overflows int) {
	c := &m.channels[ch]
	dt = sanitizeTime(dt)

	peakDB := LevelToDecibel(peak)
	truePeakDB := LevelToDecibel(truePeak)
	averageDB = core.FloorDB(averageDB, MeterMinimumDecibel)

	c.peakMax = math.Max(c.peakMax, peakDB)
	c.truePeakMax = math.Max(c.truePeakMax, truePeakDB)

	c.peak = peakBallistics(dt, peakDB, c.peak)
	c.peakHold.update(dt, peakDB)

	c.truePeak = peakBallistics(dt, truePeakDB, c.truePeak)
	c.truePeakHold.update(dt, truePeakDB)

	c.average = logBallistics(averageInertia, dt, averageDB, c.average)
	c.averageHold.update(dt, c.average)

	if overflows > 0 {
		c.overflows += overflows
	}
}

// SetStereoMeterValue smooths a new stereo balance value in [-1, 1] into
// the readout. Ignored unless the meter has exactly two channels.
func (m *Meter) SetStereoMeterValue(dt, value float64) {
	if len(m.channels) != 2 || math.IsNaN(value) {
		return
	}

	m.stereo = logBallistics(stereoInertia, sanitizeTime(dt), core.Clamp(value, -1, 1), m.stereo)
}

// SetPhaseCorrelation smooths a new phase correlation value in [-1, 1]
// into the readout. Ignored unless the meter has exactly two channels.
func (m *Meter) SetPhaseCorrelation(dt, value float64) {
	if len(m.channels) != 2 || math.IsNaN(value) {
		return
	}

	m.correlation = logBallistics(stereoInertia, sanitizeTime(dt), core.Clamp(value, -1, 1), m.correlation)
}

func sanitizeTime(dt float64) float64 {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return 0
	}

	return dt
}

// peakBallistics attacks instantly and releases linearly in dB.
func peakBallistics(dt, current, old float64) float64 {
	if current >= old {
		return current
	}

	return math.Max(current, old-releaseDecibels*dt/releaseSeconds)
}

// update moves the mark to current when it rises. Otherwise the mark is
// held for holdSeconds and released like the peak meter afterwards.
// Marks never exceed 0 dB.
func (h *holdMark) update(dt, current float64) {
	current = math.Min(current, 0)

	if current >= h.level {
		if h.timer >= 0 {
			h.timer = 0
		}

		h.level = current

		return
	}

	if h.timer >= 0 {
		h.timer += dt
	}

	if h.timer < holdSeconds {
		return
	}

	h.level = math.Max(current, h.level-releaseDecibels*dt/releaseSeconds)
}

// logBallistics moves readout towards level, covering 99% of the distance
// within inertia seconds.
func logBallistics(inertia, dt, level, readout float64) float64 {
	if level == readout || dt == 0 {
		return readout
	}

	return inertiaCoefficient(dt, inertia)*(readout-level) + level
}
