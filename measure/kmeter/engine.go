package kmeter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-kmeter/dsp/buffer"
	"github.com/cwbudde/algo-kmeter/dsp/core"
	"github.com/cwbudde/algo-kmeter/measure/ballistics"
	"github.com/cwbudde/algo-kmeter/measure/loudness"
	"github.com/cwbudde/algo-kmeter/measure/truepeak"
	timestats "github.com/cwbudde/algo-kmeter/stats/time"
)

// Supported sample rate range in Hz.
const (
	MinSampleRate = 44100.0
	MaxSampleRate = 192000.0
)

var (
	// ErrUnsupportedSampleRate is returned for rates outside
	// [MinSampleRate, MaxSampleRate].
	ErrUnsupportedSampleRate = errors.New("kmeter: unsupported sample rate")
	// ErrInvalidChannels is returned for a non-positive channel count.
	ErrInvalidChannels = errors.New("kmeter: channel count must be positive")
)

// ValidSampleRate reports whether the engine can run at sampleRate.
func ValidSampleRate(sampleRate float64) bool {
	return sampleRate >= MinSampleRate && sampleRate <= MaxSampleRate
}

// Engine meters multi-channel audio on the K-System scales.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	ring     *buffer.Ring
	average  *loudness.AverageFilter
	truePeak *truepeak.Detector
	meter    *ballistics.Meter

	// onChunk is bound once so Process does not allocate a method value.
	onChunk func() error

	// per-chunk scratch
	chunk     [][]float64
	delayed   [][]float64
	mix       [][]float64
	mixPiece  [][]float64
	peaks     []float64
	rms       []float64
	averages  []float64
	truePeaks []float64
	overflows []int

	truePeakOverflows []int

	playing bool
	elapsed float64
}

// NewEngine creates an engine. It fails for unsupported sample rates,
// non power-of-two chunk sizes and non-positive channel counts.
func NewEngine(opts ...Option) (*Engine, error) {
	cfg := ApplyOptions(opts...)

	if !ValidSampleRate(cfg.SampleRate) {
		return nil, fmt.Errorf("%w: %v Hz", ErrUnsupportedSampleRate, cfg.SampleRate)
	}
	if cfg.Channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, cfg.Channels)
	}
	if cfg.Mono && cfg.Channels != 2 {
		cfg.Logger.Warn("mono mix-down needs two channels, ignored", "channels", cfg.Channels)
		cfg.Mono = false
	}

	n := cfg.BlockSize

	ring, err := buffer.NewRing(cfg.Channels, n, n/2)
	if err != nil {
		return nil, fmt.Errorf("kmeter: %w", err)
	}

	average, err := loudness.NewAverageFilter(
		loudness.WithSampleRate(cfg.SampleRate),
		loudness.WithBlockSize(n),
		loudness.WithChannels(cfg.Channels),
		loudness.WithAlgorithm(cfg.Algorithm),
	)
	if err != nil {
		return nil, fmt.Errorf("kmeter: %w", err)
	}

	tp, err := truepeak.NewDetector(
		truepeak.WithSampleRate(cfg.SampleRate),
		truepeak.WithBlockSize(n),
		truepeak.WithChannels(cfg.Channels),
	)
	if err != nil {
		return nil, fmt.Errorf("kmeter: %w", err)
	}

	meter, err := ballistics.New(cfg.Channels,
		ballistics.WithAlgorithm(cfg.Algorithm),
		ballistics.WithPeakInfiniteHold(cfg.PeakInfiniteHold),
		ballistics.WithAverageInfiniteHold(cfg.AverageInfiniteHold),
	)
	if err != nil {
		return nil, fmt.Errorf("kmeter: %w", err)
	}

	e := &Engine{
		cfg:               cfg,
		logger:            cfg.Logger,
		ring:              ring,
		average:           average,
		truePeak:          tp,
		meter:             meter,
		chunk:             core.NewChannels(cfg.Channels, n),
		delayed:           core.NewChannels(2, n),
		mix:               core.NewChannels(2, n),
		mixPiece:          make([][]float64, 2),
		peaks:             make([]float64, cfg.Channels),
		rms:               make([]float64, cfg.Channels),
		averages:          make([]float64, cfg.Channels),
		truePeaks:         make([]float64, cfg.Channels),
		overflows:         make([]int, cfg.Channels),
		truePeakOverflows: make([]int, cfg.Channels),
	}
	e.onChunk = e.processChunk

	e.logger.Debug("kmeter engine created",
		"sampleRate", cfg.SampleRate,
		"chunkSize", n,
		"channels", cfg.Channels,
		"algorithm", cfg.Algorithm.String(),
		"crestFactor", cfg.CrestFactor.String(),
	)

	return e, nil
}

// Config returns the current configuration.
func (e *Engine) Config() Config { return e.cfg }

// Meter returns the ballistics holding the current readouts. The
// returned value is updated by every Process call.
func (e *Engine) Meter() *ballistics.Meter { return e.meter }

// AverageFilter returns the average level filter; its blocks hold the
// filtered signal of the last chunk.
func (e *Engine) AverageFilter() *loudness.AverageFilter { return e.average }

// Elapsed returns the audio time in seconds metered since the engine was
// built or last reset.
func (e *Engine) Elapsed() float64 { return e.elapsed }

// TruePeakOverflows returns the number of oversampled values of channel
// ch beyond -0.169 dBFS since the last reset.
func (e *Engine) TruePeakOverflows(ch int) int { return e.truePeakOverflows[ch] }

// Process meters planar audio: one slice per channel, all of the same
// length. Frames are buffered until a full chunk is available, so any
// block size works.
func (e *Engine) Process(frames [][]float64) error {
	if e.cfg.Mono {
		return e.processMono(frames)
	}

	if err := e.ring.Write(frames, e.onChunk); err != nil {
		return fmt.Errorf("kmeter: %w", err)
	}

	return nil
}

// processMono mixes a stereo input down to (L+R)/2 on both channels.
func (e *Engine) processMono(frames [][]float64) error {
	if len(frames) < 2 || len(frames[0]) != len(frames[1]) {
		return fmt.Errorf("kmeter: %w: mono mix-down needs two equally long channels", buffer.ErrChannelMismatch)
	}

	left, right := frames[0], frames[1]
	for done := 0; done < len(left); {
		n := min(len(e.mix[0]), len(left)-done)

		for i := 0; i < n; i++ {
			m := 0.5 * (left[done+i] + right[done+i])
			e.mix[0][i] = m
			e.mix[1][i] = m
		}

		e.mixPiece[0] = e.mix[0][:n]
		e.mixPiece[1] = e.mix[1][:n]
		if err := e.ring.Write(e.mixPiece, e.onChunk); err != nil {
			return fmt.Errorf("kmeter: %w", err)
		}

		done += n
	}

	return nil
}

func (e *Engine) processChunk() error {
	n := e.cfg.BlockSize
	preDelay := n / 2
	dt := e.cfg.BlockDuration()

	// The average filter and the true-peak detector see the newest chunk;
	// their own FIR delay aligns them with the pre-delayed readings below.
	e.ring.CopyChunk(e.chunk, n, 0)

	if err := e.average.CopyFrom(e.chunk); err != nil {
		return fmt.Errorf("kmeter: %w", err)
	}
	if err := e.truePeak.CopyFrom(e.chunk); err != nil {
		return fmt.Errorf("kmeter: %w", err)
	}

	for ch := range e.peaks {
		if e.cfg.Mono && ch == 1 {
			e.peaks[1] = e.peaks[0]
			e.rms[1] = e.rms[0]
			e.averages[1] = e.averages[0]
			e.truePeaks[1] = e.truePeaks[0]
			e.overflows[1] = e.overflows[0]
			e.truePeakOverflows[1] += e.truePeak.Overflows(0)
		} else {
			e.peaks[ch] = e.ring.Magnitude(ch, n, preDelay)
			e.rms[ch] = e.ring.RMSLevel(ch, n, preDelay)
			e.averages[ch] = e.average.Level(ch)
			e.truePeaks[ch] = e.truePeak.Level(ch)
			e.overflows[ch] = e.ring.CountOverflows(ch, n, preDelay, timestats.OverflowThreshold)
			e.truePeakOverflows[ch] += e.truePeak.Overflows(ch)
		}

		e.meter.UpdateChannel(ch, dt, e.peaks[ch], e.truePeaks[ch], e.averages[ch], e.overflows[ch])
	}

	if e.cfg.Channels == 2 {
		e.meter.SetPhaseCorrelation(dt, e.phaseCorrelation(n, preDelay))
		e.meter.SetStereoMeterValue(dt, timestats.StereoBalance(e.rms[0], e.rms[1]))
	}

	e.elapsed += dt

	return nil
}

func (e *Engine) phaseCorrelation(n, preDelay int) float64 {
	if e.cfg.Mono {
		return 1
	}

	if e.rms[0] < timestats.SilenceThreshold && e.rms[1] < timestats.SilenceThreshold {
		return 1
	}

	e.ring.CopyChunk(e.delayed, n, preDelay)

	return timestats.PhaseCorrelation(e.delayed[0], e.delayed[1])
}

// SetPlaying reports the host transport state. The meters are reset when
// the transport starts.
func (e *Engine) SetPlaying(playing bool) {
	if playing && !e.playing {
		e.logger.Debug("transport started, resetting meters")
		e.Reset()
	}

	e.playing = playing
}

// Reset puts every readout back to its initial state. Buffered audio and
// filter history are kept.
func (e *Engine) Reset() {
	e.meter.Reset()

	for ch := range e.truePeakOverflows {
		e.truePeakOverflows[ch] = 0
	}

	e.elapsed = 0
}

// SetSampleRate switches to a new sample rate. Unsupported rates return
// ErrUnsupportedSampleRate and leave the engine running at the previous
// rate. A change clears buffered audio, filter history and readouts.
func (e *Engine) SetSampleRate(sampleRate float64) error {
	if !ValidSampleRate(sampleRate) {
		e.logger.Warn("unsupported sample rate ignored",
			"sampleRate", sampleRate,
			"current", e.cfg.SampleRate,
		)

		return fmt.Errorf("%w: %v Hz", ErrUnsupportedSampleRate, sampleRate)
	}

	if sampleRate == e.cfg.SampleRate {
		return nil
	}

	if err := e.average.SetSampleRate(sampleRate); err != nil {
		return fmt.Errorf("kmeter: %w", err)
	}
	if err := e.truePeak.SetSampleRate(sampleRate); err != nil {
		return fmt.Errorf("kmeter: %w", err)
	}

	e.logger.Info("sample rate changed",
		"from", e.cfg.SampleRate,
		"to", sampleRate,
		"oversampling", e.truePeak.Factor(),
	)

	e.cfg.SampleRate = sampleRate
	e.ring.Clear()
	e.Reset()

	return nil
}

// SetAlgorithm switches the average level algorithm. Unknown values
// select BS.1770.
func (e *Engine) SetAlgorithm(a loudness.Algorithm) error {
	a = a.Normalize()
	if a == e.cfg.Algorithm {
		return nil
	}

	if err := e.average.SetAlgorithm(a); err != nil {
		return fmt.Errorf("kmeter: %w", err)
	}

	e.meter.SetAlgorithm(a)
	e.logger.Info("average algorithm changed", "from", e.cfg.Algorithm.String(), "to", a.String())
	e.cfg.Algorithm = a

	return nil
}

// SetMono enables or disables the mono mix-down. Only a stereo engine
// mixes down; on any other channel count the call is ignored.
func (e *Engine) SetMono(mono bool) {
	if mono && e.cfg.Channels != 2 {
		e.logger.Warn("mono mix-down needs two channels, ignored", "channels", e.cfg.Channels)
		return
	}

	if mono != e.cfg.Mono {
		e.logger.Info("mono mode changed", "mono", mono)
	}

	e.cfg.Mono = mono
}

// SetCrestFactor selects the K-System scale used by snapshots.
func (e *Engine) SetCrestFactor(c CrestFactor) error {
	if !c.Valid() {
		return fmt.Errorf("kmeter: invalid crest factor %d", int(c))
	}

	e.cfg.CrestFactor = c

	return nil
}

// SetPeakInfiniteHold switches the peak hold marks to infinite hold.
func (e *Engine) SetPeakInfiniteHold(hold bool) {
	e.cfg.PeakInfiniteHold = hold
	e.meter.SetPeakMeterInfiniteHold(hold)
}

// SetAverageInfiniteHold switches the average hold marks to infinite
// hold.
func (e *Engine) SetAverageInfiniteHold(hold bool) {
	e.cfg.AverageInfiniteHold = hold
	e.meter.SetAverageMeterInfiniteHold(hold)
}
