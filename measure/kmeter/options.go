package kmeter

import (
	"log/slog"

	"github.com/cwbudde/algo-kmeter/dsp/core"
	"github.com/cwbudde/algo-kmeter/measure/loudness"
)

// Config defines configuration for an Engine. BlockSize is the chunk
// length the meters are evaluated on.
type Config struct {
	core.ProcessorConfig

	Channels            int
	Algorithm           loudness.Algorithm
	CrestFactor         CrestFactor
	PeakInfiniteHold    bool
	AverageInfiniteHold bool
	Mono                bool
	Logger              *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a stereo K-20 configuration using BS.1770 at
// 44.1 kHz with 1024-sample chunks.
func DefaultConfig() Config {
	return Config{
		ProcessorConfig: core.DefaultProcessorConfig(),
		Channels:        2,
		Algorithm:       loudness.AlgorithmITUBS1770,
		CrestFactor:     CrestFactorK20,
	}
}

// WithSampleRate sets the sample rate. NewEngine rejects rates outside
// 44.1 to 192 kHz.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		cfg.SampleRate = sampleRate
	}
}

// WithChunkSize sets the chunk length; it must be a power of two.
func WithChunkSize(size int) Option {
	return func(cfg *Config) {
		if size > 0 {
			cfg.BlockSize = size
		}
	}
}

// WithChannels sets the number of input channels. NewEngine rejects a
// non-positive count.
func WithChannels(channels int) Option {
	return func(cfg *Config) {
		cfg.Channels = channels
	}
}

// WithAlgorithm selects the average level algorithm.
func WithAlgorithm(a loudness.Algorithm) Option {
	return func(cfg *Config) {
		cfg.Algorithm = a.Normalize()
	}
}

// WithCrestFactor selects the K-System scale used by snapshots. Invalid
// values are ignored.
func WithCrestFactor(c CrestFactor) Option {
	return func(cfg *Config) {
		if c.Valid() {
			cfg.CrestFactor = c
		}
	}
}

// WithPeakInfiniteHold keeps peak hold marks until reset.
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

// WithMono mixes a stereo input down to mono before metering. NewEngine
// ignores it unless the engine has exactly two channels.
func WithMono(mono bool) Option {
	return func(cfg *Config) {
		cfg.Mono = mono
	}
}

// WithLogger sets the logger for configuration changes. The default
// discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	return cfg
}
