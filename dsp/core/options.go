// Package core holds the configuration, level conversions and buffer
// helpers shared by the meter packages.
package core

// ProcessorConfig carries the settings every block-based processor shares.
// BlockSize is the meter chunk length in frames.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns 44.1 kHz with 1024-frame chunks
// (23.2 ms per meter update).
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{SampleRate: 44100, BlockSize: 1024}
}

// WithSampleRate sets the sample rate; non-positive values are ignored.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the chunk length; non-positive values are ignored.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions applies opts to the defaults.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// BlockDuration returns the time one chunk spans, the dt of every meter
// update. It is 0 without a positive sample rate.
func (c ProcessorConfig) BlockDuration() float64 {
	if !(c.SampleRate > 0) {
		return 0
	}

	return float64(c.BlockSize) / c.SampleRate
}
