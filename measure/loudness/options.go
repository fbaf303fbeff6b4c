package loudness

import "github.com/cwbudde/algo-kmeter/dsp/core"

// FilterConfig defines configuration for the average level filter.
type FilterConfig struct {
	core.ProcessorConfig
	Channels  int
	Algorithm Algorithm
}

// FilterOption mutates a FilterConfig.
type FilterOption func(*FilterConfig)

// DefaultFilterConfig returns a stereo BS.1770 configuration at the
// default processor sample rate and block size.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		ProcessorConfig: core.DefaultProcessorConfig(),
		Channels:        2,
		Algorithm:       AlgorithmITUBS1770,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) FilterOption {
	return func(cfg *FilterConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the number of samples per block. It must be a
// power of two.
func WithBlockSize(blockSize int) FilterOption {
	return func(cfg *FilterConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithChannels sets the number of channels. NewAverageFilter rejects a
// non-positive count.
func WithChannels(channels int) FilterOption {
	return func(cfg *FilterConfig) {
		cfg.Channels = channels
	}
}

// WithAlgorithm selects the averaging algorithm. Unknown values select
// BS.1770.
func WithAlgorithm(a Algorithm) FilterOption {
	return func(cfg *FilterConfig) {
		cfg.Algorithm = a.Normalize()
	}
}

// ApplyFilterOptions applies zero or more options to the default config.
func ApplyFilterOptions(opts ...FilterOption) FilterConfig {
	cfg := DefaultFilterConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
