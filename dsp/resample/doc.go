// Package resample provides block oversampling for inter-sample peak
// detection.
//
// An [Upsampler] raises the rate of fixed-size blocks by an integer factor:
// each input sample is followed by factor-1 zeros and the result is
// interpolated by a windowed-sinc low-pass at the original Nyquist
// frequency (relative cutoff 0.5/factor). Zero-stuffing divides the
// signal level by the factor, so the interpolation filter runs with a gain
// equal to the factor.
//
// [OversamplingFactor] selects the factor for a native sample rate so that
// the oversampled rate stays at or below 705.6 kHz.
package resample
