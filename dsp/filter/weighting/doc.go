// Package weighting provides the K frequency weighting of ITU-R BS.1770.
//
// K-weighting is a cascade of two biquads:
//
//   - a high-shelf pre-filter (about +4 dB above 2 kHz) modelling the
//     acoustic effect of the head,
//   - the revised low-frequency B-curve (RLB), a second-order high-pass
//     with its corner near 38 Hz.
//
// Coefficients are derived from the analog prototype parameters through
// the bilinear transform with pre-warping, so the response is the same at
// every sample rate rather than only at 48 kHz. The pre-filter is not
// normalized at 1 kHz: the loudness formula's -0.691 dB offset compensates
// its gain at 997 Hz.
//
// A flat Z type is provided for comparison measurements.
package weighting
