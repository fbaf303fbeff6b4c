// Package biquad runs cascades of second-order IIR sections over several
// channels at once.
//
// A [Cascade] holds one list of [Coefficients] shared by all channels and
// a private delay line per channel and section, so a multi-channel meter
// can filter every channel with the same response while keeping their
// histories apart. Sections use the transposed direct form II.
//
// Coefficient design lives in dsp/filter/weighting.
package biquad
