// Package loudness implements the average level filter of a K-System
// meter.
//
// Two algorithms are available. [AlgorithmRMS] low-passes each channel at
// 21 kHz and reports its RMS level plus a 3.0103 dB peak-to-average
// correction, so that a sine wave reads the same on the peak and the
// average meter. [AlgorithmITUBS1770] K-weights every channel (ITU-R
// BS.1770 pre-filter and RLB high-pass), low-passes it and sums the
// channel mean squares into a single program loudness carried by
// channel 0.
//
// An [AverageFilter] consumes fixed-size blocks. All buffers, FFT plans
// and IIR chains are allocated when the filter is built or reconfigured;
// [AverageFilter.CopyFrom] does not allocate.
package loudness
