// Package truepeak estimates the true peak of audio blocks: the peak of
// the band-limited signal between samples, which a plain sample peak
// misses.
//
// Each block is oversampled (8x up to 88.2 kHz, 4x up to 176.4 kHz, 2x
// above) with a windowed-sinc interpolator and the maximum magnitude of
// the oversampled block is reported. 8x oversampling under-reads by at
// most 0.169 dB, so oversampled values beyond 0.9807 (-0.169 dBFS) are
// counted as overflows.
package truepeak
