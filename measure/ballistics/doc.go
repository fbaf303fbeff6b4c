// Package ballistics turns per-block level measurements into readable
// meter values.
//
// Peak readings attack instantly and release at 26 dB per 3 seconds.
// Hold marks follow the highest reading, stay put for 10 seconds (or
// forever in infinite-hold mode) and then release like the peak meter.
// Average, stereo balance and phase correlation readings use logarithmic
// smoothing that covers 99% of a step within a fixed inertia time.
//
// Every reading is kept at or above [MeterMinimumDecibel]; NaN inputs
// resolve to the floor so the smoothing recurrences never see them.
package ballistics
