// Package kmeter wires the metering building blocks into a K-System
// meter engine.
//
// An [Engine] accepts audio in blocks of any size, slices it into fixed
// chunks through a ring buffer and, for every chunk, runs the average
// level filter, the true-peak detector and the peak, RMS and overflow
// evaluation before feeding the results into the meter ballistics.
// Peak, RMS and overflows are read half a chunk late so they line up with
// the group delay of the average filter's FIR low-pass.
//
// The engine is single-threaded and allocates only when it is built or
// reconfigured. Readouts are available through [Engine.Meter] or as a
// [Snapshot].
package kmeter
