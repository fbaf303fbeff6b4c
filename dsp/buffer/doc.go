// Package buffer provides the multi-channel ring buffer that turns
// host-sized audio callbacks into the fixed-size chunks the meters work on.
//
// A [Ring] stores length+preDelay frames per channel. [Ring.Write] appends
// frames of any count and invokes a callback each time another length
// frames have arrived; inside the callback the chunk is read back with
// [Ring.CopyChunk] or reduced directly with [Ring.Magnitude],
// [Ring.RMSLevel] and [Ring.CountOverflows]. A non-zero pre-delay reads
// frames that are older than the newest ones, which lets meters with
// different latencies stay aligned.
package buffer
