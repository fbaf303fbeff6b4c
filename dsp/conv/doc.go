// Package conv provides the block FFT convolution used by the level and
// true-peak meters, plus a direct time-domain reference.
//
// A [BlockConvolver] filters a fixed number of channels block by block with
// one shared FIR kernel. The kernel has blockSize+1 taps and is transformed
// once per [BlockConvolver.ComputeKernel] call; every block is zero-padded to
// twice the block size so the linear convolution never wraps, and the second
// half of each result is carried over to the next block (overlap-add).
//
// # Usage
//
//	c, err := conv.NewBlockConvolver(2, 1024)
//	if err != nil {
//		return err
//	}
//	if err := c.ComputeKernel(21000 / sampleRate); err != nil {
//		return err
//	}
//
//	copy(c.Block(0), left)
//	if err := c.Convolve(0, 1); err != nil {
//		return err
//	}
//	filtered := c.Block(0)
//
// [WindowedSincLowpass] builds the Blackman-windowed sinc kernel on its own,
// and [Direct] computes the same convolution in O(N*M) for verification.
package conv
