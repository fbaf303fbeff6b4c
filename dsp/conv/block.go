package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-kmeter/dsp/core"
)

// BlockConvolver applies one FIR low-pass kernel of blockSize+1 taps to a
// fixed number of channels, one block at a time, using overlap-add.
//
// Each channel owns a block buffer that callers fill before [Convolve] and
// read back afterwards, and an overlap tail carried to the next block. All
// buffers are allocated by [NewBlockConvolver]; Convolve does not allocate.
type BlockConvolver struct {
	channels  int
	blockSize int
	fftSize   int

	plan      *algofft.Plan[complex128]
	kernelFFT []complex128
	scratch   []complex128

	blocks  [][]float64
	overlap [][]float64

	cutoff      float64
	kernelReady bool
}

// NewBlockConvolver creates a convolver for the given channel count.
// blockSize must be a positive power of two; the FFT size is twice that.
func NewBlockConvolver(channels, blockSize int) (*BlockConvolver, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if !core.IsPowerOfTwo(blockSize) {
		return nil, fmt.Errorf("%w: %d is not a power of two", ErrInvalidBlockSize, blockSize)
	}

	fftSize := nextPowerOf2(2 * blockSize)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	return &BlockConvolver{
		channels:  channels,
		blockSize: blockSize,
		fftSize:   fftSize,
		plan:      plan,
		kernelFFT: make([]complex128, fftSize),
		scratch:   make([]complex128, fftSize),
		blocks:    core.NewChannels(channels, blockSize),
		overlap:   core.NewChannels(channels, blockSize),
	}, nil
}

// Channels returns the number of channels.
func (c *BlockConvolver) Channels() int { return c.channels }

// BlockSize returns the number of samples per block.
func (c *BlockConvolver) BlockSize() int { return c.blockSize }

// FFTSize returns the transform length (twice the block size).
func (c *BlockConvolver) FFTSize() int { return c.fftSize }

// Cutoff returns the relative cutoff of the current kernel, or 0 before
// the first [ComputeKernel] call.
func (c *BlockConvolver) Cutoff() float64 { return c.cutoff }

// Block returns the block buffer of channel ch. The slice stays valid for
// the lifetime of the convolver.
func (c *BlockConvolver) Block(ch int) []float64 {
	return c.blocks[ch]
}

// ComputeKernel builds the windowed-sinc low-pass kernel for
// relativeCutoff (cutoff / sample rate), caches its spectrum and clears all
// block and overlap buffers so no state filtered with the old kernel leaks
// into the output.
func (c *BlockConvolver) ComputeKernel(relativeCutoff float64) error {
	if !(relativeCutoff > 0 && relativeCutoff <= 0.5) {
		return fmt.Errorf("%w: %v", ErrInvalidCutoff, relativeCutoff)
	}

	kernel := WindowedSincLowpass(c.blockSize+1, relativeCutoff)
	for i := range c.scratch {
		c.scratch[i] = 0
	}
	for i, v := range kernel {
		c.scratch[i] = complex(v, 0)
	}

	if err := c.plan.Forward(c.kernelFFT, c.scratch); err != nil {
		c.kernelReady = false
		return fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}

	c.cutoff = relativeCutoff
	c.kernelReady = true
	c.Reset()

	return nil
}

// Convolve filters the block buffer of channel ch in place and scales the
// result by gain. gain is 1 for plain filtering; interpolation after
// zero-stuffing by a factor L passes L to restore the signal level.
func (c *BlockConvolver) Convolve(ch int, gain float64) error {
	if !c.kernelReady {
		return ErrNoKernel
	}

	block := c.blocks[ch]
	tail := c.overlap[ch]

	for i, v := range block {
		c.scratch[i] = complex(v, 0)
	}
	for i := c.blockSize; i < c.fftSize; i++ {
		c.scratch[i] = 0
	}

	if err := c.plan.Forward(c.scratch, c.scratch); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	for i, k := range c.kernelFFT {
		c.scratch[i] *= k
	}

	if err := c.plan.Inverse(c.scratch, c.scratch); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	for i := range block {
		block[i] = real(c.scratch[i])*gain + tail[i]
		tail[i] = real(c.scratch[c.blockSize+i]) * gain
	}

	return nil
}

// Reset clears block and overlap buffers of all channels. The kernel is
// kept.
func (c *BlockConvolver) Reset() {
	core.ZeroChannels(c.blocks)
	core.ZeroChannels(c.overlap)
}
