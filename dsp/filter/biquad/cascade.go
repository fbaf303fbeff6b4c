package biquad

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-kmeter/dsp/core"
)

var (
	// ErrInvalidChannels is returned for a non-positive channel count.
	ErrInvalidChannels = errors.New("biquad: channel count must be positive")
	// ErrNoSections is returned for an empty coefficient list.
	ErrNoSections = errors.New("biquad: cascade needs at least one section")
)

// delay is the two-element state of one section on one channel.
type delay struct {
	z1, z2 float64
}

// Option configures a Cascade.
type Option func(*Cascade)

// WithDenormalFlush flushes every section output below about -400 dBFS to
// zero before it enters the feedback path. Decaying tails then reach an
// exact 0 instead of lingering as subnormal numbers.
func WithDenormalFlush() Option {
	return func(c *Cascade) { c.flush = true }
}

// Cascade filters several channels through the same series of sections.
type Cascade struct {
	coeffs []Coefficients
	state  [][]delay // [channel][section]
	flush  bool
}

// NewCascade creates a cascade of len(coeffs) sections for channels
// channels with cleared state.
func NewCascade(coeffs []Coefficients, channels int, opts ...Option) (*Cascade, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if len(coeffs) == 0 {
		return nil, ErrNoSections
	}

	c := &Cascade{state: make([][]delay, channels)}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	c.SetCoefficients(coeffs)

	return c, nil
}

// Channels returns the number of channels.
func (c *Cascade) Channels() int { return len(c.state) }

// Sections returns the number of second-order sections.
func (c *Cascade) Sections() int { return len(c.coeffs) }

// Coefficients returns a copy of the section coefficients.
func (c *Cascade) Coefficients() []Coefficients {
	return append([]Coefficients(nil), c.coeffs...)
}

// SetCoefficients replaces the sections and clears the state of every
// channel, since history built up under the old response has no meaning
// under the new one. Memory is reallocated only when the number of
// sections changes.
func (c *Cascade) SetCoefficients(coeffs []Coefficients) {
	if len(coeffs) != len(c.coeffs) {
		c.coeffs = make([]Coefficients, len(coeffs))
		for ch := range c.state {
			c.state[ch] = make([]delay, len(coeffs))
		}
	}

	copy(c.coeffs, coeffs)
	c.Reset()
}

// Reset clears the state of all channels.
func (c *Cascade) Reset() {
	for ch := range c.state {
		c.ResetChannel(ch)
	}
}

// ResetChannel clears the state of channel ch.
func (c *Cascade) ResetChannel(ch int) {
	clear(c.state[ch])
}

// ProcessSample filters one sample of channel ch.
func (c *Cascade) ProcessSample(ch int, x float64) float64 {
	st := c.state[ch]
	for i := range c.coeffs {
		x = c.step(&c.coeffs[i], &st[i], x)
	}

	return x
}

func (c *Cascade) step(k *Coefficients, d *delay, x float64) float64 {
	y := k.B0*x + d.z1
	if c.flush {
		y = core.FlushDenormals(y)
	}

	d.z1 = k.B1*x - k.A1*y + d.z2
	d.z2 = k.B2*x - k.A2*y

	return y
}

// ProcessBlock filters buf in place as the next samples of channel ch.
// Sections run one after another over the whole block.
func (c *Cascade) ProcessBlock(ch int, buf []float64) {
	st := c.state[ch]

	for i := range c.coeffs {
		k := c.coeffs[i]
		z1, z2 := st[i].z1, st[i].z2

		for n, x := range buf {
			y := k.B0*x + z1
			if c.flush {
				y = core.FlushDenormals(y)
			}

			z1 = k.B1*x - k.A1*y + z2
			z2 = k.B2*x - k.A2*y
			buf[n] = y
		}

		st[i].z1, st[i].z2 = z1, z2
	}
}

// Response evaluates the whole cascade at freqHz.
func (c *Cascade) Response(freqHz, sampleRate float64) complex128 {
	h := complex(1, 0)
	for _, k := range c.coeffs {
		h *= k.Response(freqHz, sampleRate)
	}

	return h
}

// MagnitudeDB returns the cascade gain at freqHz in dB.
func (c *Cascade) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}
