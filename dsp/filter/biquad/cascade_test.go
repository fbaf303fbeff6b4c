package biquad

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-kmeter/internal/testutil"
)

var testSections = []Coefficients{
	{B0: 1.5351, B1: -2.6917, B2: 1.1984, A1: -1.6907, A2: 0.7325},
	{B0: 1, B1: -2, B2: 1, A1: -1.9900, A2: 0.9901},
}

// directForm filters x through coeffs with the plain difference equation.
func directForm(coeffs []Coefficients, x []float64) []float64 {
	out := append([]float64(nil), x...)
	for _, c := range coeffs {
		var x1, x2, y1, y2 float64
		for n, v := range out {
			y := c.B0*v + c.B1*x1 + c.B2*x2 - c.A1*y1 - c.A2*y2
			x2, x1 = x1, v
			y2, y1 = y1, y
			out[n] = y
		}
	}

	return out
}

func TestNewCascadeErrors(t *testing.T) {
	if _, err := NewCascade(testSections, 0); !errors.Is(err, ErrInvalidChannels) {
		t.Fatalf("channels=0: err = %v", err)
	}
	if _, err := NewCascade(nil, 2); !errors.Is(err, ErrNoSections) {
		t.Fatalf("no sections: err = %v", err)
	}

	c, err := NewCascade(testSections, 3)
	if err != nil {
		t.Fatalf("NewCascade: %v", err)
	}
	if c.Channels() != 3 || c.Sections() != 2 {
		t.Fatalf("got %d channels, %d sections", c.Channels(), c.Sections())
	}
}

func TestCascadeMatchesDifferenceEquation(t *testing.T) {
	x := testutil.DeterministicNoise(7, 0.5, 2048)
	want := directForm(testSections, x)

	c, err := NewCascade(testSections, 1)
	if err != nil {
		t.Fatal(err)
	}

	got := append([]float64(nil), x...)
	c.ProcessBlock(0, got)
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
}

func TestCascadeBlockMatchesSample(t *testing.T) {
	x := testutil.DeterministicNoise(3, 1, 1000)

	bySample, _ := NewCascade(testSections, 1)
	byBlock, _ := NewCascade(testSections, 1)

	want := make([]float64, len(x))
	for i, v := range x {
		want[i] = bySample.ProcessSample(0, v)
	}

	got := append([]float64(nil), x...)
	for _, span := range [][2]int{{0, 1}, {1, 64}, {64, 333}, {333, 1000}} {
		byBlock.ProcessBlock(0, got[span[0]:span[1]])
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: block %v, sample-wise %v", i, got[i], want[i])
		}
	}
}

func TestCascadeChannelsIndependent(t *testing.T) {
	c, _ := NewCascade(testSections, 2)
	x := testutil.DeterministicNoise(11, 1, 512)

	first := append([]float64(nil), x...)
	c.ProcessBlock(0, first)

	silent := make([]float64, 512)
	c.ProcessBlock(1, silent)
	for i, v := range silent {
		if v != 0 {
			t.Fatalf("channel 1 sample %d = %v, want 0", i, v)
		}
	}

	second := append([]float64(nil), x...)
	c.ProcessBlock(1, second)
	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}

func TestCascadeDenormalFlush(t *testing.T) {
	resonant := []Coefficients{{B0: 1, A1: -1.8, A2: 0.81}}

	tail := func(opts ...Option) []float64 {
		c, _ := NewCascade(resonant, 1, opts...)
		buf := make([]float64, 2000)
		buf[0] = 1
		c.ProcessBlock(0, buf)

		return buf[1000:]
	}

	for i, v := range tail(WithDenormalFlush()) {
		if v != 0 {
			t.Fatalf("flushed tail sample %d = %g, want exact 0", i, v)
		}
	}

	if raw := tail(); raw[len(raw)-1] == 0 {
		t.Fatal("unflushed tail decayed to exact 0 unexpectedly")
	}
}

func TestCascadeResetChannel(t *testing.T) {
	c, _ := NewCascade(testSections, 2)
	c.ProcessSample(0, 1)
	c.ProcessSample(1, 1)

	c.ResetChannel(0)
	if y := c.ProcessSample(0, 0); y != 0 {
		t.Fatalf("channel 0 after ResetChannel = %v, want 0", y)
	}
	if y := c.ProcessSample(1, 0); y == 0 {
		t.Fatal("channel 1 lost its state")
	}

	c.Reset()
	if y := c.ProcessSample(1, 0); y != 0 {
		t.Fatalf("channel 1 after Reset = %v, want 0", y)
	}
}

func TestCascadeSetCoefficients(t *testing.T) {
	c, _ := NewCascade(testSections, 1)
	c.ProcessSample(0, 1)

	c.SetCoefficients(testSections)
	if y := c.ProcessSample(0, 0); y != 0 {
		t.Fatalf("state survived SetCoefficients: %v", y)
	}

	c.SetCoefficients([]Coefficients{{B0: 2}})
	if c.Sections() != 1 {
		t.Fatalf("Sections() = %d, want 1", c.Sections())
	}
	if y := c.ProcessSample(0, 0.25); y != 0.5 {
		t.Fatalf("gain section output = %v, want 0.5", y)
	}

	got := c.Coefficients()
	got[0].B0 = 3
	if c.Coefficients()[0].B0 != 2 {
		t.Fatal("Coefficients returned internal storage")
	}
}

func TestCascadeProcessBlockDoesNotAllocate(t *testing.T) {
	c, _ := NewCascade(testSections, 2, WithDenormalFlush())
	buf := testutil.DeterministicNoise(1, 1, 1024)

	allocs := testing.AllocsPerRun(100, func() {
		c.ProcessBlock(1, buf)
	})
	if allocs != 0 {
		t.Fatalf("ProcessBlock allocates %v times", allocs)
	}
}

func BenchmarkCascadeProcessBlock(b *testing.B) {
	for _, flush := range []bool{false, true} {
		name := "plain"
		var opts []Option
		if flush {
			name = "flush"
			opts = append(opts, WithDenormalFlush())
		}

		b.Run(name, func(b *testing.B) {
			c, _ := NewCascade(testSections, 1, opts...)
			buf := testutil.DeterministicNoise(1, 1, 1024)
			b.SetBytes(int64(len(buf) * 8))

			for b.Loop() {
				c.ProcessBlock(0, buf)
			}
		})
	}
}
