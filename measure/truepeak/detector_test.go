package truepeak

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-kmeter/internal/testutil"
	timestats "github.com/cwbudde/algo-kmeter/stats/time"
)

const testBlock = 512

func newDetector(t *testing.T, sampleRate float64, channels int) *Detector {
	t.Helper()

	d, err := NewDetector(WithSampleRate(sampleRate), WithBlockSize(testBlock), WithChannels(channels))
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}

	return d
}

func run(t *testing.T, d *Detector, planar [][]float64) {
	t.Helper()

	for start := 0; start+testBlock <= len(planar[0]); start += testBlock {
		if err := d.CopyFrom(testutil.Chunk(planar, start, testBlock)); err != nil {
			t.Fatalf("CopyFrom: %v", err)
		}
	}
}

func TestDetectorInterSamplePeak(t *testing.T) {
	const fs = 48000.0

	// fs/4 with a 45 degree phase: every sample sits at +-0.7071 while
	// the waveform peaks at 1.0 between samples.
	sig := testutil.PhasedSine(fs/4, fs, 1, math.Pi/4, 6*testBlock)
	if p := timestats.Peak(sig); p > 0.71 {
		t.Fatalf("sample peak = %v, want about 0.7071", p)
	}

	d := newDetector(t, fs, 1)
	run(t, d, [][]float64{sig})

	if got := d.Level(0); math.Abs(got-1) > 0.01 {
		t.Fatalf("true peak = %.4f, want 1 +- 0.01", got)
	}
	if d.Overflows(0) == 0 {
		t.Fatal("expected true-peak overflows above -0.169 dBFS")
	}
}

func TestDetectorQuietSine(t *testing.T) {
	const fs = 44100.0

	d := newDetector(t, fs, 2)
	run(t, d, testutil.Replicate(testutil.DeterministicSine(1000, fs, 0.5, 6*testBlock), 2))

	for ch := 0; ch < 2; ch++ {
		if got := d.Level(ch); math.Abs(got-0.5) > 0.005 {
			t.Errorf("channel %d true peak = %.4f, want 0.5", ch, got)
		}
		if got := d.Overflows(ch); got != 0 {
			t.Errorf("channel %d overflows = %d, want 0", ch, got)
		}
	}
}

func TestDetectorSetSampleRate(t *testing.T) {
	d := newDetector(t, 44100, 2)
	if d.Factor() != 8 {
		t.Fatalf("Factor = %d, want 8", d.Factor())
	}

	run(t, d, testutil.Replicate(testutil.DeterministicSine(1000, 44100, 0.5, 2*testBlock), 2))

	tests := []struct {
		rate   float64
		factor int
	}{
		{88200, 8},
		{96000, 4},
		{192000, 2},
		{48000, 8},
	}
	for _, tt := range tests {
		if err := d.SetSampleRate(tt.rate); err != nil {
			t.Fatalf("SetSampleRate(%v): %v", tt.rate, err)
		}
		if d.Factor() != tt.factor {
			t.Fatalf("rate %v: Factor = %d, want %d", tt.rate, d.Factor(), tt.factor)
		}
		if d.Level(0) != 0 || d.Overflows(0) != 0 {
			t.Fatalf("rate %v: readings not cleared", tt.rate)
		}
	}

	// The interpolator history must be gone: silence reads exactly zero.
	run(t, d, testutil.Replicate(make([]float64, testBlock), 2))
	if d.Level(1) != 0 {
		t.Fatalf("level after rate change = %v, want 0", d.Level(1))
	}

	if err := d.SetSampleRate(-1); err == nil {
		t.Fatal("expected error for negative sample rate")
	}
}

func TestDetectorErrors(t *testing.T) {
	if _, err := NewDetector(WithBlockSize(100)); err == nil {
		t.Fatal("expected error for non power-of-two block size")
	}
	for _, channels := range []int{0, -2} {
		if _, err := NewDetector(WithChannels(channels)); !errors.Is(err, ErrInvalidChannels) {
			t.Fatalf("%d channels: error = %v, want ErrInvalidChannels", channels, err)
		}
	}

	d := newDetector(t, 48000, 2)
	if err := d.CopyFrom(testutil.Replicate(make([]float64, testBlock), 1)); !errors.Is(err, ErrBlockMismatch) {
		t.Fatalf("error = %v, want ErrBlockMismatch", err)
	}
	if err := d.CopyFrom(testutil.Replicate(make([]float64, 3), 2)); err == nil {
		t.Fatal("expected error for short block")
	}
}
