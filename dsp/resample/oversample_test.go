package resample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-kmeter/internal/testutil"
)

func TestOversamplingFactor(t *testing.T) {
	tests := []struct {
		rate float64
		want int
	}{
		{44100, 8},
		{48000, 8},
		{88200, 8},
		{96000, 4},
		{176400, 4},
		{192000, 2},
	}
	for _, tt := range tests {
		if got := OversamplingFactor(tt.rate); got != tt.want {
			t.Errorf("OversamplingFactor(%v) = %d, want %d", tt.rate, got, tt.want)
		}
	}
}

func TestNewUpsamplerValidation(t *testing.T) {
	if _, err := NewUpsampler(2, 64, 3); !errors.Is(err, ErrInvalidFactor) {
		t.Fatalf("factor 3: err = %v, want ErrInvalidFactor", err)
	}
	if _, err := NewUpsampler(2, 64, 0); !errors.Is(err, ErrInvalidFactor) {
		t.Fatalf("factor 0: err = %v, want ErrInvalidFactor", err)
	}
	if _, err := NewUpsampler(0, 64, 4); err == nil {
		t.Fatal("expected error for zero channels")
	}

	u, err := NewUpsampler(2, 64, 4)
	if err != nil {
		t.Fatal(err)
	}
	if u.Factor() != 4 || u.BlockSize() != 64 || u.OutputSize() != 256 {
		t.Fatalf("factor/block/output = %d/%d/%d", u.Factor(), u.BlockSize(), u.OutputSize())
	}
	if _, err := u.Process(0, make([]float64, 32)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
}

func TestUpsamplerPreservesDCLevel(t *testing.T) {
	u, err := NewUpsampler(1, 128, 8)
	if err != nil {
		t.Fatal(err)
	}

	src := testutil.DC(0.5, 128)
	var out []float64
	for range 3 {
		out, err = u.Process(0, src)
		if err != nil {
			t.Fatal(err)
		}
	}

	for i, v := range out {
		if math.Abs(v-0.5) > 1e-3 {
			t.Fatalf("out[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestUpsamplerRevealsInterSamplePeak(t *testing.T) {
	// fs/4 sine with 45 degree phase: every sample sits at 0.707 of the
	// true amplitude
	const (
		blockSize = 256
		rate      = 48000.0
	)
	src := testutil.PhasedSine(rate/4, rate, 1, math.Pi/4, 4*blockSize)

	u, err := NewUpsampler(1, blockSize, 8)
	if err != nil {
		t.Fatal(err)
	}

	samplePeak, truePeak := 0.0, 0.0
	for b := 0; b < 4; b++ {
		chunk := src[b*blockSize : (b+1)*blockSize]
		out, err := u.Process(0, chunk)
		if err != nil {
			t.Fatal(err)
		}
		if b == 0 {
			continue
		}
		for _, v := range chunk {
			samplePeak = math.Max(samplePeak, math.Abs(v))
		}
		for _, v := range out {
			truePeak = math.Max(truePeak, math.Abs(v))
		}
	}

	if math.Abs(samplePeak-math.Sqrt2/2) > 1e-9 {
		t.Fatalf("sample peak = %v, want 0.7071", samplePeak)
	}
	if math.Abs(truePeak-1) > 0.01 {
		t.Fatalf("true peak = %v, want ~1.0", truePeak)
	}
}

func TestUpsamplerReset(t *testing.T) {
	u, err := NewUpsampler(1, 64, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := u.Process(0, testutil.Ones(64)); err != nil {
		t.Fatal(err)
	}
	u.Reset()

	out, err := u.Process(0, make([]float64, 64))
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out {
		if math.Abs(v) > 1e-15 {
			t.Fatalf("out[%d] = %v after reset, want 0", i, v)
		}
	}
}
