package loudness

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-kmeter/internal/testutil"
)

const (
	testRate  = 48000.0
	testBlock = 1024
)

// feed pushes planar signal through f block by block and returns the
// levels after the last block.
func feed(t *testing.T, f *AverageFilter, planar [][]float64) []float64 {
	t.Helper()

	n := len(planar[0])
	for start := 0; start+f.BlockSize() <= n; start += f.BlockSize() {
		if err := f.CopyFrom(testutil.Chunk(planar, start, f.BlockSize())); err != nil {
			t.Fatalf("CopyFrom: %v", err)
		}
	}

	levels := make([]float64, f.Channels())
	for ch := range levels {
		levels[ch] = f.Level(ch)
	}

	return levels
}

func newFilter(t *testing.T, opts ...FilterOption) *AverageFilter {
	t.Helper()

	base := []FilterOption{WithSampleRate(testRate), WithBlockSize(testBlock)}

	f, err := NewAverageFilter(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewAverageFilter: %v", err)
	}

	return f
}

func TestNewAverageFilterValidation(t *testing.T) {
	if _, err := NewAverageFilter(WithBlockSize(1000)); err == nil {
		t.Fatal("expected error for non power-of-two block size")
	}

	for _, channels := range []int{0, -1} {
		if _, err := NewAverageFilter(WithChannels(channels)); !errors.Is(err, ErrInvalidChannels) {
			t.Fatalf("%d channels: error = %v, want ErrInvalidChannels", channels, err)
		}
	}

	cfg := ApplyFilterOptions(WithAlgorithm(Algorithm(42)))
	if cfg.Channels != 2 {
		t.Fatalf("Channels = %d, want default 2", cfg.Channels)
	}
	if cfg.Algorithm != AlgorithmITUBS1770 {
		t.Fatalf("Algorithm = %v, want BS.1770", cfg.Algorithm)
	}
}

func TestAverageFilterStartsAtFloor(t *testing.T) {
	for _, a := range []Algorithm{AlgorithmRMS, AlgorithmITUBS1770} {
		f := newFilter(t, WithAlgorithm(a))
		for ch := 0; ch < f.Channels(); ch++ {
			if got := f.Level(ch); got != MinimumDecibel {
				t.Fatalf("%v: Level(%d) = %v, want %v", a, ch, got, MinimumDecibel)
			}
		}
	}
}

func TestAverageFilterRMSSine(t *testing.T) {
	f := newFilter(t, WithAlgorithm(AlgorithmRMS))
	sig := testutil.Replicate(testutil.DeterministicSine(997, testRate, 0.5, 8*testBlock), 2)

	levels := feed(t, f, sig)

	// A sine reads its peak level: 20*log10(0.5) = -6.0206 dB.
	for ch, got := range levels {
		if math.Abs(got-(-6.0206)) > 0.05 {
			t.Errorf("channel %d: level = %.4f dB, want -6.02 dB", ch, got)
		}
	}
}

func TestAverageFilterRMSLowpass(t *testing.T) {
	f := newFilter(t, WithAlgorithm(AlgorithmRMS))
	sig := testutil.Replicate(testutil.DeterministicSine(23000, testRate, 0.5, 8*testBlock), 2)

	if got := feed(t, f, sig)[0]; got > -60 {
		t.Fatalf("23 kHz sine level = %.2f dB, want strongly attenuated", got)
	}
}

func TestAverageFilterBS1770StereoSine(t *testing.T) {
	f := newFilter(t, WithAlgorithm(AlgorithmITUBS1770))
	sig := testutil.Replicate(testutil.DeterministicSine(997, testRate, 1, 8*testBlock), 2)

	levels := feed(t, f, sig)

	// Full-scale 997 Hz on both channels reads 0 LKFS.
	if math.Abs(levels[0]) > 0.1 {
		t.Fatalf("loudness = %.4f, want 0 +- 0.1", levels[0])
	}
	if levels[1] != MinimumDecibel {
		t.Fatalf("channel 1 = %v, want floor", levels[1])
	}
}

func TestAverageFilterBS1770ChannelWeights(t *testing.T) {
	sine := testutil.DeterministicSine(997, testRate, 0.5, 8*testBlock)

	loudnessOn := func(active int) float64 {
		f := newFilter(t, WithChannels(6))
		planar := make([][]float64, 6)
		for ch := range planar {
			planar[ch] = make([]float64, len(sine))
		}
		copy(planar[active], sine)

		return feed(t, f, planar)[0]
	}

	front := loudnessOn(0)
	if got := loudnessOn(2); math.Abs(got-front) > 1e-9 {
		t.Errorf("centre = %.4f, want %.4f", got, front)
	}
	if got := loudnessOn(3); got != MinimumDecibel {
		t.Errorf("LFE only = %.4f, want floor", got)
	}

	want := front + 10*math.Log10(surroundWeight)
	if got := loudnessOn(4); math.Abs(got-want) > 1e-9 {
		t.Errorf("surround = %.4f, want %.4f", got, want)
	}
}

func TestAverageFilterSilenceReadsFloor(t *testing.T) {
	for _, a := range []Algorithm{AlgorithmRMS, AlgorithmITUBS1770} {
		f := newFilter(t, WithAlgorithm(a))
		levels := feed(t, f, testutil.Replicate(make([]float64, 4*testBlock), 2))

		for ch, got := range levels {
			if got != MinimumDecibel {
				t.Errorf("%v: channel %d = %v, want %v", a, ch, got, MinimumDecibel)
			}
		}
	}
}

func TestAverageFilterReconfigureClearsHistory(t *testing.T) {
	loud := testutil.Replicate(testutil.DeterministicSine(997, testRate, 0.9, 4*testBlock), 2)
	silent := testutil.Replicate(make([]float64, testBlock), 2)

	tests := []struct {
		name        string
		reconfigure func(f *AverageFilter) error
		wantFloor   bool
	}{
		{"none", func(*AverageFilter) error { return nil }, false},
		{"sample rate", func(f *AverageFilter) error { return f.SetSampleRate(44100) }, true},
		{"algorithm", func(f *AverageFilter) error { return f.SetAlgorithm(AlgorithmITUBS1770) }, true},
		{"reset", func(f *AverageFilter) error { f.Reset(); return nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFilter(t, WithAlgorithm(AlgorithmRMS))
			feed(t, f, loud)

			if err := tt.reconfigure(f); err != nil {
				t.Fatalf("reconfigure: %v", err)
			}

			got := feed(t, f, silent)[0]
			if tt.wantFloor && got != MinimumDecibel {
				t.Fatalf("level after reconfigure = %v, want floor", got)
			}
			if !tt.wantFloor && got == MinimumDecibel {
				t.Fatal("expected the overlap tail to carry into the next block")
			}
		})
	}
}

func TestAverageFilterSetAlgorithm(t *testing.T) {
	f := newFilter(t, WithAlgorithm(AlgorithmRMS))

	if err := f.SetAlgorithm(Algorithm(-3)); err != nil {
		t.Fatalf("SetAlgorithm: %v", err)
	}
	if f.Algorithm() != AlgorithmITUBS1770 {
		t.Fatalf("Algorithm = %v, want BS.1770", f.Algorithm())
	}
}

func TestAverageFilterSetSampleRate(t *testing.T) {
	f := newFilter(t)

	if err := f.SetSampleRate(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if err := f.SetSampleRate(96000); err != nil {
		t.Fatalf("SetSampleRate: %v", err)
	}
	if f.SampleRate() != 96000 {
		t.Fatalf("SampleRate = %v, want 96000", f.SampleRate())
	}
}

func TestAverageFilterCopyFromShape(t *testing.T) {
	f := newFilter(t)

	err := f.CopyFrom(testutil.Replicate(make([]float64, testBlock), 3))
	if !errors.Is(err, ErrBlockMismatch) {
		t.Fatalf("channel mismatch error = %v, want ErrBlockMismatch", err)
	}

	err = f.CopyFrom(testutil.Replicate(make([]float64, testBlock/2), 2))
	if !errors.Is(err, ErrBlockMismatch) {
		t.Fatalf("length mismatch error = %v, want ErrBlockMismatch", err)
	}
}

func TestAverageFilterBlockExposesFilteredSignal(t *testing.T) {
	f := newFilter(t, WithAlgorithm(AlgorithmRMS), WithChannels(1))
	feed(t, f, [][]float64{testutil.DC(0.25, 4*testBlock)})

	testutil.RequireSliceNearlyEqual(t, f.Block(0), testutil.DC(0.25, testBlock), 1e-9)
}

func TestAverageFilterCopyFromDoesNotAllocate(t *testing.T) {
	f := newFilter(t)
	block := testutil.Replicate(testutil.DeterministicNoise(3, 0.5, testBlock), 2)

	allocs := testing.AllocsPerRun(20, func() {
		if err := f.CopyFrom(block); err != nil {
			t.Fatal(err)
		}
	})
	if allocs != 0 {
		t.Fatalf("CopyFrom allocated %.1f times per run", allocs)
	}
}

func TestChannelWeight(t *testing.T) {
	want := []float64{1, 1, 1, 0, surroundWeight, surroundWeight, 0, 0}
	for ch, w := range want {
		if got := ChannelWeight(ch); got != w {
			t.Errorf("ChannelWeight(%d) = %v, want %v", ch, got, w)
		}
	}
}
