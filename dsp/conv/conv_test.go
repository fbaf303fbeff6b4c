package conv

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-kmeter/internal/testutil"
)

func TestDirect(t *testing.T) {
	tests := []struct {
		name string
		x, h []float64
		want []float64
	}{
		{"identity", []float64{0.5, -1, 2}, []float64{1}, []float64{0.5, -1, 2}},
		{"delay two", []float64{1, 2}, []float64{0, 0, 1}, []float64{0, 0, 1, 2}},
		{"box", []float64{1, 2, 3}, []float64{1, 1, 1}, []float64{1, 3, 6, 5, 3}},
		{"triangle", []float64{1, 2, 1}, []float64{1, 2, 1}, []float64{1, 4, 6, 4, 1}},
		{"short signal", []float64{2}, []float64{0.25, 0.5, 0.25}, []float64{0.5, 1, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Direct(tt.x, tt.h)
			if err != nil {
				t.Fatal(err)
			}
			testutil.RequireSliceNearlyEqual(t, got, tt.want, 1e-12)
		})
	}
}

func TestDirectCommutes(t *testing.T) {
	x := testutil.DeterministicNoise(5, 1, 100)
	h := WindowedSincLowpass(33, 0.2)

	xh, _ := Direct(x, h)
	hx, _ := Direct(h, x)
	testutil.RequireSliceNearlyEqual(t, xh, hx, 1e-12)
}

func TestDirectErrors(t *testing.T) {
	if _, err := Direct(nil, []float64{1}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty input: err = %v", err)
	}
	if _, err := Direct([]float64{1}, nil); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("empty kernel: err = %v", err)
	}
}

func TestNextPowerOf2(t *testing.T) {
	for in, want := range map[int]int{-3: 1, 0: 1, 1: 1, 2: 2, 3: 4, 1000: 1024, 2048: 2048, 2049: 4096} {
		if got := nextPowerOf2(in); got != want {
			t.Errorf("nextPowerOf2(%d) = %d, want %d", in, got, want)
		}
	}
}
