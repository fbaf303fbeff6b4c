package testutil

import (
	"math"
	"testing"
)

func TestSines(t *testing.T) {
	s := DeterministicSine(1000, 48000, 0.5, 48)
	if len(s) != 48 || s[0] != 0 {
		t.Fatalf("len %d, s[0] %v", len(s), s[0])
	}
	RequireNearlyEqual(t, "quarter period", s[12], 0.5, 1e-12)

	c := PhasedSine(1000, 48000, 0.5, math.Pi/2, 48)
	RequireNearlyEqual(t, "cosine start", c[0], 0.5, 1e-12)
	RequireNearlyEqual(t, "cosine quarter", c[12], 0, 1e-12)
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 0.25, 4096)
	b := DeterministicNoise(42, 0.25, 4096)
	c := DeterministicNoise(43, 0.25, 4096)

	RequireSliceNearlyEqual(t, a, b, 0)

	differs := false
	for i, v := range a {
		if math.Abs(v) > 0.25 {
			t.Fatalf("sample %d = %v exceeds amplitude", i, v)
		}
		differs = differs || v != c[i]
	}
	if !differs {
		t.Fatal("seeds 42 and 43 gave identical noise")
	}
}

func TestImpulseAndDC(t *testing.T) {
	RequireSliceNearlyEqual(t, Impulse(4, 2), []float64{0, 0, 1, 0}, 0)
	RequireSliceNearlyEqual(t, Impulse(4, 4), []float64{0, 0, 0, 0}, 0)
	RequireSliceNearlyEqual(t, Impulse(4, -1), []float64{0, 0, 0, 0}, 0)
	RequireSliceNearlyEqual(t, DC(-0.5, 3), []float64{-0.5, -0.5, -0.5}, 0)
	RequireSliceNearlyEqual(t, Ones(2), []float64{1, 1}, 0)
}

func TestReplicateAndChunk(t *testing.T) {
	src := []float64{1, 2, 3, 4}
	planar := Replicate(src, 2)

	planar[0][0] = 9
	if planar[1][0] != 1 || src[0] != 1 {
		t.Fatal("Replicate must copy per channel")
	}

	view := Chunk(planar, 1, 2)
	RequireSliceNearlyEqual(t, view[1], []float64{2, 3}, 0)

	view[1][0] = 7
	if planar[1][1] != 7 {
		t.Fatal("Chunk must share memory with its source")
	}
}
