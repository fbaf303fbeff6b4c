package core

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		name              string
		value, lo, hi, want float64
	}{
		{"inside", 0.5, 0, 1, 0.5},
		{"below", -1, 0, 1, 0},
		{"above", 2, 0, 1, 1},
		{"swapped bounds", 2, 1, 0, 1},
		{"correlation range", -1.5, -1, 1, -1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.value, tt.lo, tt.hi); got != tt.want {
			t.Errorf("%s: Clamp(%v, %v, %v) = %v, want %v", tt.name, tt.value, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestFlushDenormals(t *testing.T) {
	for in, want := range map[float64]float64{
		1e-25:  0,
		-1e-25: 0,
		5e-324: 0,
		1e-10:  1e-10,
		-0.5:   -0.5,
	} {
		if got := FlushDenormals(in); got != want {
			t.Errorf("FlushDenormals(%g) = %g, want %g", in, got, want)
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for n, want := range map[int]bool{
		1: true, 2: true, 1024: true, 8192: true,
		-4: false, 0: false, 3: false, 1000: false, 1023: false,
	} {
		if got := IsPowerOfTwo(n); got != want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", n, got, want)
		}
	}
}
