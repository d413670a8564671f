package pricing

import (
	"math"
	"testing"
)

func TestNormalCDF_KnownValues(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0.5},
		{1, 0.8413447},
		{-1, 0.1586553},
		{1.96, 0.9750021},
		{-1.96, 0.0249979},
		{3, 0.9986501},
	}
	for _, tt := range tests {
		got := NormalCDF(tt.x)
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("NormalCDF(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestNormalCDF_Symmetry(t *testing.T) {
	for _, x := range []float64{0, 0.1, 0.5, 1, 1.5, 2.33, 4, 7.9} {
		sum := NormalCDF(x) + NormalCDF(-x)
		if math.Abs(sum-1) > 1e-6 {
			t.Errorf("NormalCDF(%v)+NormalCDF(-%v) = %v, want 1", x, x, sum)
		}
	}
}

func TestNormalCDF_FastPaths(t *testing.T) {
	if got := NormalCDF(8.1); got != 1 {
		t.Errorf("NormalCDF(8.1) = %v, want exactly 1", got)
	}
	if got := NormalCDF(-8.1); got != 0 {
		t.Errorf("NormalCDF(-8.1) = %v, want exactly 0", got)
	}
}

func TestNormalCDF_Monotonic(t *testing.T) {
	prev := NormalCDF(-9)
	for x := -8.5; x <= 8.5; x += 0.25 {
		cur := NormalCDF(x)
		if cur < prev {
			t.Fatalf("NormalCDF not monotonic at x=%v: %v < %v", x, cur, prev)
		}
		if cur < 0 || cur > 1 {
			t.Fatalf("NormalCDF(%v) = %v outside [0,1]", x, cur)
		}
		prev = cur
	}
}
