package core

import (
	"slices"
	"testing"
)

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(7)
	b := NewRNG(7)
	for i := 0; i < 64; i++ {
		if x, y := a.IntN(13), b.IntN(13); x != y {
			t.Fatalf("draw %d diverged: %d vs %d", i, x, y)
		}
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("float draw %d diverged: %v vs %v", i, x, y)
		}
	}
}

func TestIntNNonPositive(t *testing.T) {
	r := NewRNG(1)
	if got := r.IntN(0); got != 0 {
		t.Fatalf("IntN(0) = %d, want 0", got)
	}
	if got := r.IntN(-3); got != 0 {
		t.Fatalf("IntN(-3) = %d, want 0", got)
	}
}

func TestFillFromDrawsMembers(t *testing.T) {
	values := []float64{-1, 0.5, 2}
	buf := make([]float64, 200)
	FillFrom(NewRNG(3), buf, values)
	seen := map[float64]bool{}
	for _, v := range buf {
		if !slices.Contains(values, v) {
			t.Fatalf("value %v not drawn from %v", v, values)
		}
		seen[v] = true
	}
	if len(seen) != len(values) {
		t.Fatalf("expected all %d values to appear in 200 draws, saw %d", len(values), len(seen))
	}
}
