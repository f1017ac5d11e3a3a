package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// IntN returns a random int in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Float64 returns a uniform draw from [0, 1).
func (r *RNG) Float64() float64 {
	return r.r.Float64()
}

// Pick returns a uniformly chosen element of values. values must not be empty.
func Pick[T any](r *RNG, values []T) T {
	return values[r.r.IntN(len(values))]
}

// FillFrom fills buf with values drawn independently and uniformly from values.
func FillFrom[T any](r *RNG, buf, values []T) {
	for i := range buf {
		buf[i] = Pick(r, values)
	}
}
