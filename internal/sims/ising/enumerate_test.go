package ising

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func binaryEnumerator(t *testing.T, w, h int, opts ...Option) *Enumerator {
	t.Helper()
	en, err := NewEnumerator(smallConfig(w, h), opts...)
	require.NoError(t, err)
	return en
}

func TestEnumerationCompleteness(t *testing.T) {
	en := binaryEnumerator(t, 2, 2)
	rec, err := en.Distribution()
	require.NoError(t, err)

	assert.Equal(t, uint64(16), rec.TotalStates)
	require.Len(t, rec.States, 16)
	counts := rec.EnergyCounts()
	assert.Equal(t, uint64(16), counts.Total())
	assert.Equal(t, EnergyHistogram{-4: 2, 0: 12, 4: 2}, counts)
	assert.Equal(t, []float64{-4, 0, 4}, counts.Levels())
}

func TestEnumerationKnownHistograms(t *testing.T) {
	cases := []struct {
		w, h int
		want EnergyHistogram
	}{
		{3, 3, EnergyHistogram{-9: 2, -5: 18, -3: 48, -1: 198, 1: 144, 3: 102}},
		{3, 2, EnergyHistogram{-6: 2, -2: 18, 0: 26, 2: 12, 4: 6}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%dx%d", tc.h, tc.w), func(t *testing.T) {
			rec, err := binaryEnumerator(t, tc.w, tc.h).Distribution()
			require.NoError(t, err)
			assert.Equal(t, tc.want, rec.EnergyCounts())
		})
	}
}

func TestEnumerationOrderAndSpinCounts(t *testing.T) {
	seq, err := binaryEnumerator(t, 2, 2).All()
	require.NoError(t, err)

	var states []Microstate
	for ms := range seq {
		states = append(states, ms)
	}
	require.Len(t, states, 16)

	assert.Equal(t, []float64{-1, -1, -1, -1}, states[0].State.Cells())
	assert.Equal(t, []float64{-1, -1, -1, 1}, states[1].State.Cells())
	assert.Equal(t, []float64{1, 1, 1, 1}, states[15].State.Cells())
	for i, ms := range states {
		assert.Equal(t, uint64(i), ms.Index)
	}

	assert.Equal(t, map[float64]int{-1: 4, 1: 0}, states[0].SpinCounts, "absent values must be zero-filled")
	assert.Equal(t, map[float64]int{-4: 4}, states[0].SiteEnergyDist)
	assert.Equal(t, map[float64]int{-1: 3, 1: 1}, states[1].SpinCounts)
}

func TestEnumerationSpinFlipSymmetry(t *testing.T) {
	rec, err := binaryEnumerator(t, 3, 3).Distribution()
	require.NoError(t, err)

	energy := make(map[string]float64, len(rec.States))
	for _, ms := range rec.States {
		energy[fmt.Sprint(ms.State.Cells())] = ms.Energy
	}
	for _, ms := range rec.States {
		flipped := ms.State.Clone()
		for i, v := range flipped.Cells() {
			flipped.Cells()[i] = -v
		}
		e, ok := energy[fmt.Sprint(flipped.Cells())]
		require.True(t, ok, "flipped counterpart of %v missing", ms.State.Cells())
		assert.Equal(t, ms.Energy, e)
	}
}

func TestEnumerationAsymmetricStates(t *testing.T) {
	cfg := smallConfig(2, 1)
	cfg.States = []float64{-1, 2}
	en, err := NewEnumerator(cfg)
	require.NoError(t, err)
	rec, err := en.Distribution()
	require.NoError(t, err)

	assert.Equal(t, uint64(4), rec.TotalStates)
	assert.Equal(t, EnergyHistogram{-8: 1, -2: 1, -0.5: 2}, rec.EnergyCounts())
	assert.Equal(t, map[float64]int{-1: 2, 2: 0}, rec.States[0].SpinCounts)
}

func TestComplexityGuard(t *testing.T) {
	en := binaryEnumerator(t, 5, 5)
	_, err := en.TotalStates()
	assert.ErrorIs(t, err, ErrComplexityGuard)
	_, err = en.All()
	assert.ErrorIs(t, err, ErrComplexityGuard)
	_, err = en.Distribution()
	assert.ErrorIs(t, err, ErrComplexityGuard)

	n, err := binaryEnumerator(t, 5, 5, WithMaxStates(0)).TotalStates()
	require.NoError(t, err)
	assert.Equal(t, uint64(1)<<25, n)

	cfg := smallConfig(10, 10)
	cfg.States = []float64{-1, 0, 1}
	big, err := NewEnumerator(cfg, WithMaxStates(0))
	require.NoError(t, err)
	_, err = big.TotalStates()
	var guard *ComplexityGuardError
	require.ErrorAs(t, err, &guard)
	assert.True(t, guard.Overflow)
}

func TestDistributionPreallocationIsBounded(t *testing.T) {
	assert.Equal(t, 16, preallocStates(16))
	assert.Equal(t, int(DefaultMaxStates), preallocStates(DefaultMaxStates))
	assert.Equal(t, int(DefaultMaxStates), preallocStates(uint64(1)<<49))
	assert.Equal(t, int(DefaultMaxStates), preallocStates(math.MaxUint64))

	rec, err := binaryEnumerator(t, 2, 2, WithMaxStates(0)).Distribution()
	require.NoError(t, err)
	assert.Len(t, rec.States, 16)
}

func TestRangePartitionsCoverAll(t *testing.T) {
	en := binaryEnumerator(t, 2, 2)
	var got []uint64
	for _, bounds := range [][2]uint64{{0, 7}, {7, 7}, {7, 16}} {
		seq, err := en.Range(bounds[0], bounds[1])
		require.NoError(t, err)
		for ms := range seq {
			got = append(got, ms.Index)
			whole, err := en.Evaluate(ms.State)
			require.NoError(t, err)
			assert.Equal(t, whole.Energy, ms.Energy)
		}
	}
	require.Len(t, got, 16)
	for i, idx := range got {
		assert.Equal(t, uint64(i), idx)
	}

	_, err := en.Range(3, 2)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = en.Range(0, 17)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestRangeStopsEarly(t *testing.T) {
	seq, err := binaryEnumerator(t, 3, 3).All()
	require.NoError(t, err)
	n := 0
	for range seq {
		n++
		if n == 5 {
			break
		}
	}
	assert.Equal(t, 5, n)
}

func TestPartitionedEnergyCountsMatchSerial(t *testing.T) {
	for _, workers := range []int{1, 3, 8, 600} {
		en := binaryEnumerator(t, 3, 3, WithWorkers(workers))
		got, err := en.EnergyCounts(context.Background())
		require.NoError(t, err)
		rec, err := en.Distribution()
		require.NoError(t, err)
		assert.Equal(t, rec.EnergyCounts(), got, "workers=%d", workers)
	}
}

func TestPartitionedEnergyCountsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := binaryEnumerator(t, 3, 3, WithWorkers(2)).EnergyCounts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMergeHistogramsOrderIndependent(t *testing.T) {
	a := EnergyHistogram{-4: 1, 0: 3}
	b := EnergyHistogram{0: 2, 4: 5}
	c := EnergyHistogram{-4: 1}
	assert.Equal(t, MergeHistograms(a, b, c), MergeHistograms(c, MergeHistograms(b, a)))
	assert.Equal(t, uint64(12), MergeHistograms(a, b, c).Total())
}
