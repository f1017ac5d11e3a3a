package ising

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDistribution2x2(t *testing.T) {
	rec, err := binaryEnumerator(t, 2, 2).Distribution()
	require.NoError(t, err)

	site := ExtractDistribution(rec.SiteEnergyDists())
	assert.Equal(t, []float64{-4, 0, 4}, site.States)
	assert.Equal(t, []SignatureCount{
		{Vector: []int{4, 0, 0}, Count: 2},
		{Vector: []int{1, 2, 1}, Count: 8},
		{Vector: []int{0, 4, 0}, Count: 4},
		{Vector: []int{0, 0, 4}, Count: 2},
	}, site.Counts)
	assert.Equal(t, 16, site.Total())
	for _, k := range site.States {
		assert.False(t, math.Signbit(k) && k == 0, "site energy keys must not contain -0")
	}

	spin := ExtractDistribution(rec.SpinDists())
	assert.Equal(t, []float64{-1, 1}, spin.States)
	assert.Equal(t, []SignatureCount{
		{Vector: []int{4, 0}, Count: 1},
		{Vector: []int{3, 1}, Count: 4},
		{Vector: []int{2, 2}, Count: 6},
		{Vector: []int{1, 3}, Count: 4},
		{Vector: []int{0, 4}, Count: 1},
	}, spin.Counts)
}

func TestExtractZeroFillsAndLookup(t *testing.T) {
	ex := ExtractDistribution([]map[float64]int{
		{2: 1},
		{-1: 3},
		{2: 1},
	})
	assert.Equal(t, []float64{-1, 2}, ex.States)
	assert.Equal(t, 2, ex.Lookup([]int{0, 1}))
	assert.Equal(t, 1, ex.Lookup([]int{3, 0}))
	assert.Equal(t, 0, ex.Lookup([]int{1, 1}))

	empty := ExtractDistribution(nil)
	assert.Empty(t, empty.States)
	assert.Empty(t, empty.Counts)
}

func TestCalcDistribution3x3(t *testing.T) {
	sum, err := CalcDistribution(smallConfig(3, 3))
	require.NoError(t, err)

	assert.Equal(t, uint64(512), sum.TotalStates)
	assert.Len(t, sum.Energies, 512)
	assert.Equal(t, []float64{-4, -2, 0, 2, 4}, sum.SiteEnergy.States)
	assert.Len(t, sum.SiteEnergy.Counts, 12)
	assert.Equal(t, 90, sum.SiteEnergy.Lookup([]int{0, 0, 4, 4, 1}))
	assert.Equal(t, 2, sum.SiteEnergy.Lookup([]int{9, 0, 0, 0, 0}))
	assert.Equal(t, 126, sum.Spin.Lookup([]int{5, 4}))
	assert.Equal(t, 512, sum.Spin.Total())
}

func TestSummarize(t *testing.T) {
	_, err := Summarize(nil)
	assert.Error(t, err)

	ev := newEvolver(t, 4, 4, 21)
	obs, err := ev.Evolve(2, WithSteps(400), WithObserveCounts(40))
	require.NoError(t, err)
	s, err := Summarize(obs)
	require.NoError(t, err)
	assert.Equal(t, len(obs), s.Count)
	assert.LessOrEqual(t, s.MinEnergy, s.MedianEnergy)
	assert.LessOrEqual(t, s.MedianEnergy, s.MaxEnergy)
	assert.GreaterOrEqual(t, s.MeanEnergy, s.MinEnergy)
	assert.LessOrEqual(t, s.MeanEnergy, s.MaxEnergy)
	assert.GreaterOrEqual(t, s.MeanAbsMagnetization, 0.0)
	assert.LessOrEqual(t, s.MeanAbsMagnetization, 1.0)

	fixed, err := Summarize([]Observation{{Energy: -2}, {Energy: 0}, {Energy: 4}})
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, fixed.MeanEnergy, 1e-12)
	assert.Equal(t, 0.0, fixed.MedianEnergy)
	assert.InDelta(t, 3.0550504633, fixed.StdDevEnergy, 1e-9)
}
