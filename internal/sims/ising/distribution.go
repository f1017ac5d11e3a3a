package ising

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// DistributionRecord is the result of a full enumeration. It is not modified
// after Distribution returns.
type DistributionRecord struct {
	TotalStates uint64
	States      []Microstate
}

// Energies returns the total energy of each microstate in enumeration order.
func (d *DistributionRecord) Energies() []float64 {
	out := make([]float64, len(d.States))
	for i, s := range d.States {
		out[i] = s.Energy
	}
	return out
}

// SiteEnergyDists returns the per-site energy histogram of each microstate.
func (d *DistributionRecord) SiteEnergyDists() []map[float64]int {
	out := make([]map[float64]int, len(d.States))
	for i, s := range d.States {
		out[i] = s.SiteEnergyDist
	}
	return out
}

// SpinDists returns the per-value spin counts of each microstate.
func (d *DistributionRecord) SpinDists() []map[float64]int {
	out := make([]map[float64]int, len(d.States))
	for i, s := range d.States {
		out[i] = s.SpinCounts
	}
	return out
}

// EnergyCounts groups microstates by total energy.
func (d *DistributionRecord) EnergyCounts() EnergyHistogram {
	h := make(EnergyHistogram)
	for _, s := range d.States {
		h[s.Energy]++
	}
	return h
}

// EnergyHistogram counts microstates per total energy. Merging is
// commutative and associative.
type EnergyHistogram map[float64]uint64

// Add merges other into h.
func (h EnergyHistogram) Add(other EnergyHistogram) {
	for e, n := range other {
		h[e] += n
	}
}

// Total returns the number of microstates counted.
func (h EnergyHistogram) Total() uint64 {
	var n uint64
	for _, c := range h {
		n += c
	}
	return n
}

// Levels returns the distinct energies in ascending order.
func (h EnergyHistogram) Levels() []float64 {
	return slices.Sorted(maps.Keys(h))
}

// MergeHistograms returns a new histogram holding the sum of hs.
func MergeHistograms(hs ...EnergyHistogram) EnergyHistogram {
	out := make(EnergyHistogram)
	for _, h := range hs {
		out.Add(h)
	}
	return out
}

// SignatureCount is one distinct count vector and the number of microstates
// sharing it.
type SignatureCount struct {
	Vector []int
	Count  int
}

// Extraction groups histograms by their exact signature. States holds the
// sorted distinct keys observed across all histograms and fixes the position
// of each key in every Vector; absent keys count as zero. Counts is ordered
// by first appearance.
type Extraction struct {
	States []float64
	Counts []SignatureCount

	index map[string]int
}

// ExtractDistribution builds the signature grouping of dists.
func ExtractDistribution(dists []map[float64]int) Extraction {
	keys := make(map[float64]struct{})
	for _, d := range dists {
		for k := range d {
			keys[k] = struct{}{}
		}
	}
	ex := Extraction{
		States: slices.Sorted(maps.Keys(keys)),
		Counts: []SignatureCount{},
		index:  make(map[string]int),
	}
	for _, d := range dists {
		vec := make([]int, len(ex.States))
		for i, k := range ex.States {
			vec[i] = d[k]
		}
		key := vectorKey(vec)
		if pos, ok := ex.index[key]; ok {
			ex.Counts[pos].Count++
			continue
		}
		ex.index[key] = len(ex.Counts)
		ex.Counts = append(ex.Counts, SignatureCount{Vector: vec, Count: 1})
	}
	return ex
}

// Lookup returns the number of histograms whose signature equals vector.
func (ex Extraction) Lookup(vector []int) int {
	pos, ok := ex.index[vectorKey(vector)]
	if !ok {
		return 0
	}
	return ex.Counts[pos].Count
}

// Total returns the number of histograms grouped.
func (ex Extraction) Total() int {
	n := 0
	for _, c := range ex.Counts {
		n += c.Count
	}
	return n
}

func vectorKey(vec []int) string {
	var b strings.Builder
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// DistributionSummary bundles the quantities downstream consumers plot from
// an enumeration.
type DistributionSummary struct {
	Energies    []float64
	TotalStates uint64
	SiteEnergy  Extraction
	Spin        Extraction
}

// CalcDistribution enumerates cfg and extracts the per-site energy and spin
// signature groupings.
func CalcDistribution(cfg Config, opts ...Option) (DistributionSummary, error) {
	en, err := NewEnumerator(cfg, opts...)
	if err != nil {
		return DistributionSummary{}, err
	}
	rec, err := en.Distribution()
	if err != nil {
		return DistributionSummary{}, err
	}
	return DistributionSummary{
		Energies:    rec.Energies(),
		TotalStates: rec.TotalStates,
		SiteEnergy:  ExtractDistribution(rec.SiteEnergyDists()),
		Spin:        ExtractDistribution(rec.SpinDists()),
	}, nil
}
