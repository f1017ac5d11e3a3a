package ising

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"mad-ising/internal/core"
)

// Observation is one sample taken during Evolve. State is a value copy
// taken at sampling time.
type Observation struct {
	Step   int
	Energy float64
	State  *core.SpinGrid
}

// Magnetization returns the mean spin of the observed state.
func (o Observation) Magnetization() float64 {
	if o.State == nil {
		return 0
	}
	return Magnetization(o.State)
}

// Magnetization returns the mean spin value over all cells of g.
func Magnetization(g *core.SpinGrid) float64 {
	cells := g.Cells()
	if len(cells) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range cells {
		sum += v
	}
	return sum / float64(len(cells))
}

// Summary aggregates the energies and magnetisations of an observation run.
type Summary struct {
	Count int

	MeanEnergy   float64
	StdDevEnergy float64
	MedianEnergy float64
	MinEnergy    float64
	MaxEnergy    float64

	MeanAbsMagnetization float64
}

// Summarize computes summary statistics over obs. Repeated states are
// counted every time they were observed. StdDevEnergy is the sample standard
// deviation and is NaN for a single observation.
func Summarize(obs []Observation) (Summary, error) {
	if len(obs) == 0 {
		return Summary{}, fmt.Errorf("summarize observations: %w", stats.ErrEmptyInput)
	}
	energies := make(stats.Float64Data, len(obs))
	absMag := make([]float64, len(obs))
	for i, o := range obs {
		energies[i] = o.Energy
		absMag[i] = math.Abs(o.Magnetization())
	}

	median, err := energies.Median()
	if err != nil {
		return Summary{}, fmt.Errorf("summarize observations: median: %w", err)
	}
	lo, err := energies.Min()
	if err != nil {
		return Summary{}, fmt.Errorf("summarize observations: min: %w", err)
	}
	hi, err := energies.Max()
	if err != nil {
		return Summary{}, fmt.Errorf("summarize observations: max: %w", err)
	}
	mean, std := stat.MeanStdDev(energies, nil)

	return Summary{
		Count:                len(obs),
		MeanEnergy:           mean,
		StdDevEnergy:         std,
		MedianEnergy:         median,
		MinEnergy:            lo,
		MaxEnergy:            hi,
		MeanAbsMagnetization: stat.Mean(absMag, nil),
	}, nil
}
