package ising

import (
	"iter"
	"log/slog"
	"math/bits"

	"mad-ising/internal/core"
)

// Microstate is one complete assignment of spins with its derived
// quantities.
type Microstate struct {
	// Index is the position of the state in Cartesian product order, where
	// the last cell varies fastest.
	Index  uint64
	Energy float64
	State  *core.SpinGrid
	// SiteEnergyDist maps a per-site contribution -s*sum(neighbours) to the
	// number of sites exhibiting it.
	SiteEnergyDist map[float64]int
	// SpinCounts maps every value of the state set to its occurrence count,
	// including values that do not occur.
	SpinCounts map[float64]int
}

// Enumerator walks the full state space of a small lattice. The walk is
// exponential in lattice area; the guard rejects state spaces above the
// configured limit before any state is produced.
type Enumerator struct {
	cfg       Config
	log       *slog.Logger
	maxStates uint64
	workers   int
}

// NewEnumerator validates cfg and returns an enumerator over its state space.
func NewEnumerator(cfg Config, opts ...Option) (*Enumerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(cfg, opts)
	return &Enumerator{cfg: cfg, log: o.logger, maxStates: o.maxStates, workers: o.workers}, nil
}

// Config returns the enumerated lattice configuration.
func (e *Enumerator) Config() Config { return e.cfg }

// TotalStates returns |states|^(width*height), or a ComplexityGuardError if
// that exceeds the guard or does not fit in a uint64.
func (e *Enumerator) TotalStates() (uint64, error) {
	n, overflow := stateSpaceSize(uint64(len(e.cfg.States)), e.cfg.Size().Area())
	if overflow {
		return 0, &ComplexityGuardError{Overflow: true, Limit: e.maxStates}
	}
	if e.maxStates > 0 && n > e.maxStates {
		return 0, &ComplexityGuardError{States: n, Limit: e.maxStates}
	}
	return n, nil
}

// preallocStates bounds the up-front capacity of a distribution record so a
// disabled guard cannot request an impossible allocation.
func preallocStates(total uint64) int {
	return int(min(total, DefaultMaxStates))
}

func stateSpaceSize(k uint64, cells int) (uint64, bool) {
	n := uint64(1)
	for i := 0; i < cells; i++ {
		hi, lo := bits.Mul64(n, k)
		if hi != 0 {
			return 0, true
		}
		n = lo
	}
	return n, false
}

// All returns a lazy sequence over every microstate.
func (e *Enumerator) All() (iter.Seq[Microstate], error) {
	total, err := e.TotalStates()
	if err != nil {
		return nil, err
	}
	return e.Range(0, total)
}

// Range returns a lazy sequence over the microstates with index in [lo, hi).
// Disjoint ranges can be walked by independent workers.
func (e *Enumerator) Range(lo, hi uint64) (iter.Seq[Microstate], error) {
	total, err := e.TotalStates()
	if err != nil {
		return nil, err
	}
	if lo > hi || hi > total {
		return nil, &InvalidParameterError{Name: "range", Value: [2]uint64{lo, hi}, Reason: "must satisfy lo <= hi <= total states"}
	}
	return func(yield func(Microstate) bool) {
		if lo == hi {
			return
		}
		k := len(e.cfg.States)
		digits := e.decode(lo)
		grid := core.NewSpinGrid(e.cfg.Width, e.cfg.Height)
		for idx := lo; idx < hi; idx++ {
			cells := grid.Cells()
			for i, d := range digits {
				cells[i] = e.cfg.States[d]
			}
			if !yield(e.evaluate(idx, grid.Clone())) {
				return
			}
			// odometer increment, last cell fastest
			for i := len(digits) - 1; i >= 0; i-- {
				digits[i]++
				if digits[i] < k {
					break
				}
				digits[i] = 0
			}
		}
	}, nil
}

// decode converts a product index into per-cell state indexes.
func (e *Enumerator) decode(idx uint64) []int {
	k := uint64(len(e.cfg.States))
	digits := make([]int, e.cfg.Width*e.cfg.Height)
	for i := len(digits) - 1; i >= 0; i-- {
		digits[i] = int(idx % k)
		idx /= k
	}
	return digits
}

// Evaluate computes the derived quantities of an arbitrary state of this
// lattice's shape.
func (e *Enumerator) Evaluate(g *core.SpinGrid) (Microstate, error) {
	if g == nil || g.W != e.cfg.Width || g.H != e.cfg.Height {
		return Microstate{}, configErr("state", "shape does not match lattice %dx%d", e.cfg.Height, e.cfg.Width)
	}
	return e.evaluate(0, g.Clone()), nil
}

func (e *Enumerator) evaluate(idx uint64, g *core.SpinGrid) Microstate {
	siteDist := make(map[float64]int)
	for i := 0; i < g.H; i++ {
		for j := 0; j < g.W; j++ {
			siteDist[SiteEnergy(g, core.Coord{Row: i, Col: j})]++
		}
	}
	spinCounts := make(map[float64]int, len(e.cfg.States))
	for _, s := range e.cfg.States {
		spinCounts[s] = 0
	}
	for _, v := range g.Cells() {
		spinCounts[v]++
	}
	return Microstate{
		Index:          idx,
		Energy:         Energy(g),
		State:          g,
		SiteEnergyDist: siteDist,
		SpinCounts:     spinCounts,
	}
}

// Distribution enumerates every microstate and collects the records.
func (e *Enumerator) Distribution() (*DistributionRecord, error) {
	total, err := e.TotalStates()
	if err != nil {
		return nil, err
	}
	seq, err := e.Range(0, total)
	if err != nil {
		return nil, err
	}
	e.log.Debug("enumerating distribution", sizeAttr(e.cfg.Size()), "states", len(e.cfg.States), "total_states", total)
	rec := &DistributionRecord{TotalStates: total, States: make([]Microstate, 0, preallocStates(total))}
	for ms := range seq {
		rec.States = append(rec.States, ms)
	}
	e.log.Debug("distribution complete", "total_states", total, "distinct_energies", len(rec.EnergyCounts()))
	return rec, nil
}
