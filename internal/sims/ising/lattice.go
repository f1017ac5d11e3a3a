package ising

import (
	"log/slog"

	"mad-ising/internal/core"
	pcore "mad-ising/pkg/core"
)

// EnergyNormalization divides the raw site sum in Energy. Every bond is
// visited from both endpoints and the reference values were produced with
// this constant, so it must not change.
const EnergyNormalization = 4.0

// Lattice owns a toroidal grid of spins drawn from Config.States.
type Lattice struct {
	cfg  Config
	grid *core.SpinGrid
	rng  *pcore.RNG
	log  *slog.Logger
}

// NewLattice validates cfg and returns a lattice whose cells are drawn
// uniformly from cfg.States.
func NewLattice(cfg Config, opts ...Option) (*Lattice, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(cfg, opts)
	l := &Lattice{
		cfg:  cfg,
		grid: core.NewSpinGrid(cfg.Width, cfg.Height),
		rng:  o.rng,
		log:  o.logger,
	}
	l.Randomize()
	return l, nil
}

// Randomize draws every cell independently and uniformly from the state set.
func (l *Lattice) Randomize() {
	pcore.FillFrom(l.rng, l.grid.Cells(), l.cfg.States)
	l.log.Debug("lattice initialized", sizeAttr(l.cfg.Size()), "mode", "random")
}

// Initialize sets the lattice to an explicit state, which must match the
// lattice shape and hold only member values. The lattice keeps its own copy.
// Use Randomize for a random draw.
func (l *Lattice) Initialize(state *core.SpinGrid) error {
	if state == nil {
		return configErr("state", "explicit state is nil")
	}
	if state.W != l.cfg.Width || state.H != l.cfg.Height {
		return configErr("state", "shape %dx%d does not match lattice %dx%d",
			state.H, state.W, l.cfg.Height, l.cfg.Width)
	}
	for i, v := range state.Cells() {
		if !l.cfg.hasState(v) {
			return configErr("state", "cell %d holds %v which is not in %v", i, v, l.cfg.States)
		}
	}
	l.grid = state.Clone()
	l.log.Debug("lattice initialized", sizeAttr(l.cfg.Size()), "mode", "explicit")
	return nil
}

// Config returns the lattice configuration.
func (l *Lattice) Config() Config { return l.cfg }

// Size reports the lattice dimensions.
func (l *Lattice) Size() core.Size { return l.cfg.Size() }

// Grid exposes the live grid. Callers must not retain it across steps.
func (l *Lattice) Grid() *core.SpinGrid { return l.grid }

// Snapshot returns a value copy of the current state.
func (l *Lattice) Snapshot() *core.SpinGrid { return l.grid.Clone() }

// Spin returns the value at c.
func (l *Lattice) Spin(c core.Coord) float64 { return l.grid.At(c) }

// Neighbors returns the four periodic neighbour spins of c in the order
// up, down, left, right.
func (l *Lattice) Neighbors(c core.Coord) [4]float64 { return l.grid.Neighbors(c) }

// Energy returns the total energy of the current state.
func (l *Lattice) Energy() float64 { return Energy(l.grid) }

// EnergyOf returns the energy of an external state with this lattice's shape
// without touching the lattice.
func (l *Lattice) EnergyOf(g *core.SpinGrid) (float64, error) {
	if g == nil || g.W != l.cfg.Width || g.H != l.cfg.Height {
		return 0, configErr("state", "shape does not match lattice %dx%d", l.cfg.Height, l.cfg.Width)
	}
	return Energy(g), nil
}

// DeltaEnergy returns 2*s*sum(neighbours) for the spin at c, the Metropolis
// cost of negating it. The lattice is not modified.
func (l *Lattice) DeltaEnergy(c core.Coord) float64 { return DeltaEnergy(l.grid, c) }

// FlipEnergyChange returns the change in Energy caused by negating the spin
// at c, valid for lattices of at least 2x2 where no cell neighbours itself.
func (l *Lattice) FlipEnergyChange(c core.Coord) float64 {
	return l.DeltaEnergy(c) * 2 / EnergyNormalization
}

// flip negates the spin at c.
func (l *Lattice) flip(c core.Coord) {
	l.grid.Set(c, -l.grid.At(c))
}

// Energy returns the sum over all sites of SiteEnergy divided once by
// EnergyNormalization.
func Energy(g *core.SpinGrid) float64 {
	total := 0.0
	for i := 0; i < g.H; i++ {
		for j := 0; j < g.W; j++ {
			total += SiteEnergy(g, core.Coord{Row: i, Col: j})
		}
	}
	return total / EnergyNormalization
}

// SiteEnergy returns -s*sum(neighbours) for the site at c. A zero result is
// always +0 so it keys maps and prints consistently.
func SiteEnergy(g *core.SpinGrid, c core.Coord) float64 {
	e := -g.At(c) * g.NeighborSum(c)
	return e + 0
}

// DeltaEnergy returns 2*s*sum(neighbours) for the site at c.
func DeltaEnergy(g *core.SpinGrid, c core.Coord) float64 {
	return 2 * g.At(c) * g.NeighborSum(c)
}
