package ising

import (
	"log/slog"
	"math"
	"slices"

	"mad-ising/internal/core"
	pcore "mad-ising/pkg/core"
)

// Phase is the evolver's lifecycle state.
type Phase int

const (
	// PhaseIdle means no evolution is in progress.
	PhaseIdle Phase = iota
	// PhaseRunning means an Evolve call is mid-run.
	PhaseRunning
)

func (p Phase) String() string {
	if p == PhaseRunning {
		return "running"
	}
	return "idle"
}

const (
	defaultSteps         = 100
	defaultObserveCounts = 10
)

// Evolver applies single-spin-flip Metropolis updates to a lattice it owns.
type Evolver struct {
	lat         *Lattice
	rng         *pcore.RNG
	log         *slog.Logger
	observables []Observation
	phase       Phase
	steps       int
	accepted    int
}

// NewEvolver wraps lat. The flip negates a spin, so the state set must be
// closed under negation. Pass the same WithRNG option used for the lattice to
// share one deterministic source; otherwise the lattice's source is reused.
func NewEvolver(lat *Lattice, opts ...Option) (*Evolver, error) {
	if lat == nil {
		return nil, configErr("lattice", "must not be nil")
	}
	if !lat.cfg.negationClosed() {
		return nil, configErr("states", "flip by negation requires a symmetric state set, got %v", lat.cfg.States)
	}
	o := buildOptions(lat.cfg, append([]Option{WithRNG(lat.rng), WithLogger(lat.log)}, opts...))
	return &Evolver{
		lat:         lat,
		rng:         o.rng,
		log:         o.logger,
		observables: o.observables,
	}, nil
}

// Lattice returns the evolved lattice.
func (e *Evolver) Lattice() *Lattice { return e.lat }

// Phase reports whether an Evolve call is in progress.
func (e *Evolver) Phase() Phase { return e.phase }

// Observables returns every observation recorded so far, oldest first.
// The slice is a copy; recorded observations cannot be altered through it.
func (e *Evolver) Observables() []Observation { return slices.Clone(e.observables) }

// StepsTaken reports the number of single-spin updates attempted.
func (e *Evolver) StepsTaken() int { return e.steps }

// Accepted reports the number of accepted flips.
func (e *Evolver) Accepted() int { return e.accepted }

// EvolveOne attempts one Metropolis flip at a uniformly chosen site and
// reports whether it was accepted.
func (e *Evolver) EvolveOne(beta float64) (bool, error) {
	if err := validateBeta(beta); err != nil {
		return false, err
	}
	return e.evolveOne(beta), nil
}

func (e *Evolver) evolveOne(beta float64) bool {
	c := core.Coord{Row: e.rng.IntN(e.lat.cfg.Height), Col: e.rng.IntN(e.lat.cfg.Width)}
	delta := e.lat.DeltaEnergy(c)
	accept := delta < 0
	if !accept {
		accept = e.rng.Float64() < AcceptanceProbability(delta, beta)
	}
	if accept {
		e.lat.flip(c)
		e.accepted++
	}
	e.steps++
	return accept
}

// AcceptanceProbability returns exp(-delta/beta) saturated to [0, 1]. beta is
// a divisor, not a multiplier.
func AcceptanceProbability(delta, beta float64) float64 {
	x := -delta / beta
	switch {
	case math.IsNaN(x):
		return 0
	case x >= 0:
		return 1
	}
	return math.Exp(x)
}

func validateBeta(beta float64) error {
	switch {
	case beta == 0:
		return &InvalidParameterError{Name: "beta", Value: beta, Reason: "division by zero in acceptance rule"}
	case math.IsNaN(beta), math.IsInf(beta, 0):
		return &InvalidParameterError{Name: "beta", Value: beta, Reason: "must be finite"}
	}
	return nil
}

type evolveOptions struct {
	steps         *int
	observeCounts *int
}

// EvolveOption customises a single Evolve call.
type EvolveOption func(*evolveOptions)

// WithSteps sets the number of updates. Defaults to 100 when absent.
func WithSteps(n int) EvolveOption {
	return func(o *evolveOptions) { o.steps = &n }
}

// WithObserveCounts sets the requested number of observations. Defaults to
// 10 when absent.
func WithObserveCounts(n int) EvolveOption {
	return func(o *evolveOptions) { o.observeCounts = &n }
}

// ObserveInterval returns max(1, steps/observeCounts).
func ObserveInterval(steps, observeCounts int) int {
	interval := steps / observeCounts
	if interval < 1 {
		interval = 1
	}
	return interval
}

// Evolve runs the requested number of updates and records an observation
// after every step whose index is a multiple of the observe interval. It
// returns the observations recorded by this call; they are also appended to
// Observables.
func (e *Evolver) Evolve(beta float64, opts ...EvolveOption) ([]Observation, error) {
	var eo evolveOptions
	for _, opt := range opts {
		opt(&eo)
	}
	steps, counts := defaultSteps, defaultObserveCounts
	if eo.steps != nil {
		steps = *eo.steps
	}
	if eo.observeCounts != nil {
		counts = *eo.observeCounts
	}
	if err := validateBeta(beta); err != nil {
		return nil, err
	}
	if steps < 0 {
		return nil, &InvalidParameterError{Name: "steps", Value: steps, Reason: "must not be negative"}
	}
	if counts <= 0 {
		return nil, &InvalidParameterError{Name: "observe_counts", Value: counts, Reason: "must be positive"}
	}
	if steps > e.lat.cfg.MaxSteps {
		e.log.Warn("steps exceed advisory max_steps", "steps", steps, "max_steps", e.lat.cfg.MaxSteps)
	}

	interval := ObserveInterval(steps, counts)
	e.log.Debug("evolve", "beta", beta, "steps", steps, "observe_interval", interval)

	e.phase = PhaseRunning
	defer func() { e.phase = PhaseIdle }()

	first := len(e.observables)
	for step := 0; step < steps; step++ {
		e.evolveOne(beta)
		if step%interval == 0 {
			e.observables = append(e.observables, e.observe(step))
		}
	}
	recorded := make([]Observation, len(e.observables)-first)
	copy(recorded, e.observables[first:])

	e.log.Debug("evolve finished", "accepted", e.accepted, "observations", len(recorded), "energy", e.lat.Energy())
	return recorded, nil
}

func (e *Evolver) observe(step int) Observation {
	return Observation{Step: step, Energy: e.lat.Energy(), State: e.lat.Snapshot()}
}

// RunWithBudget calls EvolveOne until maxSteps updates have run or the budget
// is exhausted, checking the budget only between steps. A non-positive
// maxSteps is unbounded. It returns the number of updates performed.
func (e *Evolver) RunWithBudget(beta float64, budget *core.StepBudget, maxSteps int) (int, error) {
	if err := validateBeta(beta); err != nil {
		return 0, err
	}
	if budget == nil {
		budget = core.NewStepBudget(0)
	}
	if maxSteps <= 0 && !budget.Bounded() {
		return 0, &InvalidParameterError{Name: "max_steps", Value: maxSteps, Reason: "unbounded run without a time limit"}
	}
	budget.Start()
	n := 0
	for (maxSteps <= 0 || n < maxSteps) && !budget.Exhausted() {
		e.evolveOne(beta)
		budget.Tick()
		n++
	}
	e.log.Debug("budgeted run finished", "steps", n, "elapsed", budget.Elapsed())
	return n, nil
}

// Name returns the simulation identifier.
func (e *Evolver) Name() string { return "ising" }

// Size returns the grid dimensions.
func (e *Evolver) Size() core.Size { return e.lat.Size() }

// Cells exposes the current spin values.
func (e *Evolver) Cells() []float64 { return e.lat.grid.Cells() }

// Reset reseeds the random source and redraws the lattice.
func (e *Evolver) Reset(seed int64) {
	e.rng = pcore.NewRNG(seed)
	e.lat.rng = e.rng
	e.lat.Randomize()
	e.steps, e.accepted = 0, 0
}

// Step performs one update with the configured beta.
func (e *Evolver) Step() {
	if _, err := e.EvolveOne(e.lat.cfg.Beta); err != nil {
		e.log.Warn("step skipped", "error", err)
	}
}

// Parameters reports the lattice configuration.
func (e *Evolver) Parameters() core.ParameterSnapshot { return e.lat.cfg.Parameters() }

var _ core.ParameterProvider = (*Evolver)(nil)

func init() {
	core.Register("ising", func(cfg map[string]string) (core.Sim, error) {
		p, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		c, err := p.Resolve()
		if err != nil {
			return nil, err
		}
		lat, err := NewLattice(c)
		if err != nil {
			return nil, err
		}
		ev, err := NewEvolver(lat)
		if err != nil {
			return nil, err
		}
		return ev, nil
	})
}
