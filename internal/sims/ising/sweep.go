package ising

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	pcore "mad-ising/pkg/core"
)

// SweepResult captures one independent evolution run of a beta sweep.
type SweepResult struct {
	RunID  uuid.UUID
	Beta   float64
	Seed   int64
	Steps  int
	Accept int

	FinalEnergy  float64
	Observations []Observation
	// Summary is zero when the run recorded no observations.
	Summary Summary
}

// AcceptanceRate returns the fraction of accepted flips.
func (r SweepResult) AcceptanceRate() float64 {
	if r.Steps == 0 {
		return 0
	}
	return float64(r.Accept) / float64(r.Steps)
}

// Sweep evolves one freshly initialised lattice per beta. Runs are
// independent: each owns its lattice and a random source seeded with
// cfg.Seed plus the run's position, so results do not depend on scheduling.
// Concurrency is bounded by WithWorkers. Results are in betas order.
func Sweep(ctx context.Context, cfg Config, betas []float64, evolveOpts []EvolveOption, opts ...Option) ([]SweepResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.negationClosed() {
		return nil, configErr("states", "flip by negation requires a symmetric state set, got %v", cfg.States)
	}
	for _, beta := range betas {
		if err := validateBeta(beta); err != nil {
			return nil, err
		}
	}
	o := buildOptions(cfg, opts)

	results := make([]SweepResult, len(betas))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, beta := range betas {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			id := uuid.New()
			seed := cfg.Seed + int64(i)
			log := o.logger.With("run_id", id.String(), "beta", beta)

			lat, err := NewLattice(cfg, WithRNG(pcore.NewRNG(seed)), WithLogger(log))
			if err != nil {
				return err
			}
			ev, err := NewEvolver(lat)
			if err != nil {
				return err
			}
			obs, err := ev.Evolve(beta, evolveOpts...)
			if err != nil {
				return fmt.Errorf("sweep run beta=%v: %w", beta, err)
			}
			res := SweepResult{
				RunID:        id,
				Beta:         beta,
				Seed:         seed,
				Steps:        ev.StepsTaken(),
				Accept:       ev.Accepted(),
				FinalEnergy:  lat.Energy(),
				Observations: obs,
			}
			if len(obs) > 0 {
				if res.Summary, err = Summarize(obs); err != nil {
					return err
				}
			}
			log.Info("sweep run finished", "steps", res.Steps, "acceptance", res.AcceptanceRate(), "energy", res.FinalEnergy)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// EnergyCounts enumerates the state space split into contiguous partitions,
// one per worker, and merges the per-partition histograms.
func (e *Enumerator) EnergyCounts(ctx context.Context) (EnergyHistogram, error) {
	total, err := e.TotalStates()
	if err != nil {
		return nil, err
	}
	parts := uint64(e.workers)
	if parts > total {
		parts = total
	}
	if parts == 0 {
		parts = 1
	}
	partials := make([]EnergyHistogram, parts)
	chunk := (total + parts - 1) / parts

	g, ctx := errgroup.WithContext(ctx)
	for p := uint64(0); p < parts; p++ {
		lo := p * chunk
		hi := min(lo+chunk, total)
		g.Go(func() error {
			h := make(EnergyHistogram)
			if lo >= hi {
				partials[p] = h
				return nil
			}
			seq, err := e.Range(lo, hi)
			if err != nil {
				return err
			}
			for ms := range seq {
				if err := ctx.Err(); err != nil {
					return err
				}
				h[ms.Energy]++
			}
			partials[p] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	e.log.Debug("partitioned enumeration complete", "partitions", parts, "total_states", total)
	return MergeHistograms(partials...), nil
}
