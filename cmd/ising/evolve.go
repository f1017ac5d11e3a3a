package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mad-ising/internal/core"
	"mad-ising/internal/render"
	"mad-ising/internal/sims/ising"
)

func newEvolveCmd(root *rootOptions) *cobra.Command {
	var steps, observeCounts int
	var budget time.Duration
	var printState bool

	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Run single-spin-flip Metropolis updates and print observations",
		Long: `Run Metropolis updates on a randomly initialised lattice.

Example: ising evolve --width 20 --height 20 --beta 1 --steps 1000 --observe-counts 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags())
			if err != nil {
				return err
			}
			log := root.logger.With("cmd", "evolve")
			lat, err := ising.NewLattice(cfg, ising.WithLogger(log))
			if err != nil {
				return err
			}
			ev, err := ising.NewEvolver(lat)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if printState {
				fmt.Fprint(out, render.Text(lat.Grid(), render.DefaultGlyphs))
			}

			if budget > 0 {
				n, err := ev.RunWithBudget(cfg.Beta, core.NewStepBudget(budget), steps)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "ran %d steps within %s, energy %.4g\n", n, budget, lat.Energy())
			} else {
				obs, err := ev.Evolve(cfg.Beta, ising.WithSteps(steps), ising.WithObserveCounts(observeCounts))
				if err != nil {
					return err
				}
				for _, o := range obs {
					fmt.Fprintf(out, "step=%d energy=%.4g magnetization=%.4f\n", o.Step, o.Energy, o.Magnetization())
				}
				if len(obs) > 0 {
					s, err := ising.Summarize(obs)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "mean energy %.4f (sd %.4f, median %.4f, range [%.4g, %.4g]), mean |m| %.4f\n",
						s.MeanEnergy, s.StdDevEnergy, s.MedianEnergy, s.MinEnergy, s.MaxEnergy, s.MeanAbsMagnetization)
				}
			}
			fmt.Fprintf(out, "accepted %d/%d flips, final energy %.4g\n", ev.Accepted(), ev.StepsTaken(), lat.Energy())
			if printState {
				fmt.Fprint(out, render.Text(lat.Grid(), render.DefaultGlyphs))
			}
			return nil
		},
	}

	addLatticeFlags(cmd.Flags())
	cmd.Flags().IntVar(&steps, "steps", 100, "number of single-spin updates")
	cmd.Flags().IntVar(&observeCounts, "observe-counts", 10, "number of observations to record")
	cmd.Flags().DurationVar(&budget, "budget", 0, "wall-clock budget; when set, --steps caps the run and no observations are taken")
	cmd.Flags().BoolVar(&printState, "print-state", false, "print the lattice before and after the run")
	return cmd
}
