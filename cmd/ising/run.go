package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mad-ising/internal/core"
	"mad-ising/internal/render"
	_ "mad-ising/internal/sims/ising"
)

func newRunCmd(root *rootOptions) *cobra.Command {
	var simName string
	var seed int64
	var steps int
	var budget time.Duration
	var sets []string
	var showParams bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Step a registered simulation by name",
		Long: `Construct a registered simulation from key=value settings and step it.

Example: ising run --sim ising --set w=16 --set h=16 --set beta=2 --steps 5000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			factory, ok := core.Sims()[simName]
			if !ok {
				return fmt.Errorf("unknown sim %q (available: %s)", simName, strings.Join(core.SimNames(), ", "))
			}
			settings := map[string]string{}
			for _, kv := range sets {
				key, value, found := strings.Cut(kv, "=")
				if !found {
					return fmt.Errorf("invalid --set %q, want key=value", kv)
				}
				settings[key] = value
			}
			sim, err := factory(settings)
			if err != nil {
				return err
			}
			sim.Reset(seed)

			b := core.NewStepBudget(budget)
			b.Start()
			for b.Steps() < steps && !b.Exhausted() {
				sim.Step()
				b.Tick()
			}
			root.logger.Info("run finished", "sim", sim.Name(), "steps", b.Steps(), "elapsed", b.Elapsed())

			size := sim.Size()
			grid := core.NewSpinGrid(size.W, size.H)
			copy(grid.Cells(), sim.Cells())
			fmt.Fprint(cmd.OutOrStdout(), render.Text(grid, render.DefaultGlyphs))
			if pp, ok := sim.(core.ParameterProvider); ok && showParams {
				printParameters(cmd.OutOrStdout(), pp.Parameters())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&simName, "sim", "ising", "simulation to run")
	cmd.Flags().Int64Var(&seed, "seed", 42, "seed for simulation reset")
	cmd.Flags().IntVar(&steps, "steps", 1000, "steps to run")
	cmd.Flags().DurationVar(&budget, "budget", 0, "optional wall-clock budget")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "setting in key=value form (repeatable)")
	cmd.Flags().BoolVar(&showParams, "params", false, "print the simulation parameters after the grid")
	return cmd
}

func newParamsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the resolved lattice configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags())
			if err != nil {
				return err
			}
			printParameters(cmd.OutOrStdout(), cfg.Parameters())
			return nil
		},
	}
	addLatticeFlags(cmd.Flags())
	return cmd
}

func printParameters(out io.Writer, snap core.ParameterSnapshot) {
	for _, g := range snap.Groups {
		fmt.Fprintf(out, "%s\n", g.Name)
		params := append([]core.Parameter(nil), g.Params...)
		sort.SliceStable(params, func(i, j int) bool { return params[i].Key < params[j].Key })
		for _, p := range params {
			fmt.Fprintf(out, "  %-10s %-12s %s\n", p.Key, p.Label, p.Value)
		}
	}
}
