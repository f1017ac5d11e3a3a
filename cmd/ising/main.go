// Command ising runs Metropolis evolutions and exact enumerations of the 2-D
// Ising lattice.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mad-ising/internal/sims/ising"
)

// envKeys maps ISING_* environment variables onto FromMap keys.
var envKeys = map[string]string{
	"ISING_WIDTH":     "w",
	"ISING_HEIGHT":    "h",
	"ISING_STATES":    "states",
	"ISING_MAX_STEPS": "max_steps",
	"ISING_SEED":      "seed",
	"ISING_BETA":      "beta",
}

// latticeFlags are the flag names that override FromMap keys.
var latticeFlags = map[string]string{
	"width":     "w",
	"height":    "h",
	"states":    "states",
	"max-steps": "max_steps",
	"seed":      "seed",
	"beta":      "beta",
}

type rootOptions struct {
	envFile  string
	logLevel string
	logger   *slog.Logger
}

func main() {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "ising",
		Short:         "2-D Ising lattice: Metropolis evolution and exact enumeration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(opts.envFile); err != nil && cmd.Flags().Changed("env-file") {
				return fmt.Errorf("load %s: %w", opts.envFile, err)
			}
			var level slog.Level
			if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", opts.logLevel, err)
			}
			opts.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with ISING_* defaults")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newEvolveCmd(opts),
		newEnumerateCmd(opts),
		newSweepCmd(opts),
		newRunCmd(opts),
		newParamsCmd(opts),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// addLatticeFlags registers the lattice configuration flags. Their values are
// only applied when set explicitly, so environment defaults survive.
func addLatticeFlags(fs *pflag.FlagSet) {
	def := ising.DefaultConfig()
	fs.Int("width", def.Width, "lattice width")
	fs.Int("height", def.Height, "lattice height")
	fs.String("states", "-1,1", "comma separated spin values")
	fs.Int("max-steps", def.MaxSteps, "advisory step limit")
	fs.Int64("seed", def.Seed, "random seed")
	fs.Float64("beta", def.Beta, "acceptance divisor beta")
}

// resolveConfig layers environment variables and explicitly set flags into
// an ising.Config.
func resolveConfig(fs *pflag.FlagSet) (ising.Config, error) {
	raw := map[string]string{}
	for env, key := range envKeys {
		if v, ok := os.LookupEnv(env); ok {
			raw[key] = strings.TrimSpace(v)
		}
	}
	for flagName, key := range latticeFlags {
		f := fs.Lookup(flagName)
		if f != nil && f.Changed {
			raw[key] = f.Value.String()
		}
	}
	p, err := ising.FromMap(raw)
	if err != nil {
		return ising.Config{}, err
	}
	return p.Resolve()
}
