package ising

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"mad-ising/internal/core"
)

// Config controls the lattice dimensions, the spin state set and the
// defaults used when the lattice runs as a registered core.Sim.
type Config struct {
	Width  int
	Height int

	// States is the ordered set of spin values a cell may hold.
	States []float64

	// MaxSteps is advisory: Evolve logs a warning when asked to exceed it.
	MaxSteps int

	Seed int64

	// Beta is the divisor used by Step when the evolver runs as a core.Sim.
	Beta float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:    20,
		Height:   20,
		States:   []float64{-1, 1},
		MaxSteps: 100000,
		Seed:     42,
		Beta:     1,
	}
}

// Params holds optional overrides. A nil field is absent and takes the
// default; a present zero value is kept and rejected by Validate.
type Params struct {
	Width    *int
	Height   *int
	States   []float64
	MaxSteps *int
	Seed     *int64
	Beta     *float64
}

// Resolve applies p on top of DefaultConfig and validates the result.
func (p Params) Resolve() (Config, error) {
	c := DefaultConfig()
	if p.Width != nil {
		c.Width = *p.Width
	}
	if p.Height != nil {
		c.Height = *p.Height
	}
	if p.States != nil {
		c.States = slices.Clone(p.States)
	}
	if p.MaxSteps != nil {
		c.MaxSteps = *p.MaxSteps
	}
	if p.Seed != nil {
		c.Seed = *p.Seed
	}
	if p.Beta != nil {
		c.Beta = *p.Beta
	}
	return c, c.Validate()
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return configErr("width", "must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return configErr("height", "must be positive, got %d", c.Height)
	}
	if len(c.States) == 0 {
		return configErr("states", "must not be empty")
	}
	seen := make(map[float64]struct{}, len(c.States))
	for _, s := range c.States {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return configErr("states", "value %v is not finite", s)
		}
		if _, dup := seen[s]; dup {
			return configErr("states", "duplicate value %v", s)
		}
		seen[s] = struct{}{}
	}
	if c.MaxSteps <= 0 {
		return configErr("max_steps", "must be positive, got %d", c.MaxSteps)
	}
	return validateBeta(c.Beta)
}

// Size reports the lattice dimensions.
func (c Config) Size() core.Size { return core.Size{W: c.Width, H: c.Height} }

// hasState reports whether v is a member of the state set.
func (c Config) hasState(v float64) bool { return slices.Contains(c.States, v) }

// negationClosed reports whether -s is a state for every state s.
func (c Config) negationClosed() bool {
	for _, s := range c.States {
		if !c.hasState(-s) {
			return false
		}
	}
	return true
}

// FromMap parses flag-style key/value pairs into Params. Unknown keys are
// ignored; keys that are present but malformed are reported.
func FromMap(cfg map[string]string) (Params, error) {
	var p Params
	if cfg == nil {
		return p, nil
	}
	if v, ok := cfg["w"]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return p, configErr("width", "parse %q: %v", v, err)
		}
		p.Width = &n
	}
	if v, ok := cfg["h"]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return p, configErr("height", "parse %q: %v", v, err)
		}
		p.Height = &n
	}
	if v, ok := cfg["states"]; ok {
		states, err := ParseStates(v)
		if err != nil {
			return p, err
		}
		p.States = states
	}
	if v, ok := cfg["max_steps"]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return p, configErr("max_steps", "parse %q: %v", v, err)
		}
		p.MaxSteps = &n
	}
	if v, ok := cfg["seed"]; ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return p, configErr("seed", "parse %q: %v", v, err)
		}
		p.Seed = &n
	}
	if v, ok := cfg["beta"]; ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return p, configErr("beta", "parse %q: %v", v, err)
		}
		p.Beta = &f
	}
	return p, nil
}

// ParseStates parses a comma separated list of spin values. An empty string
// yields an empty, non-nil slice.
func ParseStates(s string) ([]float64, error) {
	states := []float64{}
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, configErr("states", "parse %q: %v", field, err)
		}
		states = append(states, v)
	}
	return states, nil
}

// Parameters reports the configuration as a core.ParameterSnapshot.
func (c Config) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Lattice",
			Params: []core.Parameter{
				core.IntParam("w", "Width", c.Width),
				core.IntParam("h", "Height", c.Height),
				core.FloatListParam("states", "States", c.States),
			},
		},
		{
			Name: "Dynamics",
			Params: []core.Parameter{
				core.FloatParam("beta", "Beta", c.Beta),
				core.IntParam("max_steps", "Max steps", c.MaxSteps),
				core.Int64Param("seed", "Seed", c.Seed),
			},
		},
	}}
}
