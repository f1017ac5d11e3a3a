package ising

import (
	"io"
	"log/slog"

	"mad-ising/internal/core"
	pcore "mad-ising/pkg/core"
)

// DefaultMaxStates is the enumeration guard applied when WithMaxStates is
// not given. 1<<22 covers every binary lattice up to 22 cells.
const DefaultMaxStates uint64 = 1 << 22

type options struct {
	logger      *slog.Logger
	rng         *pcore.RNG
	observables []Observation
	maxStates   uint64
	workers     int
}

// Option customises a Lattice, Evolver or Enumerator.
type Option func(*options)

// WithLogger routes diagnostics to l. Components never use slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRNG supplies the random source. When absent a source seeded from
// Config.Seed is used.
func WithRNG(r *pcore.RNG) Option {
	return func(o *options) { o.rng = r }
}

// WithObservables seeds the evolver with a pre-existing observation sequence
// that subsequent runs append to.
func WithObservables(obs []Observation) Option {
	return func(o *options) { o.observables = obs }
}

// WithMaxStates sets the enumeration guard. Zero disables the guard.
func WithMaxStates(n uint64) Option {
	return func(o *options) { o.maxStates = n }
}

// WithWorkers bounds the concurrency of sweeps and partitioned enumeration.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func buildOptions(cfg Config, opts []Option) options {
	o := options{maxStates: DefaultMaxStates, workers: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.rng == nil {
		o.rng = pcore.NewRNG(cfg.Seed)
	}
	if o.workers <= 0 {
		o.workers = 1
	}
	return o
}

// sizeAttr is the slog group used for lattice dimensions.
func sizeAttr(s core.Size) slog.Attr {
	return slog.Group("size", slog.Int("w", s.W), slog.Int("h", s.H))
}
