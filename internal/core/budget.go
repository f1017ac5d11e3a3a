package core

import "time"

// StepBudget bounds a run of single steps by wall-clock time. Callers check
// Exhausted between steps; a step in progress is never interrupted.
type StepBudget struct {
	limit time.Duration
	start time.Time
	now   func() time.Time
	steps int
}

// NewStepBudget constructs a budget allowing limit of wall-clock time. A
// non-positive limit never expires.
func NewStepBudget(limit time.Duration) *StepBudget {
	return &StepBudget{limit: limit, now: time.Now}
}

// Start (re)arms the budget. It is called implicitly by the first Exhausted.
func (b *StepBudget) Start() {
	b.start = b.now()
	b.steps = 0
}

// Tick records a completed step.
func (b *StepBudget) Tick() { b.steps++ }

// Steps reports the number of ticks since Start.
func (b *StepBudget) Steps() int { return b.steps }

// Elapsed reports the time since Start.
func (b *StepBudget) Elapsed() time.Duration {
	if b.start.IsZero() {
		return 0
	}
	return b.now().Sub(b.start)
}

// Bounded reports whether the budget has a time limit.
func (b *StepBudget) Bounded() bool { return b.limit > 0 }

// Exhausted reports whether the time limit has been reached.
func (b *StepBudget) Exhausted() bool {
	if b.start.IsZero() {
		b.Start()
	}
	if b.limit <= 0 {
		return false
	}
	return b.Elapsed() >= b.limit
}
