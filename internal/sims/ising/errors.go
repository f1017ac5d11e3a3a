package ising

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("ising: invalid configuration")
	// ErrInvalidParameter is matched by every *InvalidParameterError.
	ErrInvalidParameter = errors.New("ising: invalid parameter")
	// ErrComplexityGuard is matched by every *ComplexityGuardError.
	ErrComplexityGuard = errors.New("ising: state space exceeds guard")
)

// ConfigurationError reports invalid lattice dimensions, state sets or
// explicit state shapes.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("ising: invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

func configErr(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InvalidParameterError reports an argument for which the operation is
// undefined, such as beta == 0.
type InvalidParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("ising: invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}

func (e *InvalidParameterError) Unwrap() error { return ErrInvalidParameter }

// ComplexityGuardError reports an enumeration request whose state space is
// larger than the configured limit.
type ComplexityGuardError struct {
	// States is the size of the requested state space. Overflow is set when
	// the size does not fit in a uint64.
	States   uint64
	Overflow bool
	Limit    uint64
}

func (e *ComplexityGuardError) Error() string {
	if e.Overflow {
		return fmt.Sprintf("ising: state space overflows uint64 (limit %d)", e.Limit)
	}
	return fmt.Sprintf("ising: state space of %d microstates exceeds limit %d", e.States, e.Limit)
}

func (e *ComplexityGuardError) Unwrap() error { return ErrComplexityGuard }
