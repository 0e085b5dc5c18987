package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector holding NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDimensionMismatch indicates arrays whose lengths disagree with the body count.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrCoincidentBodies indicates two bodies at the same position.
	ErrCoincidentBodies = errors.New("dynamo: coincident bodies")

	// ErrAllocation indicates a force or working buffer could not be allocated.
	ErrAllocation = errors.New("dynamo: buffer allocation failed")

	// ErrNotPrimed indicates the force cache was read before the first evaluation.
	ErrNotPrimed = errors.New("dynamo: force cache not initialized")

	// ErrNoPotential indicates a force law without a potential energy.
	ErrNoPotential = errors.New("dynamo: force law has no potential energy")
)

// SimulationError wraps an error that aborted a run.
type SimulationError struct {
	Cycle   int
	Tick    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("cycle %d (tick %d): %v", e.Cycle, e.Tick, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
