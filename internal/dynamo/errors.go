package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation and analysis operations.
var (
	// ErrInvalidParameter indicates a non-positive time constant, step or horizon.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrDimensionMismatch indicates a non-square weight matrix or a drive /
	// time-constant vector whose length disagrees with the matrix dimension.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrEmptySignal indicates spectral analysis of a zero-length series.
	ErrEmptySignal = errors.New("dynamo: empty signal")
)

// InvalidParameter wraps ErrInvalidParameter with the offending name and value.
func InvalidParameter(name string, value float64) error {
	return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidParameter, name, value)
}

// DimensionMismatch wraps ErrDimensionMismatch with the expected and actual sizes.
func DimensionMismatch(what string, want, got int) error {
	return fmt.Errorf("%w: %s has length %d, want %d", ErrDimensionMismatch, what, got, want)
}

// SimError records where a run stopped when state validation is enabled.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
