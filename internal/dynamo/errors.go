package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors shared by the solvers.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownParam indicates a slider bound to a parameter the solver does not expose.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// ParamError wraps a parameter failure with the offending name and value.
type ParamError struct {
	Name    string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s=%g: %v", e.Name, e.Value, e.Wrapped)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}

// UnknownParam is a convenience constructor for the common SetParam default branch.
func UnknownParam(name string, value float64) error {
	return &ParamError{Name: name, Value: value, Wrapped: ErrUnknownParam}
}

func OutOfBounds(name string, value float64) error {
	return &ParamError{Name: name, Value: value, Wrapped: ErrParameterBounds}
}
