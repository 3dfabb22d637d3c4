package model

import "fmt"

// ConfigurationError signals an invalid parameter for a clustering call.
// It is always fatal to the call and names the offending parameter.
type ConfigurationError struct {
	Param  string
	Value  interface{}
	Reason string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for '%s' = '%v': %s", e.Param, e.Value, e.Reason)
}

// DataShapeError signals a malformed feature matrix.
// It is surfaced before any algorithm runs.
type DataShapeError struct {
	Reason string
}

func (e DataShapeError) Error() string {
	return fmt.Sprintf("invalid feature matrix: %s", e.Reason)
}

// ConvergenceWarning is a non-fatal signal that a fit hit the iteration cap
// before the assignments stabilised. The result is still valid,
// but downstream consumers may decide to retry with a different seed or k.
type ConvergenceWarning struct {
	K          int
	Iterations int
}

func (e ConvergenceWarning) Error() string {
	return fmt.Sprintf("fit for k = %d did not converge within %d iterations", e.K, e.Iterations)
}
