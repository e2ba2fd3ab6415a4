package prediction

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrModelUnavailable = errors.New("model unavailable")
	ErrInferenceFailure = errors.New("inference failure")
)

// InferenceError wraps whatever the regressor reported.
type InferenceError struct {
	Model string
	Err   error
}

func (e *InferenceError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("%s: %v", ErrInferenceFailure, e.Err)
	}
	return fmt.Sprintf("%s: model %s: %v", ErrInferenceFailure, e.Model, e.Err)
}

// Unwrap exposes ErrInferenceFailure and the underlying cause.
func (e *InferenceError) Unwrap() []error { return []error{ErrInferenceFailure, e.Err} }
