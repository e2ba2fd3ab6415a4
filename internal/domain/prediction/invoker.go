// Package prediction defines the contract for invoking a trained regressor on
// an encoded feature vector.
package prediction

import (
	"context"
	"fmt"
	"math"

	"github.com/sarthakkaushal65/predictscore/internal/domain/types"
)

// Regressor is an opaque trained model. Implementations must be safe for
// concurrent use once constructed; the service never mutates a loaded model.
type Regressor interface {
	// Predict scores every row of the frame.
	Predict(ctx context.Context, rows types.Frame) ([]float64, error)
}

// Namer is optionally implemented by regressors that know their artifact name.
type Namer interface {
	Name() string
}

// Predict runs model on vec as the sole input row and returns its score.
// There are no retries: the call is a pure function of its inputs.
func Predict(ctx context.Context, vec types.FeatureVector, model Regressor) (score float64, err error) {
	if model == nil {
		return 0, ErrModelUnavailable
	}
	name := ModelName(model)

	defer func() {
		if r := recover(); r != nil {
			score = 0
			err = &InferenceError{Model: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	scores, err := model.Predict(ctx, vec.Frame())
	if err != nil {
		return 0, &InferenceError{Model: name, Err: err}
	}
	if len(scores) != 1 {
		return 0, &InferenceError{Model: name, Err: fmt.Errorf("expected 1 score, got %d", len(scores))}
	}
	if math.IsNaN(scores[0]) || math.IsInf(scores[0], 0) {
		return 0, &InferenceError{Model: name, Err: fmt.Errorf("non-finite score %v", scores[0])}
	}
	return scores[0], nil
}

// ModelName returns the model's name when it exposes one.
func ModelName(model Regressor) string {
	if n, ok := model.(Namer); ok {
		return n.Name()
	}
	return ""
}
