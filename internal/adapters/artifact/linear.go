package artifact

import (
	"fmt"
	"math"
)

// linear scores a row as intercept + w·x.
type linear struct {
	intercept float64
	weights   []float64
}

func newLinear(intercept float64, weights []float64, nFeatures int) (*linear, error) {
	if len(weights) != nFeatures {
		return nil, fmt.Errorf("%w: %d coefficients for %d features", ErrMalformed, len(weights), nFeatures)
	}
	for _, w := range append([]float64{intercept}, weights...) {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: non-finite coefficient", ErrMalformed)
		}
	}
	return &linear{intercept: intercept, weights: append([]float64(nil), weights...)}, nil
}

func (m *linear) score(row []float64) float64 {
	sum := m.intercept
	for j, v := range row {
		sum += m.weights[j] * v
	}
	return sum
}
