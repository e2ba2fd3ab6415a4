package prediction

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/sarthakkaushal65/predictscore/internal/domain/types"
)

// scorePrecision is the number of decimals shown to users.
const scorePrecision = 2

// Result is a single prediction and the vector that produced it.
// It only lives for the duration of a request.
type Result struct {
	ID     uuid.UUID
	Score  float64
	Vector types.FeatureVector
	Schema string
	Model  string
}

// NewResult stamps a fresh id on a score.
func NewResult(score float64, vec types.FeatureVector, schemaID, model string) Result {
	return Result{
		ID:     uuid.New(),
		Score:  score,
		Vector: vec,
		Schema: schemaID,
		Model:  model,
	}
}

// Formatted returns the score with two decimals.
func (r Result) Formatted() string {
	return FormatScore(r.Score)
}

// FormatScore renders a score with two decimals, e.g. 67.456 -> "67.46".
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', scorePrecision, 64)
}
