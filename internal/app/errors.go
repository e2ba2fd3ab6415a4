package service

import (
	"errors"

	"github.com/sarthakkaushal65/predictscore/internal/domain/encoding"
	"github.com/sarthakkaushal65/predictscore/internal/domain/prediction"
	"github.com/sarthakkaushal65/predictscore/internal/domain/schema"
)

// Error kinds as reported in logs, metrics and API responses.
const (
	KindUnknownCategory  = "unknown_category"
	KindSchemaMismatch   = "schema_mismatch"
	KindInvalidValue     = "invalid_value"
	KindOutOfRange       = "out_of_range"
	KindInvalidSchema    = "invalid_schema"
	KindInferenceFailure = "inference_failure"
	KindModelUnavailable = "model_unavailable"
	KindInternal         = "internal"
)

// ErrorKind classifies err by the first sentinel it wraps.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, encoding.ErrUnknownCategory):
		return KindUnknownCategory
	case errors.Is(err, encoding.ErrSchemaMismatch):
		return KindSchemaMismatch
	case errors.Is(err, encoding.ErrInvalidValue):
		return KindInvalidValue
	case errors.Is(err, encoding.ErrOutOfRange):
		return KindOutOfRange
	case errors.Is(err, schema.ErrInvalidSchema), errors.Is(err, schema.ErrLoadSchema):
		return KindInvalidSchema
	case errors.Is(err, prediction.ErrInferenceFailure):
		return KindInferenceFailure
	case errors.Is(err, prediction.ErrModelUnavailable):
		return KindModelUnavailable
	default:
		return KindInternal
	}
}
