package artifact

import "errors"

// Sentinel kinds for artifact errors.
var (
	ErrColumnMismatch  = errors.New("column mismatch")
	ErrUnsupportedKind = errors.New("unsupported model kind")
	ErrMalformed       = errors.New("malformed artifact")
)
