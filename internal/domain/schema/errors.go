package schema

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidSchema = errors.New("invalid schema")
	ErrLoadSchema    = errors.New("load schema failed")
)
