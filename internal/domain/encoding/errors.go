package encoding

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrSchemaMismatch  = errors.New("schema mismatch")
	ErrInvalidValue    = errors.New("invalid value")
	ErrOutOfRange      = errors.New("value out of range")
)

// CategoryError reports a label that is not in its slot's category map.
type CategoryError struct {
	Slot  string
	Label string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("%s: slot %q has no label %q", ErrUnknownCategory, e.Slot, e.Label)
}

// Unwrap exposes ErrUnknownCategory to errors.Is.
func (e *CategoryError) Unwrap() error { return ErrUnknownCategory }

// SlotError ties a failure kind to the slot that caused it.
type SlotError struct {
	Slot   string
	Kind   error
	Reason string
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("%s: slot %q: %s", e.Kind, e.Slot, e.Reason)
}

// Unwrap exposes the kind to errors.Is.
func (e *SlotError) Unwrap() error { return e.Kind }

func slotErr(kind error, slot, format string, args ...any) error {
	return &SlotError{Slot: slot, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
