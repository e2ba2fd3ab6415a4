// Package encoding turns raw form answers into the ordered numeric feature
// vector a trained model expects.
package encoding

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sarthakkaushal65/predictscore/internal/domain/schema"
	"github.com/sarthakkaushal65/predictscore/internal/domain/types"
)

// Inputs maps slot name to the raw answer collected for it. Numeric slots accept
// Go numbers, json.Number or decimal strings; categorical slots accept a label.
type Inputs map[string]any

// Encoder encodes inputs against one (schema, category map) pair.
type Encoder struct {
	schema *schema.Schema
	maps   schema.CategoryMap
	names  []string
}

// New creates an Encoder. The schema and map are read, never modified.
func New(s *schema.Schema, maps schema.CategoryMap) *Encoder {
	return &Encoder{schema: s, maps: maps, names: s.Names()}
}

// Encode is a convenience wrapper around New(s, maps).Encode(raw).
func Encode(raw Inputs, s *schema.Schema, maps schema.CategoryMap) (types.FeatureVector, error) {
	return New(s, maps).Encode(raw)
}

// Schema returns the schema the encoder was built for.
func (e *Encoder) Schema() *schema.Schema {
	return e.schema
}

// Encode produces one value per slot in schema order. On any failure the zero
// vector is returned; callers never see a partially encoded row.
func (e *Encoder) Encode(raw Inputs) (types.FeatureVector, error) {
	if err := e.checkKeys(raw); err != nil {
		return types.FeatureVector{}, err
	}

	values := make([]float64, len(e.schema.Slots))
	for i, slot := range e.schema.Slots {
		v, ok := raw[slot.Name]
		if !ok {
			return types.FeatureVector{}, slotErr(ErrSchemaMismatch, slot.Name, "missing input")
		}

		var (
			x   float64
			err error
		)
		switch slot.Kind {
		case schema.KindNumeric:
			x, err = numeric(slot.Name, v)
		case schema.KindCategorical:
			x, err = e.categorical(slot.Name, v)
		default:
			err = slotErr(ErrSchemaMismatch, slot.Name, "unsupported kind %q", slot.Kind)
		}
		if err != nil {
			return types.FeatureVector{}, err
		}
		values[i] = x
	}

	cols := make([]string, len(e.names))
	copy(cols, e.names)
	vec := types.FeatureVector{Columns: cols, Values: values}
	if vec.Len() != e.schema.Len() {
		return types.FeatureVector{}, slotErr(ErrSchemaMismatch, "*", "encoded %d of %d slots", vec.Len(), e.schema.Len())
	}
	return vec, nil
}

// checkKeys rejects inputs naming slots the schema does not have. The first
// offending key in sorted order is reported so errors are stable.
func (e *Encoder) checkKeys(raw Inputs) error {
	var unknown []string
	for k := range raw {
		if _, ok := e.schema.Slot(k); !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return slotErr(ErrSchemaMismatch, unknown[0], "not part of schema %s", e.schema.ID())
}

func (e *Encoder) categorical(slot string, v any) (float64, error) {
	label, ok := v.(string)
	if !ok {
		return 0, slotErr(ErrInvalidValue, slot, "expected a label, got %T", v)
	}
	if !e.maps.Has(slot) {
		return 0, slotErr(ErrSchemaMismatch, slot, "no category map")
	}
	code, ok := e.maps.Lookup(slot, label)
	if !ok {
		return 0, &CategoryError{Slot: slot, Label: label}
	}
	return float64(code), nil
}

func numeric(slot string, v any) (float64, error) {
	x, ok := toFloat(v)
	if !ok {
		return 0, slotErr(ErrInvalidValue, slot, "expected a number, got %v", v)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, slotErr(ErrInvalidValue, slot, "non-finite number")
	}
	return x, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
