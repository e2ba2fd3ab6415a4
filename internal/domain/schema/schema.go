// Package schema describes the ordered feature slots a trained model expects and
// the category encodings used for its categorical inputs.
//
// A Schema and the model artifact it was trained with form a matched pair. Slot
// order is the column order the model was fit on; changing it does not raise an
// error anywhere, it silently produces wrong predictions.
package schema

import (
	"fmt"
	"math"
	"strings"
)

// Kind tags a slot as numeric or categorical.
type Kind string

// Slot kinds.
const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Schema is an ordered sequence of named feature slots.
type Schema struct {
	// Name identifies the schema family, e.g. "student_score".
	Name string `koanf:"name" json:"name"`

	// Version is bumped together with the model artifact.
	Version int `koanf:"version" json:"version"`

	// Model names the artifact this schema was trained with.
	Model string `koanf:"model" json:"model"`

	// Title is shown at the top of the input form.
	Title string `koanf:"title" json:"title"`

	Slots []Slot `koanf:"slots" json:"slots"`
}

// Slot is a single model column together with the widget that collects it.
type Slot struct {
	Name  string `koanf:"name" json:"name"`
	Label string `koanf:"label" json:"label"`
	Kind  Kind   `koanf:"kind" json:"kind"`

	// Slider domain, numeric slots only.
	Min     float64 `koanf:"min" json:"min,omitempty"`
	Max     float64 `koanf:"max" json:"max,omitempty"`
	Default float64 `koanf:"default" json:"default,omitempty"`
	Step    float64 `koanf:"step" json:"step,omitempty"`

	// Chart marks numeric slots rendered in the result bar chart.
	Chart bool `koanf:"chart" json:"chart,omitempty"`

	// Categories lists the allowed labels in the order they are offered.
	Categories []Category `koanf:"categories" json:"categories,omitempty"`
}

// Category is one allowed label of a categorical slot and its trained code.
type Category struct {
	Label string `koanf:"label" json:"label"`
	Code  int    `koanf:"code" json:"code"`
}

// Len returns the number of slots.
func (s *Schema) Len() int {
	return len(s.Slots)
}

// Names returns slot names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Slots))
	for i, slot := range s.Slots {
		names[i] = slot.Name
	}
	return names
}

// Slot returns the slot with the given name.
func (s *Schema) Slot(name string) (Slot, bool) {
	for _, slot := range s.Slots {
		if slot.Name == name {
			return slot, true
		}
	}
	return Slot{}, false
}

// ChartSlots returns the numeric slots flagged for the bar chart.
func (s *Schema) ChartSlots() []Slot {
	var out []Slot
	for _, slot := range s.Slots {
		if slot.Chart && slot.Kind == KindNumeric {
			out = append(out, slot)
		}
	}
	return out
}

// ID returns "name@vN".
func (s *Schema) ID() string {
	return fmt.Sprintf("%s@v%d", s.Name, s.Version)
}

// CategoryMap derives the label to code lookup table for every categorical slot.
func (s *Schema) CategoryMap() CategoryMap {
	m := make(CategoryMap)
	for _, slot := range s.Slots {
		if slot.Kind != KindCategorical {
			continue
		}
		codes := make(map[string]int, len(slot.Categories))
		for _, c := range slot.Categories {
			codes[c.Label] = c.Code
		}
		m[slot.Name] = codes
	}
	return m
}

// Contains reports whether v lies within the slider domain.
func (sl Slot) Contains(v float64) bool {
	return v >= sl.Min && v <= sl.Max
}

// Labels returns the offered labels in order.
func (sl Slot) Labels() []string {
	out := make([]string, len(sl.Categories))
	for i, c := range sl.Categories {
		out[i] = c.Label
	}
	return out
}

// Validate checks structural invariants. It does not, and cannot, prove the
// encodings match the ones used at training time.
func (s *Schema) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return invalid("name must not be empty")
	}
	if len(s.Slots) == 0 {
		return invalid("schema %q has no slots", s.Name)
	}
	seen := make(map[string]struct{}, len(s.Slots))
	for i, slot := range s.Slots {
		if strings.TrimSpace(slot.Name) == "" {
			return invalid("slot %d has no name", i)
		}
		if _, dup := seen[slot.Name]; dup {
			return invalid("duplicate slot %q", slot.Name)
		}
		seen[slot.Name] = struct{}{}

		var err error
		switch slot.Kind {
		case KindNumeric:
			err = validateNumeric(slot)
		case KindCategorical:
			err = validateCategorical(slot)
		default:
			err = invalid("slot %q has unknown kind %q", slot.Name, slot.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func validateNumeric(slot Slot) error {
	for _, v := range []float64{slot.Min, slot.Max, slot.Default, slot.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid("slot %q has a non-finite domain", slot.Name)
		}
	}
	switch {
	case slot.Min > slot.Max:
		return invalid("slot %q: min %v > max %v", slot.Name, slot.Min, slot.Max)
	case !slot.Contains(slot.Default):
		return invalid("slot %q: default %v outside [%v, %v]", slot.Name, slot.Default, slot.Min, slot.Max)
	case slot.Step <= 0:
		return invalid("slot %q: step must be positive", slot.Name)
	case len(slot.Categories) > 0:
		return invalid("slot %q: numeric slot cannot list categories", slot.Name)
	}
	return nil
}

func validateCategorical(slot Slot) error {
	if len(slot.Categories) == 0 {
		return invalid("slot %q has no categories", slot.Name)
	}
	if slot.Chart {
		return invalid("slot %q: only numeric slots can be charted", slot.Name)
	}
	labels := make(map[string]struct{}, len(slot.Categories))
	codes := make(map[int]string, len(slot.Categories))
	for _, c := range slot.Categories {
		if c.Label == "" {
			return invalid("slot %q has an empty label", slot.Name)
		}
		if _, dup := labels[c.Label]; dup {
			return invalid("slot %q: duplicate label %q", slot.Name, c.Label)
		}
		labels[c.Label] = struct{}{}
		if c.Code < 0 {
			return invalid("slot %q: label %q has negative code %d", slot.Name, c.Label, c.Code)
		}
		if other, dup := codes[c.Code]; dup {
			return invalid("slot %q: labels %q and %q share code %d", slot.Name, other, c.Label, c.Code)
		}
		codes[c.Code] = c.Label
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSchema, fmt.Sprintf(format, args...))
}
